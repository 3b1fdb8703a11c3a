package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
)

var latticeRamp = []rune(" ·∙•●✦◉█")

// lattice projects a 4D point lattice into the terminal. Parameter values
// steer everything visible: hue/saturation/intensity pick the palette,
// gridDensity the point count, the rot4d trio and speed the rotation, and
// morphFactor/chaos/dimension the shape of the projection. Cell levels are
// spring-smoothed so the picture eases instead of strobing.
type lattice struct {
	spring harmonica.Spring
	level  []float64
	vel    []float64
	shift  []float64

	points   [][4]float64
	geometry int
	grid     int

	spin    float64
	last    time.Time
	profile colorProfile
	output  string
}

func newLattice(fps int) *lattice {
	if fps <= 0 {
		fps = 30
	}
	return &lattice{
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 9.0, 0.85),
		geometry: -1,
		profile:  currentColorProfile(),
	}
}

func (l *lattice) update(values map[string]float64, geometry int, now time.Time, width, height int) {
	if width < 8 || height < 2 {
		l.output = ""
		return
	}

	hue := paramOr(values, "hue", 200)
	glow := paramOr(values, "intensity", 0.5)
	sat := paramOr(values, "saturation", 0.8)
	density := paramOr(values, "gridDensity", 15)
	morph := paramOr(values, "morphFactor", 1)
	dimension := paramOr(values, "dimension", 3.8)
	speed := paramOr(values, "speed", 1)
	chaos := paramOr(values, "chaos", 0)
	rotXW := paramOr(values, "rot4dXW", 0)
	rotYW := paramOr(values, "rot4dYW", 0)
	rotZW := paramOr(values, "rot4dZW", 0)

	grid := 2 + int(math.Round(density/25))
	if grid < 2 {
		grid = 2
	}
	if grid > 5 {
		grid = 5
	}
	if grid != l.grid || geometry != l.geometry {
		l.points = buildLatticePoints(geometry, grid)
		l.grid = grid
		l.geometry = geometry
	}

	if !l.last.IsZero() {
		dt := now.Sub(l.last).Seconds()
		if dt > 0.1 {
			dt = 0.1
		}
		if dt > 0 {
			l.spin += speed * dt * 0.9
		}
	}
	l.last = now

	cells := width * height
	if len(l.level) != cells {
		l.level = make([]float64, cells)
		l.vel = make([]float64, cells)
		l.shift = make([]float64, cells)
	}

	targets := make([]float64, cells)
	shifts := make([]float64, cells)

	cx := float64(width) / 2
	cy := float64(height) / 2
	span := cy * 0.92
	wDepth := dimension - 1.3
	tick := float64(now.UnixNano()%1e9) / 1e9 * 2 * math.Pi

	for i, src := range l.points {
		p := src
		p[3] *= morph
		if chaos > 0 {
			p[0] += math.Sin(float64(i)*2.399+tick*3) * chaos * 0.18
			p[1] += math.Sin(float64(i)*1.731+tick*2) * chaos * 0.18
		}

		rotate4(&p, 0, 3, rotXW+l.spin)
		rotate4(&p, 1, 3, rotYW+l.spin*0.7)
		rotate4(&p, 2, 3, rotZW)
		rotate4(&p, 0, 2, l.spin*0.35)

		denom := wDepth - p[3]*0.55
		if denom < 0.25 {
			denom = 0.25
		}
		wp := 1 / denom
		if wp > 2.6 {
			wp = 2.6
		}

		x3 := p[0] * wp
		y3 := p[1] * wp
		z3 := p[2] * wp
		if z3 > 1.9 {
			z3 = 1.9
		} else if z3 < -1.9 {
			z3 = -1.9
		}
		zp := 1 / (3.0 - z3)

		ix := int(cx + x3*zp*span*5.2)
		iy := int(cy + y3*zp*span*2.6)
		if ix < 0 || ix >= width || iy < 0 || iy >= height {
			continue
		}

		cell := iy*width + ix
		b := clamp01((0.2 + 0.8*glow) * (0.3 + wp*0.45) * (0.6 + zp*1.2))
		if b > targets[cell] {
			targets[cell] = b
			shifts[cell] = p[3]
		}
	}

	for i := range targets {
		l.level[i], l.vel[i] = l.spring.Update(l.level[i], l.vel[i], targets[i])
		if targets[i] > 0 {
			l.shift[i] = shifts[i]
		}
	}

	var out strings.Builder
	color := newANSIState()
	maxIdx := len(latticeRamp) - 1
	for row := 0; row < height; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			cell := row*width + col
			b := clamp01(l.level[cell])
			idx := int(b*float64(maxIdx) + 0.5)
			if idx > maxIdx {
				idx = maxIdx
			}
			ch := latticeRamp[idx]
			if ch == ' ' || l.profile == colorNone {
				out.WriteRune(ch)
				continue
			}
			h := hue/360 + l.shift[cell]*0.05 + b*0.03
			color.set(&out, rgbFromHSV(h, sat, 0.3+0.65*b))
			out.WriteRune(ch)
		}
		color.reset(&out)
	}

	l.output = out.String()
}

func (l *lattice) view() string {
	return l.output
}

func rotate4(p *[4]float64, a, b int, angle float64) {
	s, c := math.Sincos(angle)
	pa := p[a]*c - p[b]*s
	p[b] = p[a]*s + p[b]*c
	p[a] = pa
}

func paramOr(values map[string]float64, id string, fallback float64) float64 {
	if v, ok := values[id]; ok {
		return v
	}
	return fallback
}

// buildLatticePoints samples one of the base geometries on an n-per-axis
// grid. Points are unit-scale; morph, rotation and projection are applied
// per frame.
func buildLatticePoints(geometry, n int) [][4]float64 {
	pts := make([][4]float64, 0, n*n*n*n)
	for xi := 0; xi < n; xi++ {
		for yi := 0; yi < n; yi++ {
			for zi := 0; zi < n; zi++ {
				for wi := 0; wi < n; wi++ {
					if p, ok := shapePoint(geometry, xi, yi, zi, wi, n); ok {
						pts = append(pts, p)
					}
				}
			}
		}
	}
	return pts
}

func shapePoint(geometry, xi, yi, zi, wi, n int) ([4]float64, bool) {
	step := 2.0 / float64(n-1)
	x := -1 + float64(xi)*step
	y := -1 + float64(yi)*step
	z := -1 + float64(zi)*step
	w := -1 + float64(wi)*step

	switch geometry {
	case 0: // tetrahedron: corner wedge of the grid
		if x+y+z+w > 0.9 {
			return [4]float64{}, false
		}
		return [4]float64{x, y, z, w}, true

	case 2: // sphere: 3-sphere shells, radius layered through w
		alpha := (x + 1) * math.Pi / 2
		beta := (y + 1) * math.Pi / 2
		gamma := (z + 1) * math.Pi
		r := 0.55 + 0.35*(w+1)/2
		sa, ca := math.Sincos(alpha)
		sb, cb := math.Sincos(beta)
		sg, cg := math.Sincos(gamma)
		return [4]float64{r * ca, r * sa * cb, r * sa * sb * cg, r * sa * sb * sg}, true

	case 3: // torus in xyz, stacked through w
		theta := (x + 1) * math.Pi
		phi := (y + 1) * math.Pi
		r := 0.26 + 0.05*(z+1)
		ring := 0.68 + r*math.Cos(phi)
		return [4]float64{ring * math.Cos(theta), ring * math.Sin(theta), r * math.Sin(phi), w * 0.55}, true

	case 4: // klein bottle: flat embedding, which needs all four axes
		u := (x + 1) * math.Pi
		v := (y + 1) * math.Pi
		r := 0.24 + 0.05*(z+1)
		ring := 0.62 + r*math.Cos(v)
		scale := 0.85 + 0.075*(w+1)
		return [4]float64{
			scale * ring * math.Cos(u),
			scale * ring * math.Sin(u),
			scale * r * math.Sin(v) * math.Cos(u/2),
			scale * r * math.Sin(v) * math.Sin(u/2),
		}, true

	case 5: // fractal: nested copies shrinking by index parity
		scale := [3]float64{1, 0.55, 0.3}[(xi+yi+zi+wi)%3]
		return [4]float64{x * scale, y * scale, z * scale, w * scale}, true

	case 6: // wave: grid sheets displaced by crossing sines
		return [4]float64{
			x,
			y + 0.3*math.Sin(2.6*x+2.1*w),
			z + 0.25*math.Sin(2.6*y+1.7*w),
			w,
		}, true

	case 7: // crystal: octahedral clip of the grid
		if math.Abs(x)+math.Abs(y)+math.Abs(z)+0.5*math.Abs(w) > 1.8 {
			return [4]float64{}, false
		}
		return [4]float64{x, y, z, w}, true

	default: // hypercube
		return [4]float64{x, y, z, w}, true
	}
}

package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
	"github.com/Domusgpt/vib34d-complete-system/internal/source"
)

// session serves one connected viewer: frames stream out over the
// DataChannel, control and gesture messages come back in.
type session struct {
	engine   *engine.Engine
	store    preset.Store
	sel      *preset.Selection
	pointer  *source.Pointer
	pinch    *source.Pinch
	tilt     *source.Tilt
	level    *source.Level
	log      *log.Logger
	interval time.Duration

	mu sync.Mutex
	pc *webrtc.PeerConnection
	dc *webrtc.DataChannel

	stopCh chan struct{}
}

func (s *session) setDataChannel(dc *webrtc.DataChannel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc = dc
}

// start launches the frame pusher goroutine.
func (s *session) start() {
	go s.framePusher()
}

// stop signals the pusher to exit. Safe to call multiple times.
func (s *session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopCh:
		// Already closed.
	default:
		close(s.stopCh)
	}
}

func (s *session) framePusher() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		dc := s.dc
		s.mu.Unlock()
		if dc == nil || dc.ReadyState() != webrtc.DataChannelStateOpen {
			continue
		}

		data, err := encodeFrame(s.engine.Snapshot(), s.sel.Geometry())
		if err != nil {
			s.log.Printf("encode frame: %v", err)
			continue
		}
		if err := dc.SendText(string(data)); err != nil {
			s.log.Printf("send frame: %v", err)
		}
	}
}

type frameMessage struct {
	Type     string             `json:"type"`
	Values   map[string]float64 `json:"values"`
	Geometry int                `json:"geometry"`
}

func encodeFrame(values map[string]float64, geometry int) ([]byte, error) {
	return json.Marshal(frameMessage{Type: "frame", Values: values, Geometry: geometry})
}

type initMessage struct {
	Type          string      `json:"type"`
	Params        []paramInfo `json:"params"`
	Geometry      int         `json:"geometry"`
	GeometryNames []string    `json:"geometryNames"`
	Breathing     bool        `json:"breathing"`
}

type paramInfo struct {
	ID       string  `json:"id"`
	Base     float64 `json:"base"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Wrap     bool    `json:"wrap"`
	Category string  `json:"category"`
}

// encodeInit describes the parameter surface so the page can build its
// controls without hardcoding the registry.
func (s *session) encodeInit() ([]byte, error) {
	ids := s.engine.ParameterIDs()
	params := make([]paramInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.engine.Info(id)
		if err != nil {
			return nil, err
		}
		params = append(params, paramInfo{
			ID:       info.ID,
			Base:     info.Base,
			Min:      info.Min,
			Max:      info.Max,
			Wrap:     info.Wrap,
			Category: info.Category.String(),
		})
	}

	names := make([]string, preset.GeometryCount)
	for i := range names {
		names[i] = preset.GeometryName(i)
	}

	return json.Marshal(initMessage{
		Type:          "init",
		Params:        params,
		Geometry:      s.sel.Geometry(),
		GeometryNames: names,
		Breathing:     s.engine.Breathing(),
	})
}

type controlMessage struct {
	Type     string  `json:"type"`
	Param    string  `json:"param,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Name     string  `json:"name,omitempty"`
	Geometry int     `json:"geometry,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Delta    float64 `json:"delta,omitempty"`
	Alpha    float64 `json:"alpha,omitempty"`
	Beta     float64 `json:"beta,omitempty"`
	Gamma    float64 `json:"gamma,omitempty"`
}

type variationSummary struct {
	Name      string    `json:"name"`
	Geometry  int       `json:"geometry"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// handleControl processes one JSON message from the viewer.
func (s *session) handleControl(data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Printf("bad control message: %v", err)
		return
	}

	reply, err := s.dispatch(msg)
	if err != nil {
		s.log.Printf("control %s: %v", msg.Type, err)
		s.sendJSON(map[string]string{"type": "error", "message": err.Error()})
		return
	}
	if reply != nil {
		s.sendJSON(reply)
	}
}

// dispatch applies a control message and returns the reply to send, if any.
func (s *session) dispatch(msg controlMessage) (any, error) {
	switch msg.Type {
	case "set_param":
		return nil, s.engine.SetBase(msg.Param, msg.Value)

	case "adjust_param":
		return nil, s.engine.AdjustBase(msg.Param, msg.Value)

	case "set_geometry":
		s.sel.SetGeometry(msg.Geometry)
		return nil, nil

	case "set_breathing":
		s.engine.SetBreathing(msg.Value != 0)
		return nil, nil

	case "save_variation":
		if msg.Name == "" {
			return nil, fmt.Errorf("variation name is required")
		}
		bases := make(map[string]float64)
		for _, id := range s.engine.ParameterIDs() {
			base, err := s.engine.Base(id)
			if err != nil {
				return nil, err
			}
			bases[id] = base
		}
		v := preset.NewVariation(msg.Name, s.sel.Geometry(), bases)
		if err := s.store.SaveVariation(context.Background(), v); err != nil {
			return nil, err
		}
		return map[string]string{"type": "saved", "name": msg.Name}, nil

	case "load_variation":
		v, ok, err := s.store.GetVariation(context.Background(), msg.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unknown variation %q", msg.Name)
		}
		// Parameters persisted under an older registry may name ids this
		// build no longer has; apply only the known ones.
		bases := make(map[string]float64)
		for _, id := range s.engine.ParameterIDs() {
			if base, ok := v.Parameters[id]; ok {
				bases[id] = base
			}
		}
		if err := s.engine.SetBases(bases); err != nil {
			return nil, err
		}
		s.sel.SetGeometry(v.Geometry)
		return map[string]string{"type": "loaded", "name": msg.Name}, nil

	case "list_variations":
		list, err := s.store.ListVariations(context.Background())
		if err != nil {
			return nil, err
		}
		items := make([]variationSummary, 0, len(list))
		for _, v := range list {
			items = append(items, variationSummary{Name: v.Name, Geometry: v.Geometry, UpdatedAt: v.UpdatedAt})
		}
		return map[string]any{"type": "variations", "items": items}, nil

	case "delete_variation":
		if err := s.store.DeleteVariation(context.Background(), msg.Name); err != nil {
			return nil, err
		}
		return map[string]string{"type": "deleted", "name": msg.Name}, nil

	case "pointer":
		if s.pointer != nil {
			s.pointer.Drag(msg.X, msg.Y)
		}
		return nil, nil

	case "pointer_end":
		if s.pointer != nil {
			s.pointer.Release()
		}
		return nil, nil

	case "pinch":
		if s.pinch != nil {
			s.pinch.Scale(msg.Delta)
		}
		return nil, nil

	case "orient":
		if s.tilt != nil {
			s.tilt.Orient(msg.Alpha, msg.Beta, msg.Gamma)
		}
		return nil, nil

	case "level":
		if s.level != nil {
			s.level.Set(msg.Value)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (s *session) sendJSON(v any) {
	s.mu.Lock()
	dc := s.dc
	s.mu.Unlock()
	if dc == nil || dc.ReadyState() != webrtc.DataChannelStateOpen {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("marshal reply: %v", err)
		return
	}
	if err := dc.SendText(string(data)); err != nil {
		s.log.Printf("send reply: %v", err)
	}
}

// Package bridge exposes the engine to browsers over WebRTC. Signaling is a
// single HTTP roundtrip: the page POSTs an SDP offer to /offer and receives
// an answer with ICE candidates already gathered. Each viewer then gets one
// DataChannel carrying frame snapshots out and control messages in, so a
// phone can act as both renderer and input device.
package bridge

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
	"github.com/Domusgpt/vib34d-complete-system/internal/source"
)

//go:embed index.html
var content embed.FS

// Config carries the collaborators a Server serves.
type Config struct {
	Engine    *engine.Engine
	Store     preset.Store
	Selection *preset.Selection

	// Gesture sources fed by viewer events. Any of them may be nil, in
	// which case the matching messages are ignored.
	Pointer *source.Pointer
	Pinch   *source.Pinch
	Tilt    *source.Tilt
	Level   *source.Level

	// FrameRate is the outbound snapshot rate per viewer. Defaults to 30.
	FrameRate int
	Log       *log.Logger
}

type Server struct {
	cfg      Config
	interval time.Duration
	log      *log.Logger

	mu       sync.Mutex
	sessions map[*session]struct{}
	closed   bool
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("bridge: engine is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("bridge: preset store is required")
	}
	if cfg.Selection == nil {
		return nil, errors.New("bridge: selection is required")
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	return &Server{
		cfg:      cfg,
		interval: time.Second / time.Duration(cfg.FrameRate),
		log:      cfg.Log,
		sessions: make(map[*session]struct{}),
	}, nil
}

// Handler returns the signaling surface: the demo page at / and the SDP
// exchange at /offer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/offer", s.handleOffer)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data, err := content.ReadFile("index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	var offer webrtc.SessionDescription
	if err := json.Unmarshal(body, &offer); err != nil {
		http.Error(w, "bad SDP", http.StatusBadRequest)
		return
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		http.Error(w, "create PC: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sess := &session{
		engine:   s.cfg.Engine,
		store:    s.cfg.Store,
		sel:      s.cfg.Selection,
		pointer:  s.cfg.Pointer,
		pinch:    s.cfg.Pinch,
		tilt:     s.cfg.Tilt,
		level:    s.cfg.Level,
		log:      s.log,
		interval: s.interval,
		pc:       pc,
		stopCh:   make(chan struct{}),
	}
	if !s.track(sess) {
		_ = pc.Close()
		http.Error(w, "server closed", http.StatusServiceUnavailable)
		return
	}

	// The page creates the DataChannel so its offer includes SCTP; we
	// receive it here and wire it into the session.
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		sess.setDataChannel(dc)
		dc.OnOpen(func() {
			s.log.Printf("viewer channel open: %s", dc.Label())
			if data, err := sess.encodeInit(); err == nil {
				_ = dc.SendText(string(data))
			}
		})
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			sess.handleControl(msg.Data)
		})
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		s.log.Printf("viewer connection state: %s", state)
		if state == webrtc.PeerConnectionStateFailed ||
			state == webrtc.PeerConnectionStateClosed ||
			state == webrtc.PeerConnectionStateDisconnected {
			sess.stop()
			s.drop(sess)
		}
	})

	if err := pc.SetRemoteDescription(offer); err != nil {
		s.teardown(sess)
		http.Error(w, "set remote: "+err.Error(), http.StatusInternalServerError)
		return
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		s.teardown(sess)
		http.Error(w, "create answer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Wait for ICE gathering to complete so the answer carries every
	// candidate and no trickle roundtrips are needed.
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		s.teardown(sess)
		http.Error(w, "set local: "+err.Error(), http.StatusInternalServerError)
		return
	}
	<-gatherComplete

	sess.start()

	resp, err := json.Marshal(pc.LocalDescription())
	if err != nil {
		s.teardown(sess)
		http.Error(w, "marshal answer", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, string(resp))
}

// Close stops every live session. The Server rejects new offers afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[*session]struct{})
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.stop()
		_ = sess.pc.Close()
	}
}

func (s *Server) track(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[sess] = struct{}{}
	return true
}

func (s *Server) drop(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

func (s *Server) teardown(sess *session) {
	s.drop(sess)
	sess.stop()
	_ = sess.pc.Close()
}

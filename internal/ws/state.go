package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-flamestrip/internal/flame"
	"github.com/coreman2200/funtimes-flamestrip/internal/layout"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// State fans rendered frames out to preview clients. The render loop
// calls Broadcast; browsers connect to /ws.
type State struct {
	Layout layout.Layout
	Mode   flame.Mode
	FPS    int
	Driver string

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	frameID uint64
}

func NewState(l layout.Layout, mode flame.Mode, fps int, driver string) *State {
	return &State{
		Layout:  l,
		Mode:    mode,
		FPS:     fps,
		Driver:  driver,
		clients: map[*websocket.Conn]bool{},
	}
}

type topology struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Zigzag bool   `json:"zigzag"`
	Origin string `json:"origin"`
	Mode   string `json:"mode"`
	FPS    int    `json:"fps"`
	Driver string `json:"driver"`
}

func (s *State) topology() topology {
	return topology{
		Width:  s.Layout.Width,
		Height: s.Layout.Height,
		Zigzag: s.Layout.Zigzag,
		Origin: s.Layout.Origin.String(),
		Mode:   s.Mode.String(),
		FPS:    s.FPS,
		Driver: s.Driver,
	}
}

type frameMsg struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

// HandleFrames upgrades the connection, sends the topology once, then
// streams frames until the client goes away.
func (s *State) HandleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	top, _ := json.Marshal(s.topology())
	if err := conn.WriteMessage(websocket.TextMessage, top); err != nil {
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// drain reads so pings/closes are processed
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes one rendered frame to every connected client.
func (s *State) Broadcast(rgb []byte) {
	s.mu.Lock()
	s.frameID++
	id := s.frameID
	s.mu.Unlock()

	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		_ = c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// HandleHealth reports liveness plus the configured topology.
func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":       true,
		"topology": s.topology(),
	})
}

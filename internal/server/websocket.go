package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/core/sim"
)

const (
	viewerBuffer = 64
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type viewer struct {
	conn  *websocket.Conn
	scene string
	send  chan []byte
	once  sync.Once
}

func (v *viewer) close() {
	v.once.Do(func() { close(v.send) })
}

// FrameHub streams simulation frames to websocket viewers. A viewer may pick
// one scene with ?scene=<name>; without it every frame is sent. Viewers that
// fall behind lose frames rather than stall the simulation.
type FrameHub struct {
	logger     log.Log
	maxViewers int

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	closed  bool
	dropped uint64
}

// NewFrameHub builds a hub. maxViewers <= 0 means no limit.
func NewFrameHub(logger log.Log, maxViewers int) *FrameHub {
	if logger == nil {
		logger = log.NewNop()
	}
	return &FrameHub{
		logger:     logger,
		maxViewers: maxViewers,
		viewers:    make(map[*viewer]struct{}),
	}
}

func (h *FrameHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.admit(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", log.Err(err))
		return
	}

	v := &viewer{conn: conn, scene: r.URL.Query().Get("scene"), send: make(chan []byte, viewerBuffer)}
	if err := h.register(v); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		_ = conn.Close()
		return
	}
	h.logger.Debug("viewer connected", log.String("remote", conn.RemoteAddr().String()), log.String("scene", v.scene))

	go h.writeLoop(v)
	h.readLoop(v)
}

func (h *FrameHub) admit() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if h.maxViewers > 0 && len(h.viewers) >= h.maxViewers {
		return ErrMaxViewersReached
	}
	return nil
}

func (h *FrameHub) register(v *viewer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if h.maxViewers > 0 && len(h.viewers) >= h.maxViewers {
		return ErrMaxViewersReached
	}
	h.viewers[v] = struct{}{}
	return nil
}

func (h *FrameHub) unregister(v *viewer) {
	h.mu.Lock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		v.close()
	}
	h.mu.Unlock()
}

// readLoop only watches for the viewer going away; viewers do not send
// anything the hub acts on.
func (h *FrameHub) readLoop(v *viewer) {
	defer func() {
		h.unregister(v)
		_ = v.conn.Close()
		h.logger.Debug("viewer disconnected", log.String("remote", v.conn.RemoteAddr().String()))
	}()
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FrameHub) writeLoop(v *viewer) {
	for msg := range v.send {
		_ = v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("viewer write failed", log.Err(err))
			_ = v.conn.Close()
			return
		}
	}
	_ = v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Broadcast queues f for every viewer watching its scene. It never blocks on
// a viewer.
func (h *FrameHub) Broadcast(f sim.Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if len(h.viewers) == 0 {
		return nil
	}

	msg, err := json.Marshal(f)
	if err != nil {
		return err
	}
	for v := range h.viewers {
		if v.scene != "" && v.scene != f.Scene {
			continue
		}
		select {
		case v.send <- msg:
		default:
			h.dropped++
		}
	}
	return nil
}

// Viewers is the number of connected viewers.
func (h *FrameHub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Dropped counts frames skipped for slow viewers.
func (h *FrameHub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Close disconnects every viewer and refuses new ones.
func (h *FrameHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for v := range h.viewers {
		delete(h.viewers, v)
		v.close()
	}
}

package ws

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"block-battle/internal/config"
	"block-battle/internal/game"
	"block-battle/internal/session"
)

type eventKind int

const (
	evConnect eventKind = iota
	evMessage
	evDisconnect
	evSnapshot
	evHeartbeat
)

// event is one unit of work for the hub loop. Connects carry a reply
// channel so the connection goroutine can wait for its session.
type event struct {
	kind  eventKind
	conn  *wsConn
	reply chan *session.Session
	sess  *session.Session
	msg   Inbound
	stats chan Stats
}

// Stats is the snapshot served by the HTTP stats endpoint and logged by
// the heartbeat job.
type Stats struct {
	Sessions      int            `json:"sessions"`
	Rooms         int            `json:"rooms"`
	RoomsByStatus map[string]int `json:"roomsByStatus"`
}

// wsConn adapts a gorilla connection to session.Conn, stamping the write
// deadline before every data frame.
type wsConn struct {
	*websocket.Conn
	writeWait time.Duration
}

func (c *wsConn) WriteJSON(v any) error {
	_ = c.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.Conn.WriteJSON(v)
}

// Hub funnels everything that can mutate server state into one event
// queue. The loop goroutine started by Run is the only code that touches
// sessions, rooms and boards, so none of it locks.
type Hub struct {
	events   chan event
	svc      RoomService
	reg      *session.Registry
	rng      *rand.Rand
	cfg      config.Config
	log      *zap.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

func NewHub(svc RoomService, reg *session.Registry, rng *rand.Rand, cfg config.Config, log *zap.Logger) *Hub {
	return &Hub{
		events: make(chan event, 256),
		svc:    svc,
		reg:    reg,
		rng:    rng,
		cfg:    cfg,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		started: time.Now(),
	}
}

// Run drains the event queue until ctx is done. Each event runs to
// completion before the next is taken, so no two mutations ever race.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.events:
			switch ev.kind {
			case evConnect:
				ev.reply <- h.register(ev.conn)
			case evMessage:
				h.dispatch(ev.sess, ev.msg)
			case evDisconnect:
				h.drop(ev.sess)
			case evSnapshot:
				ev.stats <- h.snapshot()
			case evHeartbeat:
				h.logHeartbeat()
			}
		}
	}
}

func (h *Hub) register(conn *wsConn) *session.Session {
	s := h.reg.Register(conn)
	st := game.NewState(s.ID, h.rng)
	s.State = &st
	h.log.Info("player connected", zap.Int("playerId", s.ID))
	h.sendTo(s, NewWelcome(s.ID))
	return s
}

func (h *Hub) drop(s *session.Session) {
	if _, ok := h.reg.Get(s.ID); !ok {
		return // already dropped
	}
	h.svc.Disconnect(s)
	h.reg.Unregister(s.ID)
	_ = s.Conn.Close()
	h.log.Info("player disconnected", zap.Int("playerId", s.ID))
}

func (h *Hub) snapshot() Stats {
	rooms, byStatus := h.svc.RoomCounts()
	return Stats{
		Sessions:      h.reg.Len(),
		Rooms:         rooms,
		RoomsByStatus: byStatus,
	}
}

func (h *Hub) logHeartbeat() {
	st := h.snapshot()
	h.log.Info("heartbeat",
		zap.Int("sessions", st.Sessions),
		zap.Int("rooms", st.Rooms),
		zap.Any("roomsByStatus", st.RoomsByStatus),
		zap.Duration("uptime", time.Since(h.started).Round(time.Second)))
}

// Snapshot asks the loop for current counts. It answers from the same
// queue as everything else, so the numbers are never torn.
func (h *Hub) Snapshot(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case h.events <- event{kind: evSnapshot, stats: reply}:
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Heartbeat posts the periodic stats-log event; the cron scheduler calls
// it from its own goroutine.
func (h *Hub) Heartbeat() {
	h.events <- event{kind: evHeartbeat}
}

// Uptime since the hub was built.
func (h *Hub) Uptime() time.Duration {
	return time.Since(h.started)
}

// HandleWS upgrades the request and services the connection: the loop
// registers it, a pinger goroutine keeps it alive, and this goroutine
// reads frames until the peer goes away.
func (h *Hub) HandleWS(c *gin.Context) {
	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := &wsConn{Conn: raw, writeWait: h.cfg.WriteWait}

	reply := make(chan *session.Session, 1)
	h.events <- event{kind: evConnect, conn: conn, reply: reply}
	s := <-reply

	done := make(chan struct{})
	defer close(done)
	go h.ping(conn, done)

	h.readLoop(s, conn)
}

// readLoop turns frames into events. A malformed frame is logged and the
// connection kept; a read error ends the session.
func (h *Hub) readLoop(s *session.Session, conn *wsConn) {
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.events <- event{kind: evDisconnect, sess: s}
			return
		}
		msg, err := ParseInbound(data)
		if err != nil {
			h.log.Warn("protocol error", zap.Int("playerId", s.ID), zap.Error(err))
			continue
		}
		h.events <- event{kind: evMessage, sess: s, msg: msg}
	}
}

// ping sends keepalive probes. Control frames may be written
// concurrently with the loop's data frames.
func (h *Hub) ping(conn *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (h *Hub) sendTo(s *session.Session, v any) {
	if err := s.Send(v); err != nil {
		h.log.Warn("send failed", zap.Int("playerId", s.ID), zap.Error(err))
	}
}

package room

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"block-battle/internal/api/ws"
	"block-battle/internal/session"
)

var (
	// ErrRoomNotFound rejects a join against a code with no live room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomUnavailable rejects a join against a room that is full or
	// already past the waiting phase.
	ErrRoomUnavailable = errors.New("room is full or already started")
)

// errorMessage maps a join failure onto the wire text clients show.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Game not found"
	case errors.Is(err, ErrRoomUnavailable):
		return "Game is already full or has already started"
	}
	return "Unable to join game"
}

// Manager owns the room lifecycle: creation under a fresh code, pairing,
// cancellation, disconnect teardown, and the relays a playing room
// performs between its two boards. Every method runs on the hub's event
// loop, so nothing here locks.
type Manager struct {
	store Store
	reg   *session.Registry
	rng   *rand.Rand
	log   *zap.Logger
}

func NewManager(store Store, reg *session.Registry, rng *rand.Rand, log *zap.Logger) *Manager {
	return &Manager{store: store, reg: reg, rng: rng, log: log}
}

// Create opens a waiting room hosted by s and confirms it with a
// gameCreated frame. A session already in a room cannot open another.
func (m *Manager) Create(s *session.Session) {
	if code, ok := m.reg.RoomOf(s.ID); ok {
		m.log.Debug("create ignored, session already in a room",
			zap.Int("playerId", s.ID), zap.String("gameCode", code))
		return
	}
	r := &Room{
		ID:        uuid.NewString(),
		Code:      m.uniqueCode(),
		Host:      s,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
	}
	m.store.SaveRoom(r)
	m.reg.SetRoom(s.ID, r.Code)
	m.log.Info("room created",
		zap.String("gameCode", r.Code), zap.Int("playerId", s.ID))
	m.send(s, ws.NewGameCreated(r.Code, s.ID))
}

// Join attaches s as guest, flips the room to playing and pushes the
// initial state to both participants. Failures come back to s as an
// error frame; a session already in a room is ignored.
func (m *Manager) Join(s *session.Session, code string) {
	if _, ok := m.reg.RoomOf(s.ID); ok {
		m.log.Debug("join ignored, session already in a room", zap.Int("playerId", s.ID))
		return
	}
	r, err := m.joinable(code)
	if err != nil {
		m.log.Info("join rejected",
			zap.String("gameCode", code), zap.Int("playerId", s.ID), zap.Error(err))
		m.send(s, ws.NewError(errorMessage(err)))
		return
	}
	r.Guest = s
	r.Status = StatusPlaying
	m.store.SaveRoom(r)
	m.reg.SetRoom(s.ID, r.Code)
	m.log.Info("room joined",
		zap.String("gameCode", r.Code),
		zap.Int("playerId", s.ID),
		zap.Int("opponentId", r.Host.ID))

	m.send(s, ws.NewGameJoined(r.Code, s.ID, r.Host.ID))
	m.send(r.Host, ws.NewPlayerJoined(r.Code, s.ID))
	m.send(r.Host, ws.NewGameStateUpdate(*r.Host.State))
	m.send(s, ws.NewGameStateUpdate(*s.State))
}

func (m *Manager) joinable(code string) (*Room, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.Status != StatusWaiting || r.Guest != nil {
		return nil, ErrRoomUnavailable
	}
	return r, nil
}

// Cancel deletes a waiting room at its host's request. A guest cancel,
// or a cancel against a playing or ended room, is dropped.
func (m *Manager) Cancel(s *session.Session) {
	code, ok := m.reg.RoomOf(s.ID)
	if !ok {
		return
	}
	r, ok := m.store.GetRoom(code)
	if !ok {
		return
	}
	if !r.IsHost(s) || r.Status != StatusWaiting {
		m.log.Debug("cancel ignored",
			zap.String("gameCode", code),
			zap.Int("playerId", s.ID),
			zap.String("status", string(r.Status)))
		return
	}
	m.send(s, ws.NewGameCanceled(r.Code))
	m.removeRoom(r)
	m.log.Info("room canceled", zap.String("gameCode", code), zap.Int("playerId", s.ID))
}

// Disconnect tears the session's room down whatever its status and tells
// the surviving participant who left. The code is free for reuse
// immediately afterwards.
func (m *Manager) Disconnect(s *session.Session) {
	code, ok := m.reg.RoomOf(s.ID)
	if !ok {
		return
	}
	r, ok := m.store.GetRoom(code)
	if !ok {
		m.reg.ClearRoom(s.ID)
		return
	}
	if other := r.Opponent(s); other != nil {
		reason := "Guest left the game"
		if r.IsHost(s) {
			reason = "Host left the game"
		}
		m.send(other, ws.NewOpponentDisconnected(reason))
	}
	m.removeRoom(r)
	m.log.Info("room torn down on disconnect",
		zap.String("gameCode", code), zap.Int("playerId", s.ID))
}

func (m *Manager) removeRoom(r *Room) {
	if r.Host != nil {
		m.reg.ClearRoom(r.Host.ID)
	}
	if r.Guest != nil {
		m.reg.ClearRoom(r.Guest.ID)
	}
	m.store.DeleteRoom(r.Code)
}

// RelayState forwards the reduced view of s's board to their opponent.
// Only a playing room relays.
func (m *Manager) RelayState(s *session.Session) {
	_, opp := m.playingOpponent(s)
	if opp == nil {
		return
	}
	m.send(opp, ws.NewOpponentUpdate(*s.State))
}

// playingOpponent resolves s's room and opponent when the room is
// actively playing, nil otherwise.
func (m *Manager) playingOpponent(s *session.Session) (*Room, *session.Session) {
	code, ok := m.reg.RoomOf(s.ID)
	if !ok {
		return nil, nil
	}
	r, ok := m.store.GetRoom(code)
	if !ok || r.Status != StatusPlaying {
		return nil, nil
	}
	return r, r.Opponent(s)
}

// EndIfOver flips a playing room to ended once either participant has
// topped out. It runs after the triggering action's frames have gone
// out, so both players see the final board first.
func (m *Manager) EndIfOver(s *session.Session) {
	code, ok := m.reg.RoomOf(s.ID)
	if !ok {
		return
	}
	r, ok := m.store.GetRoom(code)
	if !ok || r.Status != StatusPlaying {
		return
	}
	hostOver := r.Host != nil && r.Host.State != nil && r.Host.State.GameOver
	guestOver := r.Guest != nil && r.Guest.State != nil && r.Guest.State.GameOver
	if hostOver || guestOver {
		r.Status = StatusEnded
		m.store.SaveRoom(r)
		m.log.Info("room ended", zap.String("gameCode", code))
	}
}

// RoomCounts reports the live total and the per-status split for the
// stats surface.
func (m *Manager) RoomCounts() (int, map[string]int) {
	byStatus := m.store.CountByStatus()
	out := make(map[string]int, len(byStatus))
	for status, n := range byStatus {
		out[string(status)] = n
	}
	return m.store.Len(), out
}

// send logs and swallows a failed push. The mutation that caused the
// frame is never rolled back; a dead peer surfaces through its read
// loop soon enough.
func (m *Manager) send(s *session.Session, v any) {
	if err := s.Send(v); err != nil {
		m.log.Warn("send failed", zap.Int("playerId", s.ID), zap.Error(err))
	}
}

// letters is the join-code alphabet with the visually confusable
// characters (0/O, 1/I) removed.
const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// uniqueCode draws 6-character codes until one is free among live rooms.
func (m *Manager) uniqueCode() string {
	for {
		b := make([]byte, 6)
		for i := range b {
			b[i] = letters[m.rng.Intn(len(letters))]
		}
		code := string(b)
		if _, ok := m.store.GetRoom(code); !ok {
			return code
		}
	}
}

package room

import (
	"time"

	"block-battle/internal/session"
)

// Status is the room lifecycle phase.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Room pairs two sessions under a shareable join code. ID is the
// internal identity; Code is what players type to each other.
type Room struct {
	ID        string
	Code      string
	Host      *session.Session
	Guest     *session.Session
	Status    Status
	CreatedAt time.Time
}

// Opponent returns the other participant, or nil when s plays alone or
// is not in the room at all.
func (r *Room) Opponent(s *session.Session) *session.Session {
	if r.Host != nil && r.Host.ID == s.ID {
		return r.Guest
	}
	if r.Guest != nil && r.Guest.ID == s.ID {
		return r.Host
	}
	return nil
}

// IsHost reports whether s created the room.
func (r *Room) IsHost(s *session.Session) bool {
	return r.Host != nil && r.Host.ID == s.ID
}

// Store is the room collection the manager runs against; implemented by
// the in-memory store.
type Store interface {
	GetRoom(code string) (*Room, bool)
	SaveRoom(r *Room)
	DeleteRoom(code string)
	Len() int
	CountByStatus() map[Status]int
}

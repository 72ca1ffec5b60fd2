package ws

import "block-battle/internal/session"

// RoomService is what the hub needs from the room layer. It is declared
// on the consumer side so the room package can depend on this package's
// wire types without a cycle.
type RoomService interface {
	Create(s *session.Session)
	Join(s *session.Session, code string)
	Cancel(s *session.Session)
	Disconnect(s *session.Session)
	RelayState(s *session.Session)
	PropagateGarbage(s *session.Session, linesCleared int)
	EndIfOver(s *session.Session)
	RoomCounts() (total int, byStatus map[string]int)
}

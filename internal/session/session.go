// Package session tracks connected players. Each session carries the
// integer identity handed out at connect time plus the transport handle
// and board state that player owns.
package session

import "block-battle/internal/game"

// Conn is the transport a session pushes frames through. The server
// wraps a websocket connection; tests substitute a recorder.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Session pairs a connection with the player state it owns. The ID is
// the identity used everywhere in the server; the network handle is
// just a field.
type Session struct {
	ID    int
	Conn  Conn
	State *game.State
}

// Send pushes one JSON frame to the player.
func (s *Session) Send(v any) error {
	return s.Conn.WriteJSON(v)
}

package ws

import (
	"go.uber.org/zap"

	"block-battle/internal/game"
	"block-battle/internal/session"
)

// dispatch routes one parsed message. Room verbs go straight to the room
// service; board verbs run the engine against the sender's own state.
func (h *Hub) dispatch(s *session.Session, msg Inbound) {
	switch msg.Type {
	case TypeCreateGame:
		h.svc.Create(s)
	case TypeJoinGame:
		h.svc.Join(s, msg.GameCode)
	case TypeCancelGame:
		h.svc.Cancel(s)
	case TypeMoveLeft, TypeMoveRight, TypeMoveDown, TypeRotate, TypeDropPiece, TypeLock, TypeRequestGameStart:
		h.play(s, msg.Type)
	}
}

// play handles the board verbs. Every accepted action pushes the full
// state back to the actor and relays the reduced view to a live
// opponent. Once a player has topped out their board is frozen; only
// the read-only state re-push still answers.
func (h *Hub) play(s *session.Session, typ string) {
	if typ == TypeRequestGameStart {
		h.sendTo(s, NewGameStateUpdate(*s.State))
		return
	}
	if s.State.GameOver {
		h.log.Debug("action ignored after top-out",
			zap.Int("playerId", s.ID), zap.String("type", typ))
		return
	}

	cleared := -1 // -1 means no lock happened on this action
	switch typ {
	case TypeMoveLeft:
		*s.State, _ = game.Move(*s.State, game.DirLeft)
	case TypeMoveRight:
		*s.State, _ = game.Move(*s.State, game.DirRight)
	case TypeMoveDown:
		next, moved := game.Move(*s.State, game.DirDown)
		if moved {
			*s.State = next
		} else {
			// the piece has landed; lock exactly once
			*s.State, cleared = game.Lock(*s.State, h.rng)
		}
	case TypeRotate:
		*s.State, _ = game.Rotate(*s.State)
	case TypeDropPiece:
		for {
			next, moved := game.Move(*s.State, game.DirDown)
			if !moved {
				break
			}
			*s.State = next
		}
		*s.State, cleared = game.Lock(*s.State, h.rng)
	case TypeLock:
		*s.State, cleared = game.Lock(*s.State, h.rng)
	}

	h.sendTo(s, NewGameStateUpdate(*s.State))
	h.svc.RelayState(s)
	if cleared > 1 {
		h.svc.PropagateGarbage(s, cleared)
	}
	if cleared >= 0 {
		h.svc.EndIfOver(s)
	}
}

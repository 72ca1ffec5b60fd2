package room

import (
	"go.uber.org/zap"

	"block-battle/internal/api/ws"
	"block-battle/internal/game"
	"block-battle/internal/session"
)

// PropagateGarbage converts a multi-line clear by s into garbage rows on
// the opponent's board: clearing n lines sends n-1 rows, so a single
// clear sends nothing. Only a playing room propagates. The opponent
// hears the addGarbage notice first, then sees their refreshed state.
func (m *Manager) PropagateGarbage(s *session.Session, linesCleared int) {
	if linesCleared <= 1 {
		return
	}
	r, opp := m.playingOpponent(s)
	if opp == nil {
		return
	}
	next, added := game.ApplyGarbage(*opp.State, linesCleared-1, m.rng)
	if added == 0 {
		return
	}
	*opp.State = next
	m.log.Info("garbage sent",
		zap.String("gameCode", r.Code),
		zap.Int("fromPlayer", s.ID),
		zap.Int("toPlayer", opp.ID),
		zap.Int("lines", added))
	m.send(opp, ws.NewAddGarbage(added, s.ID))
	m.send(opp, ws.NewGameStateUpdate(*opp.State))
}

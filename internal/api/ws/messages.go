package ws

import (
	"encoding/json"
	"fmt"

	"block-battle/internal/game"
)

// Inbound message types.
const (
	TypeCreateGame       = "createGame"
	TypeJoinGame         = "joinGame"
	TypeCancelGame       = "cancelGame"
	TypeMoveLeft         = "moveLeft"
	TypeMoveRight        = "moveRight"
	TypeMoveDown         = "moveDown"
	TypeRotate           = "rotate"
	TypeDropPiece        = "dropPiece"
	TypeLock             = "lock"
	TypeRequestGameStart = "requestGameStart"
)

// Outbound message types.
const (
	TypeWelcome              = "welcome"
	TypeGameCreated          = "gameCreated"
	TypeGameJoined           = "gameJoined"
	TypePlayerJoined         = "playerJoined"
	TypeGameCanceled         = "gameCanceled"
	TypeError                = "error"
	TypeOpponentDisconnected = "opponentDisconnected"
	TypeGameStateUpdate      = "gameStateUpdate"
	TypeOpponentUpdate       = "opponentUpdate"
	TypeAddGarbage           = "addGarbage"
)

var inboundTypes = map[string]bool{
	TypeCreateGame:       true,
	TypeJoinGame:         true,
	TypeCancelGame:       true,
	TypeMoveLeft:         true,
	TypeMoveRight:        true,
	TypeMoveDown:         true,
	TypeRotate:           true,
	TypeDropPiece:        true,
	TypeLock:             true,
	TypeRequestGameStart: true,
}

// Inbound is one client request, decoded and validated at the read
// boundary so the dispatcher can switch on Type without re-parsing.
type Inbound struct {
	Type     string `json:"type"`
	GameCode string `json:"gameCode,omitempty"`
}

// ParseInbound decodes one text frame. Malformed JSON and unknown types
// are protocol errors; the caller logs them and keeps the connection.
func ParseInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("malformed message: %w", err)
	}
	if !inboundTypes[in.Type] {
		return Inbound{}, fmt.Errorf("unknown message type %q", in.Type)
	}
	return in, nil
}

// Welcome greets a fresh connection with its player id.
type Welcome struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

func NewWelcome(id int) Welcome {
	return Welcome{Type: TypeWelcome, ID: id}
}

// GameCreated confirms a new room to its host.
type GameCreated struct {
	Type     string `json:"type"`
	GameCode string `json:"gameCode"`
	PlayerID int    `json:"playerId"`
	IsHost   bool   `json:"isHost"`
}

func NewGameCreated(code string, playerID int) GameCreated {
	return GameCreated{Type: TypeGameCreated, GameCode: code, PlayerID: playerID, IsHost: true}
}

// GameJoined confirms a successful join to the guest.
type GameJoined struct {
	Type       string `json:"type"`
	GameCode   string `json:"gameCode"`
	PlayerID   int    `json:"playerId"`
	OpponentID int    `json:"opponentId"`
	IsHost     bool   `json:"isHost"`
}

func NewGameJoined(code string, playerID, opponentID int) GameJoined {
	return GameJoined{Type: TypeGameJoined, GameCode: code, PlayerID: playerID, OpponentID: opponentID}
}

// PlayerJoined tells the host their opponent has arrived.
type PlayerJoined struct {
	Type       string `json:"type"`
	GameCode   string `json:"gameCode"`
	OpponentID int    `json:"opponentId"`
}

func NewPlayerJoined(code string, opponentID int) PlayerJoined {
	return PlayerJoined{Type: TypePlayerJoined, GameCode: code, OpponentID: opponentID}
}

// GameCanceled confirms a host's cancellation of a waiting room.
type GameCanceled struct {
	Type     string `json:"type"`
	GameCode string `json:"gameCode"`
}

func NewGameCanceled(code string) GameCanceled {
	return GameCanceled{Type: TypeGameCanceled, GameCode: code}
}

// ErrorMessage reports a rejected request back to its sender.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

// OpponentDisconnected tells the surviving player who left.
type OpponentDisconnected struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func NewOpponentDisconnected(reason string) OpponentDisconnected {
	return OpponentDisconnected{Type: TypeOpponentDisconnected, Reason: reason}
}

// GameStateUpdate pushes a player's own full state back to them.
type GameStateUpdate struct {
	Type  string     `json:"type"`
	State game.State `json:"state"`
}

func NewGameStateUpdate(state game.State) GameStateUpdate {
	return GameStateUpdate{Type: TypeGameStateUpdate, State: state}
}

// OpponentUpdate carries the reduced view of the other player's board:
// no active piece, no position, just what has landed and the tallies.
type OpponentUpdate struct {
	Type         string     `json:"type"`
	PlayerID     int        `json:"playerId"`
	Board        game.Board `json:"board"`
	Score        int        `json:"score"`
	LinesCleared int        `json:"linesCleared"`
	GameOver     bool       `json:"gameOver"`
}

func NewOpponentUpdate(state game.State) OpponentUpdate {
	return OpponentUpdate{
		Type:         TypeOpponentUpdate,
		PlayerID:     state.ID,
		Board:        state.Board,
		Score:        state.Score,
		LinesCleared: state.LinesCleared,
		GameOver:     state.GameOver,
	}
}

// AddGarbage announces penalty rows that were just stacked onto the
// recipient's board. Lines is the count actually inserted after the
// headroom cap.
type AddGarbage struct {
	Type       string `json:"type"`
	Lines      int    `json:"lines"`
	FromPlayer int    `json:"fromPlayer"`
}

func NewAddGarbage(lines, fromPlayer int) AddGarbage {
	return AddGarbage{Type: TypeAddGarbage, Lines: lines, FromPlayer: fromPlayer}
}

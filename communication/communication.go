package communication

import (
	"context"
	"fmt"

	"guardtowers/game"
)

// BufferSize is the largest reply the match server sends.
const BufferSize = 4096

// GetRequest asks the match server for the current state.
const GetRequest = "get"

// GameState is the match server's reply to every request.
type GameState struct {
	Board         string `json:"board"` // position text, side to move included
	Turn          string `json:"turn"`  // "r" or "b"
	BothConnected bool   `json:"bothConnected"`
	Time          int64  `json:"time"` // milliseconds left on the mover's clock
	End           bool   `json:"end"`
}

// IsTurn reports whether it is c's move.
func (s GameState) IsTurn(c game.Color) bool {
	return s.Turn == c.String()
}

// Communicator is the client side of a match server connection.
type Communicator interface {
	Player() game.Color
	GetGameState(ctx context.Context) (GameState, error)
	SendMove(ctx context.Context, move game.Move) (GameState, error)
	Close() error
}

// PlayerID is the byte the server sends on connect: '0' for red, '1' for
// blue.
func PlayerID(c game.Color) byte {
	if c == game.Blue {
		return '1'
	}
	return '0'
}

func ColorOfID(id byte) (game.Color, error) {
	switch id {
	case '0':
		return game.Red, nil
	case '1':
		return game.Blue, nil
	}
	return game.NoColor, fmt.Errorf("unknown player id %q", id)
}

package gamemaster

import (
	"errors"

	"guardtowers/game"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrIllegalMove = errors.New("illegal move")
)

// Ending says why a game stopped.
type Ending string

const (
	Running       Ending = ""
	GuardCaptured Ending = "guard captured"
	CastleReached Ending = "castle reached"
	NoMoves       Ending = "no legal moves"
	Repetition    Ending = "repetition"
	TurnLimit     Ending = "turn limit"
)

// Outcome is the result of a finished game. Winner is NoColor for a draw.
type Outcome struct {
	Winner game.Color
	Ending Ending
	Turns  int
}

func (o Outcome) IsDraw() bool {
	return o.Ending != Running && o.Winner == game.NoColor
}

// checkGameOver decides whether the game ends in the given state. seen
// counts how often each position occurred, the current one included.
func checkGameOver(gs *game.GameState, seen map[game.StateHash]int, turns, maxTurns, repetitions int) Outcome {
	outcome := Outcome{Turns: turns}

	if winner := gs.Winner(); winner != game.NoColor {
		outcome.Winner = winner
		if gs.Position.GuardOf(winner.Opponent()) == 0 {
			outcome.Ending = GuardCaptured
		} else {
			outcome.Ending = CastleReached
		}
		return outcome
	}
	// A side that cannot move concedes.
	if len(gs.LegalMoves()) == 0 {
		outcome.Winner = gs.Player().Opponent()
		outcome.Ending = NoMoves
		return outcome
	}
	if repetitions > 0 && seen[gs.Hash()] >= repetitions {
		outcome.Ending = Repetition
		return outcome
	}
	if maxTurns > 0 && turns >= maxTurns {
		outcome.Ending = TurnLimit
	}
	return outcome
}

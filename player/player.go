package player

import (
	"context"
	"fmt"
	"time"

	"guardtowers/communication"
	"guardtowers/game"
	"guardtowers/searcher"

	"github.com/rs/zerolog/log"
)

// Player plays one side of a networked game.
type Player struct {
	comm         communication.Communicator
	searcher     searcher.Searcher
	pollInterval time.Duration
	waitInterval time.Duration
}

// NewPlayer creates a player that polls every 100ms while the opponent
// thinks and every 200ms while waiting for the opponent to connect.
func NewPlayer(comm communication.Communicator, s searcher.Searcher) *Player {
	return &Player{
		comm:         comm,
		searcher:     s,
		pollInterval: 100 * time.Millisecond,
		waitInterval: 200 * time.Millisecond,
	}
}

// Play runs the turn loop until the server ends the game or the player has
// no legal move left. It returns the last state the server sent.
func (p *Player) Play(ctx context.Context) (communication.GameState, error) {
	me := p.comm.Player()

	state, err := p.comm.GetGameState(ctx)
	if err != nil {
		return state, err
	}
	for !state.BothConnected {
		if err := sleep(ctx, p.waitInterval); err != nil {
			return state, err
		}
		if state, err = p.comm.GetGameState(ctx); err != nil {
			return state, err
		}
	}
	log.Info().Msgf("both players connected, playing %s", me)

	for !state.End {
		if !state.IsTurn(me) {
			if err := sleep(ctx, p.pollInterval); err != nil {
				return state, err
			}
			if state, err = p.comm.GetGameState(ctx); err != nil {
				return state, err
			}
			continue
		}

		move, ok, err := p.TakeTurn(state.Board)
		if err != nil {
			return state, err
		}
		if !ok {
			log.Warn().Msg("no legal moves, conceding")
			return state, nil
		}
		if state, err = p.comm.SendMove(ctx, move); err != nil {
			return state, err
		}
	}

	log.Info().Msg("server reported the end of the game")
	return state, nil
}

// TakeTurn decides on a move for the position the server sent.
func (p *Player) TakeTurn(board string) (game.Move, bool, error) {
	pos, err := game.ParsePosition(board)
	if err != nil {
		return game.Move{}, false, fmt.Errorf("server sent %q: %w", board, err)
	}
	result, ok := p.searcher.Search(pos)
	if !ok {
		return game.Move{}, false, nil
	}

	log.Debug().Msgf("board:\n%s", pos.Diagram())
	log.Info().
		Str("move", result.Move.String()).
		Int("score", result.Score).
		Int("depth", result.Depth).
		Msg("playing")
	return result.Move, true, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

package gamemaster

import (
	"fmt"

	"guardtowers/game"
	"guardtowers/meta"

	"github.com/samber/lo"
)

// UpdateGetter returns the next played move and the state it produced.
// ok is false when no update is pending or the game is over and drained.
type UpdateGetter func() (move game.Move, state *game.GameState, ok bool)

// Engine is the referee: the only place where moves are validated.
type Engine interface {
	Init() (*game.GameState, UpdateGetter)
	Play(game.Move) error
	State() *game.GameState
	Outcome() Outcome
}

type Option func(e *localEngine)

// WithPosition starts the game from pos instead of the starting layout.
func WithPosition(pos game.Position) Option {
	return func(e *localEngine) {
		e.start = pos
	}
}

func WithGenerator(gen *game.Generator) Option {
	return func(e *localEngine) {
		if gen != nil {
			e.gen = gen
		}
	}
}

// WithMaxTurns ends the game as a draw after this many moves; 0 disables
// the limit.
func WithMaxTurns(turns int) Option {
	return func(e *localEngine) {
		if turns >= 0 {
			e.maxTurns = turns
		}
	}
}

// WithRepetitions ends the game as a draw once a position has occurred this
// many times; 0 disables the rule.
func WithRepetitions(n int) Option {
	return func(e *localEngine) {
		if n >= 0 {
			e.repetitions = n
		}
	}
}

type update struct {
	move  game.Move
	state *game.GameState
}

type localEngine struct {
	start       game.Position
	gen         *game.Generator
	maxTurns    int
	repetitions int

	state    *game.GameState
	seen     map[game.StateHash]int
	turns    int
	outcome  Outcome
	updateCh chan update
}

func NewLocalEngine(options ...Option) Engine {
	e := &localEngine{
		start:       game.NewPosition(),
		maxTurns:    meta.MAX_TURNS,
		repetitions: meta.REPETITIONS,
	}
	for _, option := range options {
		option(e)
	}
	if e.gen == nil {
		e.gen = game.NewGenerator()
	}
	return e
}

func (e *localEngine) Init() (*game.GameState, UpdateGetter) {
	e.state = game.NewGameState(e.start, e.gen)
	e.seen = map[game.StateHash]int{e.state.Hash(): 1}
	e.turns = 0
	// Room for every update a game can produce, so Play never blocks
	size := e.maxTurns + 1
	if e.maxTurns == 0 {
		size = 1024
	}
	e.updateCh = make(chan update, size)
	e.outcome = checkGameOver(e.state, e.seen, e.turns, e.maxTurns, e.repetitions)
	if e.outcome.Ending != Running {
		close(e.updateCh)
	}

	return e.state, func() (game.Move, *game.GameState, bool) {
		select {
		case u, ok := <-e.updateCh:
			if !ok { // Game over
				return game.Move{}, nil, false
			}
			return u.move, u.state, true
		default:
			return game.Move{}, nil, false
		}
	}
}

func (e *localEngine) Play(move game.Move) error {
	if e.state == nil {
		return fmt.Errorf("game has not been initialised")
	}
	if e.outcome.Ending != Running {
		return ErrGameOver
	}

	legalMoves := e.state.LegalMoves()
	if !lo.Contains(legalMoves, move) {
		return fmt.Errorf("%w: %s for %s in %s", ErrIllegalMove, move, e.state.Player(), e.state.Position)
	}

	e.state = e.state.Play(move).(*game.GameState)
	e.turns++
	e.seen[e.state.Hash()]++
	e.outcome = checkGameOver(e.state, e.seen, e.turns, e.maxTurns, e.repetitions)

	select {
	case e.updateCh <- update{move: move, state: e.state}:
	default:
		// Nobody reads updates; drop the oldest to make room
		<-e.updateCh
		e.updateCh <- update{move: move, state: e.state}
	}
	if e.outcome.Ending != Running {
		close(e.updateCh)
	}
	return nil
}

func (e *localEngine) State() *game.GameState {
	return e.state
}

func (e *localEngine) Outcome() Outcome {
	return e.outcome
}

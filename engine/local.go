package engine

import (
	"context"
	"fmt"
	"time"

	"guardtowers/agent"
	"guardtowers/experiments/metrics"
	"guardtowers/game"
	"guardtowers/gamemaster"

	"github.com/rs/zerolog/log"
)

// Local plays two agents against each other through a local referee.
type Local struct {
	referee gamemaster.Engine
	red     agent.Agent
	blue    agent.Agent
}

func LocalEngine(red, blue agent.Agent, options ...gamemaster.Option) *Local {
	if red == nil || blue == nil {
		panic("need two agents")
	}
	return &Local{
		referee: gamemaster.NewLocalEngine(options...),
		red:     red,
		blue:    blue,
	}
}

func (e *Local) agentFor(c game.Color) agent.Agent {
	if c == game.Red {
		return e.red
	}
	return e.blue
}

// Run executes the entire game loop until the referee declares an outcome.
func (e *Local) Run(ctx context.Context) (gamemaster.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	state, getUpdate := e.referee.Init()
	gameMetric := metrics.GameMetric{
		StartingPlayer: state.Player().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("player %s is starting", state.Player())

	for step := 1; e.referee.Outcome().Ending == gamemaster.Running; step++ {
		if err := ctx.Err(); err != nil {
			return e.referee.Outcome(), gameMetric, moveMetrics, err
		}

		player := state.Player()
		result, ok := e.agentFor(player).FindMove(state)
		if !ok {
			return e.referee.Outcome(), gameMetric, moveMetrics, fmt.Errorf("%s agent found no move in %s", player, state.Position)
		}
		if err := e.referee.Play(result.Move); err != nil {
			return e.referee.Outcome(), gameMetric, moveMetrics, fmt.Errorf("%s agent: %w", player, err)
		}

		move, next, ok := getUpdate()
		if !ok {
			// The update was dropped; fall back to the referee's state
			move, next = result.Move, e.referee.State()
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			Move:         move.String(),
			Score:        result.Score,
			SearchMetric: result.Metric,
		})
		log.Debug().
			Int("step", step).
			Str("player", player.String()).
			Str("move", move.String()).
			Int("score", result.Score).
			Msg("move played")

		state = next
	}

	outcome := e.referee.Outcome()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = outcome.Turns
	gameMetric.Winner = outcome.Winner.String()

	if outcome.IsDraw() {
		log.Info().Msgf("draw by %s after %d moves", outcome.Ending, outcome.Turns)
	} else {
		log.Info().Msgf("%s wins by %s after %d moves", outcome.Winner, outcome.Ending, outcome.Turns)
	}
	return outcome, gameMetric, moveMetrics, nil
}

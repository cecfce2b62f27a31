package engine

import (
	"context"
	"testing"

	"guardtowers/agent"
	"guardtowers/game"
	"guardtowers/gamemaster"
	"guardtowers/searcher"

	"github.com/stretchr/testify/require"
)

func TestLocalEngineRun(t *testing.T) {
	t.Run("search agent takes the guard", func(t *testing.T) {
		red := agent.NewSearchAgent(searcher.NewMinimax(searcher.WithDepth(2)))
		blue := agent.NewRandomAgent(3)
		eng := LocalEngine(red, blue, gamemaster.WithPosition(game.MustParsePosition("3RG3/7/7/7/7/3r13/3BG3 r")))

		outcome, gameMetric, moveMetrics, err := eng.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.Red, outcome.Winner)
		require.Equal(t, gamemaster.GuardCaptured, outcome.Ending)
		require.Equal(t, "r", gameMetric.Winner)
		require.Equal(t, 1, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 1)
		require.Equal(t, "D2-D1-1", moveMetrics[0].Move)
	})

	t.Run("random games always finish", func(t *testing.T) {
		for seed := uint64(1); seed <= 5; seed++ {
			eng := LocalEngine(agent.NewRandomAgent(seed), agent.NewRandomAgent(seed+100), gamemaster.WithMaxTurns(80))

			outcome, gameMetric, moveMetrics, err := eng.Run(context.Background())

			require.NoError(t, err)
			require.NotEqual(t, gamemaster.Running, outcome.Ending)
			require.LessOrEqual(t, outcome.Turns, 80)
			require.Len(t, moveMetrics, outcome.Turns)
			require.Equal(t, "r", gameMetric.StartingPlayer)
			for i, m := range moveMetrics {
				require.Equal(t, i+1, m.Step)
			}
		}
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		eng := LocalEngine(agent.NewRandomAgent(1), agent.NewRandomAgent(2))

		_, _, moveMetrics, err := eng.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, moveMetrics)
	})
}

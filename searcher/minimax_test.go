package searcher

import (
	"testing"
	"time"

	"guardtowers/experiments/metrics"
	"guardtowers/game"

	"github.com/stretchr/testify/require"
)

const midgame = "3RG3/7/7/7/4b11b1/4r4r11/3BG1b11 b"

func TestPruningKeepsScores(t *testing.T) {
	positions := []string{
		midgame,
		game.StartPosition,
		"3RG3/1r25/7/3r3b42/2b1BG3/4b12/7 r",
	}

	for _, text := range positions {
		for depth := 1; depth <= 3; depth++ {
			pos := game.MustParsePosition(text)

			plain := NewMinimax(WithDepth(depth), WithPruning(false), WithMoveOrdering(false))
			pruned := NewMinimax(WithDepth(depth), WithMoveOrdering(false))
			ordered := NewMinimax(WithDepth(depth))

			want, ok := plain.Search(pos)
			require.True(t, ok)
			got, ok := pruned.Search(pos)
			require.True(t, ok)
			sorted, ok := ordered.Search(pos)
			require.True(t, ok)

			require.Equal(t, want.Score, got.Score, "%s at depth %d", text, depth)
			require.Equal(t, want.Move, got.Move, "%s at depth %d", text, depth)
			require.Equal(t, want.Score, sorted.Score, "%s at depth %d with ordering", text, depth)
		}
	}
}

func TestPruningVisitsFewerNodes(t *testing.T) {
	pos := game.NewPosition()

	plain := NewMinimax(WithDepth(3), WithPruning(false), WithMetrics())
	pruned := NewMinimax(WithDepth(3), WithMetrics())

	want, _ := plain.Search(pos)
	got, _ := pruned.Search(pos)

	require.Zero(t, want.Metric.Cutoffs)
	require.Positive(t, got.Metric.Cutoffs)
	require.Less(t, got.Metric.Nodes, want.Metric.Nodes)
	require.Equal(t, 3, got.Metric.Depth)
	require.True(t, got.Metric.Pruning)
	require.False(t, want.Metric.Pruning)
}

func TestSearch(t *testing.T) {
	t.Run("red captures the guard", func(t *testing.T) {
		pos := game.MustParsePosition("3RG3/7/7/7/7/3r13/3BG3 r")

		for depth := 1; depth <= 3; depth++ {
			result, ok := NewMinimax(WithDepth(depth)).Search(pos)

			require.True(t, ok)
			require.Equal(t, "D2-D1-1", result.Move.String())
			require.Equal(t, 2, result.Score)
		}
	})

	t.Run("blue captures the guard", func(t *testing.T) {
		pos := game.MustParsePosition("3RG3/3b13/7/7/7/7/3BG3 b")

		result, ok := NewMinimax(WithDepth(3), WithEvaluationFn(game.EvaluateDecisive)).Search(pos)

		require.True(t, ok)
		require.Equal(t, "D6-D7-1", result.Move.String())
		require.Equal(t, -game.WinScore-2, result.Score)
	})

	t.Run("guard walks home", func(t *testing.T) {
		pos := game.MustParsePosition("7/3BG3/7/7/7/7/RG6 b")

		result, ok := NewMinimax(WithDepth(2), WithEvaluationFn(game.EvaluateDecisive)).Search(pos)

		require.True(t, ok)
		require.Equal(t, "D6-D7-1", result.Move.String())
		require.Equal(t, -game.WinScore, result.Score)
	})

	t.Run("no legal moves", func(t *testing.T) {
		pos := game.MustParsePosition("3RG3/7/7/7/7/7/7 b")

		_, ok := NewMinimax().Search(pos)

		require.False(t, ok)
	})

	t.Run("position is left untouched", func(t *testing.T) {
		pos := game.MustParsePosition(midgame)
		snapshot := pos

		_, _ = NewMinimax(WithDepth(3)).Search(pos)

		require.Equal(t, snapshot, pos)
	})

	t.Run("metrics are off by default", func(t *testing.T) {
		result, ok := NewMinimax(WithDepth(2)).Search(game.NewPosition())

		require.True(t, ok)
		require.Equal(t, metrics.SearchMetric{}, result.Metric)
		require.True(t, result.Complete)
		require.Equal(t, 2, result.Depth)
	})
}

func TestSearchWithDeadline(t *testing.T) {
	gen := game.NewGenerator()
	pos := game.NewPosition()
	budget := 100 * time.Millisecond

	start := time.Now()
	result, ok := NewMinimax(WithDuration(budget), WithGenerator(gen), WithMetrics()).Search(pos)
	elapsed := time.Since(start)

	require.True(t, ok)
	require.True(t, gen.IsLegal(pos, result.Move), "move %s", result.Move)
	require.GreaterOrEqual(t, result.Depth, 1)
	require.Equal(t, result.Depth, result.Metric.Depth)
	require.Less(t, elapsed, budget+2*time.Second)
}

func TestSearchDepthCapWithDeadline(t *testing.T) {
	result, ok := NewMinimax(WithDuration(time.Minute), WithDepth(2)).Search(game.NewPosition())

	require.True(t, ok)
	require.True(t, result.Complete)
	require.Equal(t, 2, result.Depth)
}

func TestRootReturnsBestSoFar(t *testing.T) {
	m := NewMinimax(WithDepth(3))
	pos := game.NewPosition()
	moves := m.gen.Generate(pos)

	s := &search{Minimax: m, deadline: time.Now().Add(-time.Second)}
	result := s.root(pos, moves, 3)

	require.Equal(t, moves[0], result.Move)
	require.False(t, result.Complete)
}

func TestPromote(t *testing.T) {
	a := game.Move{From: 1, To: 2, Height: 1}
	b := game.Move{From: 3, To: 4, Height: 1}
	c := game.Move{From: 5, To: 6, Height: 1}
	moves := []game.Move{a, b, c}

	promote(moves, c)
	require.Equal(t, []game.Move{c, a, b}, moves)

	promote(moves, game.Move{From: 9, To: 10, Height: 1})
	require.Equal(t, []game.Move{c, a, b}, moves)
}

func TestOrderMoves(t *testing.T) {
	pos := game.MustParsePosition("3RG3/7/7/7/1b21r2b22/7/3BG3 r")
	moves := game.NewGenerator().Generate(pos)

	orderMoves(pos, moves)

	require.Equal(t, "D3-D1-2", moves[0].String(), "guard capture first")
	require.Equal(t, "D3-B3-2", moves[1].String(), "then the taller capture")
	require.Zero(t, captureValue(pos, moves[len(moves)-1]))
}

package gamemaster

import (
	"errors"
	"testing"

	"guardtowers/game"

	"github.com/stretchr/testify/require"
)

func mustMove(t *testing.T, s string) game.Move {
	t.Helper()
	m, err := game.ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestLocalEngineInit(t *testing.T) {
	engine := NewLocalEngine()
	state, getUpdate := engine.Init()

	require.Equal(t, game.NewPosition(), state.Position)
	require.Equal(t, game.Red, state.Player())
	require.Equal(t, Running, engine.Outcome().Ending)

	_, updated, ok := getUpdate()
	require.False(t, ok, "no update before the first move")
	require.Nil(t, updated)
}

func TestLocalEnginePlay(t *testing.T) {
	t.Run("valid move is published", func(t *testing.T) {
		engine := NewLocalEngine()
		_, getUpdate := engine.Init()

		require.NoError(t, engine.Play(mustMove(t, "A7-A6-1")))

		move, state, ok := getUpdate()
		require.True(t, ok)
		require.Equal(t, "A7-A6-1", move.String())
		require.Equal(t, game.Blue, state.Player())
		require.Equal(t, state, engine.State())
	})

	t.Run("illegal move is rejected", func(t *testing.T) {
		engine := NewLocalEngine()
		state, getUpdate := engine.Init()

		for _, s := range []string{"A7-A5-2", "A1-A2-1", "C7-C6-1", "D7-D5-2"} {
			err := engine.Play(mustMove(t, s))

			require.True(t, errors.Is(err, ErrIllegalMove), "%s: %v", s, err)
		}
		require.Equal(t, state, engine.State(), "rejected moves leave the state alone")
		_, _, ok := getUpdate()
		require.False(t, ok)
	})

	t.Run("no moves after the game is over", func(t *testing.T) {
		engine := NewLocalEngine(WithPosition(game.MustParsePosition("3RG3/7/7/7/7/3r13/3BG3 r")))
		_, getUpdate := engine.Init()

		require.NoError(t, engine.Play(mustMove(t, "D2-D1-1")))
		outcome := engine.Outcome()
		require.Equal(t, game.Red, outcome.Winner)
		require.Equal(t, GuardCaptured, outcome.Ending)
		require.Equal(t, 1, outcome.Turns)

		err := engine.Play(mustMove(t, "D7-D6-1"))
		require.ErrorIs(t, err, ErrGameOver)

		_, _, ok := getUpdate()
		require.True(t, ok, "final update is still delivered")
		_, _, ok = getUpdate()
		require.False(t, ok, "channel is closed after the final update")
	})

	t.Run("play before init", func(t *testing.T) {
		require.Error(t, NewLocalEngine().Play(mustMove(t, "A7-A6-1")))
	})
}

func TestGameEndings(t *testing.T) {
	t.Run("guard reaches the castle", func(t *testing.T) {
		engine := NewLocalEngine(WithPosition(game.MustParsePosition("7/3BG3/7/7/7/7/RG6 b")))
		engine.Init()

		require.NoError(t, engine.Play(mustMove(t, "D6-D7-1")))

		require.Equal(t, Outcome{Winner: game.Blue, Ending: CastleReached, Turns: 1}, engine.Outcome())
	})

	t.Run("a side without moves concedes", func(t *testing.T) {
		engine := NewLocalEngine(WithPosition(game.MustParsePosition("RG6/7/7/7/6r2/5r2b1/4r2b1BG b")))
		engine.Init()

		require.Equal(t, Outcome{Winner: game.Red, Ending: NoMoves}, engine.Outcome())
		require.ErrorIs(t, engine.Play(mustMove(t, "G1-F1-1")), ErrGameOver)
	})

	t.Run("a missing guard is checked before mobility", func(t *testing.T) {
		engine := NewLocalEngine(WithPosition(game.MustParsePosition("3RG3/7/7/7/7/7/7 b")))
		engine.Init()

		outcome := engine.Outcome()

		require.Equal(t, game.Red, outcome.Winner)
		require.Equal(t, GuardCaptured, outcome.Ending)
	})

	t.Run("repetition is a draw", func(t *testing.T) {
		engine := NewLocalEngine(WithPosition(game.MustParsePosition("3RG3/7/7/7/7/7/3BG3 r")), WithRepetitions(3))
		engine.Init()

		shuffle := []string{"D7-C7-1", "D1-C1-1", "C7-D7-1", "C1-D1-1"}
		for i := 0; i < 2; i++ {
			for _, s := range shuffle {
				require.NoError(t, engine.Play(mustMove(t, s)))
			}
		}

		outcome := engine.Outcome()
		require.True(t, outcome.IsDraw())
		require.Equal(t, Repetition, outcome.Ending)
		require.Equal(t, 8, outcome.Turns)
	})

	t.Run("turn limit is a draw", func(t *testing.T) {
		engine := NewLocalEngine(WithMaxTurns(2), WithRepetitions(0))
		engine.Init()

		require.NoError(t, engine.Play(mustMove(t, "A7-A6-1")))
		require.Equal(t, Running, engine.Outcome().Ending)
		require.NoError(t, engine.Play(mustMove(t, "A1-A2-1")))

		require.Equal(t, Outcome{Ending: TurnLimit, Turns: 2}, engine.Outcome())
		require.ErrorIs(t, engine.Play(mustMove(t, "A6-A5-1")), ErrGameOver)
	})
}

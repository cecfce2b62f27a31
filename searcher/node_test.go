package searcher

import (
	"slices"
	"testing"

	"guardtowers/game"

	"github.com/stretchr/testify/require"
)

type mockState struct {
	player game.Color
	moves  []game.Move
	played []game.Move
	winner game.Color
}

func (m mockState) Player() game.Color {
	return m.player
}

func (m mockState) LegalMoves() []game.Move {
	return m.moves
}

func (m mockState) Play(move game.Move) game.State {
	return mockState{player: m.player.Opponent(), played: append(slices.Clone(m.played), move)}
}

func (m mockState) Hash() game.StateHash {
	return 0
}

func (m mockState) Winner() game.Color {
	return m.winner
}

func (m mockState) Score(game.Evaluate) int {
	return 0
}

var (
	moveA = game.Move{From: 48, To: 41, Height: 1}
	moveB = game.Move{From: 48, To: 47, Height: 1}
)

func TestNodeSelectOrExpand(t *testing.T) {
	t.Run("expanding the next unexplored move", func(t *testing.T) {
		state := mockState{player: game.Red, moves: []game.Move{moveA, moveB}}
		n := newNode(nil, state)

		child, childState, added := n.selectOrExpand(state)

		require.True(t, added, "Node should expand a new child")
		require.Same(t, n, child.parent)
		require.Equal(t, game.Red, child.mover, "Child rewards belong to the player who moved")
		require.Equal(t, Loss, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, child.visits)
		require.Equal(t, []game.Move{moveA}, childState.(mockState).played)
		require.Len(t, n.children, 1)
		require.Zero(t, n.visits, "Node stats should not change")
	})

	t.Run("selecting the child with the highest value once fully expanded", func(t *testing.T) {
		best := &node{mover: game.Red, rewards: 1, visits: 1}
		other := &node{mover: game.Red, rewards: 0, visits: 1}
		n := &node{
			mover:    game.Blue,
			moves:    []game.Move{moveA, moveB},
			children: []*node{other, best},
			visits:   2,
		}

		child, childState, added := n.selectOrExpand(mockState{player: game.Red})

		require.False(t, added)
		require.Same(t, best, child)
		require.Equal(t, 1+Loss, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, child.visits)
		require.Equal(t, []game.Move{moveB}, childState.(mockState).played)
	})

	t.Run("terminal node returns itself", func(t *testing.T) {
		n := &node{mover: game.Red}
		state := mockState{player: game.Blue, winner: game.Red}

		child, childState, added := n.selectOrExpand(state)

		require.False(t, added)
		require.Same(t, n, child)
		require.Equal(t, state, childState)
	})
}

func TestNodeBackup(t *testing.T) {
	root := &node{mover: game.Blue}
	child := &node{parent: root, mover: game.Red, rewards: Loss, visits: 1}

	next := child.backup(Win)

	require.Same(t, root, next)
	require.Equal(t, Win, child.rewards, "Virtual loss should be reversed")
	require.Equal(t, 1.0, child.visits)

	require.Nil(t, root.backup(Win))
	require.Equal(t, Loss, root.rewards, "A red win is a loss for blue")
	require.Equal(t, 1.0, root.visits)
}

func TestNodeMostVisited(t *testing.T) {
	leaf := &node{visits: 3}
	deep := &node{visits: 5, children: []*node{leaf}}
	n := &node{
		moves:    []game.Move{moveA, moveB},
		children: []*node{{visits: 2}, deep},
	}

	require.Equal(t, 1, n.mostVisited())
	require.Equal(t, -1, leaf.mostVisited())
	require.Equal(t, 2, n.principalDepth())
	require.Zero(t, (&node{}).mean())
}

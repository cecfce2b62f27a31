package searcher

import (
	"math"
	"sync"

	"guardtowers/game"
)

// node is a tree node for parallel MCTS with virtual loss. rewards are
// accumulated from the point of view of mover, the player whose move led to
// the node, so a parent always picks the child with the highest value.
type node struct {
	sync.Mutex
	parent   *node
	mover    game.Color
	moves    []game.Move
	children []*node
	rewards  float64
	visits   float64
}

func newNode(parent *node, state game.State) *node {
	moves := state.LegalMoves()
	return &node{
		parent:   parent,
		mover:    state.Player().Opponent(),
		moves:    moves,
		children: make([]*node, 0, len(moves)),
	}
}

// selectOrExpand descends one level from n. A terminal node returns itself.
// An unexplored move is expanded into a new child (added is true); otherwise
// the child with the highest UCT value is selected. The returned child
// carries a virtual loss until it is backed up.
func (n *node) selectOrExpand(state game.State) (child *node, childState game.State, added bool) {
	n.Lock()
	defer n.Unlock()

	if len(n.moves) == 0 { // Terminal node
		return n, state, false
	}

	if len(n.children) < len(n.moves) { // Expandable node
		childState = state.Play(n.moves[len(n.children)])
		child = newNode(n, childState)
		child.applyLoss()
		n.children = append(n.children, child)
		return child, childState, true
	}

	// Fully expanded node
	i := n.pickChild()
	child = n.children[i]
	child.applyLoss()
	return child, state.Play(n.moves[i]), false
}

func (n *node) pickChild() int {
	// Children visits include pending virtual losses, so the total is never
	// zero even while the first backups are still in flight.
	var total float64
	for _, child := range n.children {
		total += child.visitCount()
	}
	policy := newUCT(CSquared, total)

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		if score := child.score(policy); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (n *node) applyLoss() {
	n.Lock()
	defer n.Unlock()

	n.rewards += Loss
	n.visits++
}

func (n *node) score(policy *uct) float64 {
	n.Lock()
	defer n.Unlock()

	return policy.evaluate(n.rewards, n.visits)
}

// backup records value, a reward from red's point of view, and returns the
// parent to continue with.
func (n *node) backup(value float64) *node {
	n.Lock()
	defer n.Unlock()

	if n.parent != nil { // Non-root node
		n.rewards -= Loss
		n.visits--
	}

	if n.mover == game.Blue {
		value = -value
	}
	n.rewards += value
	n.visits++

	return n.parent
}

func (n *node) visitCount() float64 {
	n.Lock()
	defer n.Unlock()

	return n.visits
}

func (n *node) mean() float64 {
	n.Lock()
	defer n.Unlock()

	if n.visits == 0 {
		return 0
	}
	return n.rewards / n.visits
}

// mostVisited returns the index of the child with the most visits, the
// first one on ties, or -1 for a node without children.
func (n *node) mostVisited() int {
	n.Lock()
	defer n.Unlock()

	best := -1
	maxVisits := -1.0
	for i, child := range n.children {
		if v := child.visitCount(); v > maxVisits {
			maxVisits = v
			best = i
		}
	}
	return best
}

// principalDepth is the length of the most visited line below n.
func (n *node) principalDepth() int {
	depth := 0
	for cur := n; ; depth++ {
		i := cur.mostVisited()
		if i < 0 {
			return depth
		}
		cur.Lock()
		next := cur.children[i]
		cur.Unlock()
		cur = next
	}
}

package agent

import (
	"guardtowers/game"
	"guardtowers/searcher"
)

type Agent interface {
	// FindMove returns the chosen move with its score and search metrics (if
	// collected). ok is false when the side to move has no legal move.
	FindMove(state *game.GameState) (result searcher.Result, ok bool)
}

type searchAgent struct {
	searcher searcher.Searcher
}

// NewSearchAgent returns an agent that plays the searcher's best move.
func NewSearchAgent(s searcher.Searcher) Agent {
	return searchAgent{searcher: s}
}

func (a searchAgent) FindMove(state *game.GameState) (searcher.Result, bool) {
	return a.searcher.Search(state.Position)
}

package searcher

// Search parameters

const Infinity = 1 << 30

// DefaultDepth is used when neither a depth nor a duration is given.
const DefaultDepth = 4

// MaxDepth caps iterative deepening under a time budget.
const MaxDepth = 32

// MaxCutoff bounds MCTS rollouts; the evaluation function scores a rollout
// that has not ended by then.
const MaxCutoff = 50

// DefaultEpisodes is used when neither episodes nor a duration is given.
const DefaultEpisodes = 1000

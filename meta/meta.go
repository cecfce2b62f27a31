// meta/meta.go
package meta

import "time"

// SEARCH_DEPTH is the fixed depth used when no time budget is given.
const SEARCH_DEPTH = 4

// MAX_SEARCH_DEPTH caps iterative deepening.
const MAX_SEARCH_DEPTH = 32

// MOVE_DURATION is the default thinking time per move for networked play.
const MOVE_DURATION = 2 * time.Second

// MAX_TURNS ends a self-play game as a draw.
const MAX_TURNS = 300

// REPETITIONS of the same position that end a game as a draw.
const REPETITIONS = 3

// SERVER_ADDR is the default match server.
const SERVER_ADDR = "localhost:8000"

// AGENT_PORT is the default port of the agent HTTP server.
const AGENT_PORT = "8080"

// GO_ROUTINES is the default parallelism of experiments and tree search.
const GO_ROUTINES = 4

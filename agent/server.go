package agent

import (
	"encoding/json"
	"net/http"

	"guardtowers/game"
	"guardtowers/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// FindMoveRequest is the body of POST /findmove.
type FindMoveRequest struct {
	Board string `json:"board"`
}

type FindMoveResponse struct {
	Move  string `json:"move"`
	Score int    `json:"score"`
	Depth int    `json:"depth"`
}

// NewServer returns the agent HTTP handler. Every request gets its own
// searcher built from options; the move generator is shared.
func NewServer(options ...searcher.Option) http.Handler {
	gen := game.NewGenerator()
	options = append(options[:len(options):len(options)], searcher.WithGenerator(gen))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Post("/findmove", func(w http.ResponseWriter, r *http.Request) {
		var payload FindMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		pos, err := game.ParsePosition(payload.Board)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		result, ok := searcher.NewMinimax(options...).Search(pos)
		if !ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "no legal moves"})
			return
		}
		log.Info().
			Str("request", middleware.GetReqID(r.Context())).
			Str("board", payload.Board).
			Str("move", result.Move.String()).
			Int("score", result.Score).
			Msg("found move")

		writeJSON(w, http.StatusOK, FindMoveResponse{
			Move:  result.Move.String(),
			Score: result.Score,
			Depth: result.Depth,
		})
	})

	return r
}

// StartAgentServer serves the agent on the given port until it fails.
func StartAgentServer(port string, options ...searcher.Option) error {
	log.Info().Msgf("starting agent server on :%s", port)
	return http.ListenAndServe(":"+port, NewServer(options...))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"guardtowers/agent"
	"guardtowers/game"
	"guardtowers/searcher"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

var errNoMove = errors.New("agent has no legal move")

// remoteAgent asks an agent HTTP server for its moves.
type remoteAgent struct {
	url      string
	client   *http.Client
	attempts uint
}

// NewRemoteAgent returns an agent backed by the agent server at url.
func NewRemoteAgent(url string, timeout time.Duration) agent.Agent {
	return &remoteAgent{
		url:      strings.TrimSuffix(url, "/"),
		client:   &http.Client{Timeout: timeout},
		attempts: 3,
	}
}

func (a *remoteAgent) FindMove(state *game.GameState) (searcher.Result, bool) {
	var reply agent.FindMoveResponse
	err := retry.Do(
		func() error {
			var err error
			reply, err = a.requestMove(state.Position)
			return err
		},
		retry.Attempts(a.attempts),
		retry.LastErrorOnly(true),
		retry.Delay(50*time.Millisecond),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Warn().Err(err).Uint("n", n).Str("url", a.url).Msg("agent request failed, trying again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		if !errors.Is(err, errNoMove) {
			log.Error().Err(err).Str("url", a.url).Msg("no move from remote agent")
		}
		return searcher.Result{}, false
	}

	move, err := game.ParseMove(reply.Move)
	if err != nil {
		log.Error().Err(err).Str("url", a.url).Msg("remote agent sent a bad move")
		return searcher.Result{}, false
	}
	return searcher.Result{Move: move, Score: reply.Score, Depth: reply.Depth}, true
}

// requestMove posts the board to /findmove.
func (a *remoteAgent) requestMove(pos game.Position) (agent.FindMoveResponse, error) {
	var reply agent.FindMoveResponse

	body, err := json.Marshal(agent.FindMoveRequest{Board: pos.String()})
	if err != nil {
		return reply, retry.Unrecoverable(err)
	}
	resp, err := a.client.Post(a.url+"/findmove", "application/json", bytes.NewReader(body))
	if err != nil {
		return reply, fmt.Errorf("posting to agent: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return reply, retry.Unrecoverable(errNoMove)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		out, _ := io.ReadAll(resp.Body)
		return reply, retry.Unrecoverable(fmt.Errorf("agent returned status %d: %s", resp.StatusCode, out))
	case resp.StatusCode != http.StatusOK:
		out, _ := io.ReadAll(resp.Body)
		return reply, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, out)
	}

	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return reply, fmt.Errorf("decoding agent reply: %w", err)
	}
	return reply, nil
}

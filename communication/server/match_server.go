package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"guardtowers/communication"
	"guardtowers/game"
	"guardtowers/gamemaster"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MatchServer hosts one game between two TCP clients. Requests are JSON
// strings ("get" or a move) and every request is answered with the
// current communication.GameState.
type MatchServer struct {
	referee gamemaster.Engine

	mu        sync.Mutex
	state     *game.GameState
	conns     []net.Conn
	clocks    map[game.Color]time.Duration
	turnStart time.Time
}

// NewMatchServer gives each side clock of thinking time. The clocks are
// reported to the clients but not enforced.
func NewMatchServer(clock time.Duration, options ...gamemaster.Option) *MatchServer {
	return &MatchServer{
		referee: gamemaster.NewLocalEngine(options...),
		clocks:  map[game.Color]time.Duration{game.Red: clock, game.Blue: clock},
	}
}

// Serve accepts red and then blue on l and referees their game. It returns
// once both clients have disconnected or ctx is cancelled, and closes l.
func (s *MatchServer) Serve(ctx context.Context, l net.Listener) error {
	s.state, _ = s.referee.Init()

	g, ctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(ctx, func() {
		l.Close()
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, conn := range s.conns {
			conn.Close()
		}
	})
	defer stop()

	for _, color := range []game.Color{game.Red, game.Blue} {
		color := color
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("accepting %s: %w", color, err)
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		if len(s.conns) == 2 {
			s.turnStart = time.Now()
		}
		s.mu.Unlock()
		log.Info().Msgf("%s connected from %s", color, conn.RemoteAddr())

		g.Go(func() error {
			defer conn.Close()
			return s.handle(ctx, conn, color)
		})
	}
	return g.Wait()
}

func (s *MatchServer) Outcome() gamemaster.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.referee.Outcome()
}

func (s *MatchServer) handle(ctx context.Context, conn net.Conn, color game.Color) error {
	if _, err := conn.Write([]byte{communication.PlayerID(color)}); err != nil {
		return fmt.Errorf("sending player id to %s: %w", color, err)
	}

	// Requests carry no delimiter, so one read is one request. Clients wait
	// for the reply before they send again.
	buf := make([]byte, communication.BufferSize)
	encoder := json.NewEncoder(conn)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				log.Info().Msgf("%s disconnected", color)
				return nil
			}
			return fmt.Errorf("reading from %s: %w", color, err)
		}
		var request string
		if err := json.Unmarshal(buf[:n], &request); err != nil {
			log.Warn().Err(err).Str("player", color.String()).Msgf("unreadable request %q", buf[:n])
			request = communication.GetRequest
		}
		if err := encoder.Encode(s.handleRequest(color, request)); err != nil {
			return fmt.Errorf("replying to %s: %w", color, err)
		}
	}
}

func (s *MatchServer) handleRequest(color game.Color, request string) communication.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if request != communication.GetRequest {
		if err := s.play(color, request); err != nil {
			log.Warn().Err(err).Str("player", color.String()).Msg("move rejected")
		}
	}
	return s.snapshot()
}

func (s *MatchServer) play(color game.Color, request string) error {
	if len(s.conns) < 2 {
		return fmt.Errorf("waiting for the opponent")
	}
	if s.state.Player() != color {
		return fmt.Errorf("not %s's turn", color)
	}
	move, err := game.ParseMove(request)
	if err != nil {
		return err
	}
	if err := s.referee.Play(move); err != nil {
		return err
	}

	now := time.Now()
	s.clocks[color] -= now.Sub(s.turnStart)
	s.turnStart = now
	s.state = s.referee.State()
	log.Debug().Str("player", color.String()).Str("move", move.String()).Msg("move played")
	return nil
}

func (s *MatchServer) snapshot() communication.GameState {
	both := len(s.conns) == 2
	mover := s.state.Player()
	left := s.clocks[mover]
	if both {
		left -= time.Since(s.turnStart)
	}
	return communication.GameState{
		Board:         s.state.Position.String(),
		Turn:          mover.String(),
		BothConnected: both,
		Time:          left.Milliseconds(),
		End:           s.referee.Outcome().Ending != gamemaster.Running,
	}
}

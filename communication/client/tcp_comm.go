package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"guardtowers/communication"
	"guardtowers/game"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

type ClientCommunicator struct {
	conn    net.Conn
	reader  *bufio.Reader
	decoder *json.Decoder
	player  game.Color
	timeout time.Duration
	mu      sync.Mutex
}

type Option func(*dialConfig)

type dialConfig struct {
	attempts uint
	delay    time.Duration
	timeout  time.Duration
}

// WithAttempts sets how often dialing is tried before giving up.
func WithAttempts(n uint) Option {
	return func(c *dialConfig) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *dialConfig) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithTimeout bounds each round trip that has no context deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *dialConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Dial connects to the match server and reads the player id it assigns.
func Dial(ctx context.Context, addr string, options ...Option) (*ClientCommunicator, error) {
	cfg := dialConfig{attempts: 5, delay: 200 * time.Millisecond, timeout: 30 * time.Second}
	for _, option := range options {
		option(&cfg)
	}

	var conn net.Conn
	err := retry.Do(
		func() error {
			var d net.Dialer
			c, err := d.DialContext(ctx, "tcp", addr)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(cfg.attempts),
		retry.Delay(cfg.delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Warn().Err(err).Uint("n", n).Str("addr", addr).Msg("match server not reachable, trying again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	c := &ClientCommunicator{
		conn:    conn,
		reader:  bufio.NewReaderSize(conn, communication.BufferSize),
		timeout: cfg.timeout,
	}
	c.setDeadline(ctx)
	id, err := c.reader.ReadByte()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading player id: %w", err)
	}
	c.player, err = communication.ColorOfID(id)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.decoder = json.NewDecoder(c.reader)

	log.Info().Msgf("connected to %s as %s", addr, c.player)
	return c, nil
}

func (c *ClientCommunicator) Player() game.Color {
	return c.player
}

func (c *ClientCommunicator) GetGameState(ctx context.Context) (communication.GameState, error) {
	return c.roundTrip(ctx, communication.GetRequest)
}

func (c *ClientCommunicator) SendMove(ctx context.Context, move game.Move) (communication.GameState, error) {
	return c.roundTrip(ctx, move.String())
}

func (c *ClientCommunicator) Close() error {
	return c.conn.Close()
}

// roundTrip sends one JSON string and reads the server's JSON reply.
func (c *ClientCommunicator) roundTrip(ctx context.Context, value string) (communication.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var state communication.GameState
	if err := ctx.Err(); err != nil {
		return state, err
	}
	c.setDeadline(ctx)

	payload, err := json.Marshal(value)
	if err != nil {
		return state, err
	}
	if _, err := c.conn.Write(payload); err != nil {
		return state, fmt.Errorf("sending %s: %w", payload, err)
	}
	if err := c.decoder.Decode(&state); err != nil {
		return state, fmt.Errorf("reading reply to %s: %w", payload, err)
	}
	return state, nil
}

func (c *ClientCommunicator) setDeadline(ctx context.Context) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	c.conn.SetDeadline(deadline)
}

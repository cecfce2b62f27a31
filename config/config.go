package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"guardtowers/experiments/metrics"
	"guardtowers/meta"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"
)

// EnvPrefix prefixes the environment variable of every flag, e.g.
// GUARDTOWERS_DEPTH for -depth.
const EnvPrefix = "GUARDTOWERS"

type Config struct {
	Debug bool

	ServerAddr string
	AgentPort  string

	Agent     string
	Depth     int
	Duration  time.Duration
	Episodes  int
	NoPruning bool
	Evaluate  string

	MaxTurns       int
	Experiment     string
	ExperimentFile string
	OutputDir      string

	// Args holds the arguments left after the flags.
	Args []string
}

// Load reads flags from args, falling back to the environment. Variables
// from envFiles that exist are added to the environment first; variables
// already set win.
func (c *Config) Load(args []string, envFiles ...string) error {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}

	flags := flag.NewFlagSetWithEnvPrefix("guardtowers", EnvPrefix, flag.ContinueOnError)
	flags.BoolVar(&c.Debug, "debug", false, "debug logging")
	flags.StringVar(&c.ServerAddr, "server-addr", meta.SERVER_ADDR, "address of the match server")
	flags.StringVar(&c.AgentPort, "agent-port", meta.AGENT_PORT, "port of the agent HTTP server")
	flags.StringVar(&c.Agent, "agent", "search", "searcher: search (alpha-beta) or mcts")
	flags.IntVar(&c.Depth, "depth", 0, "search depth; the deepening cap when a duration is set, the rollout cutoff for mcts")
	flags.DurationVar(&c.Duration, "duration", 0, "thinking time per move; 0 searches to a fixed depth")
	flags.IntVar(&c.Episodes, "episodes", 0, "mcts simulations per move; overrides -duration")
	flags.BoolVar(&c.NoPruning, "no-pruning", false, "plain minimax without alpha-beta cutoffs")
	flags.StringVar(&c.Evaluate, "evaluate", "material", "evaluation function: material or decisive")
	flags.IntVar(&c.MaxTurns, "max-turns", meta.MAX_TURNS, "moves before a self-play game is drawn")
	flags.StringVar(&c.Experiment, "experiment", "pruning", "built-in experiment: pruning, depth, evaluation, mcts or throughput")
	flags.StringVar(&c.ExperimentFile, "experiment-file", "", "YAML experiment; overrides -experiment")
	flags.StringVar(&c.OutputDir, "output-dir", "experiments/results", "directory for experiment records")
	if err := flags.Parse(args); err != nil {
		return err
	}

	c.Args = flags.Args()

	if c.Depth < 0 || c.Duration < 0 || c.Episodes < 0 || c.MaxTurns < 0 {
		return fmt.Errorf("depth, duration, episodes and max-turns must not be negative")
	}
	if c.Agent != "search" && c.Agent != "mcts" {
		return fmt.Errorf("unknown agent %q", c.Agent)
	}
	return nil
}

// Load returns a Config read from args and a .env file in the working
// directory, if there is one.
func Load(args []string) (*Config, error) {
	c := &Config{}
	if err := c.Load(args, ".env"); err != nil {
		return nil, err
	}
	return c, nil
}

// AgentConfig is the search agent the flags describe.
func (c *Config) AgentConfig() metrics.AgentConfig {
	return metrics.AgentConfig{
		Kind:      c.Agent,
		Depth:     c.Depth,
		Duration:  c.Duration,
		Episodes:  c.Episodes,
		NoPruning: c.NoPruning,
		Evaluate:  c.Evaluate,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guardtowers/agent"
	"guardtowers/communication/client"
	"guardtowers/communication/server"
	"guardtowers/config"
	"guardtowers/engine"
	"guardtowers/experiments"
	"guardtowers/experiments/metrics"
	"guardtowers/game"
	"guardtowers/gamemaster"
	"guardtowers/meta"
	"guardtowers/player"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: guardtowers <command> [flags]

commands:
  play        connect to the match server and play one game
  match       host a match server for two players
  serve       run the agent HTTP server
  selfplay    play one game between two local agents
  bestmove    print the best move for a position: bestmove [flags] "<board>"
  experiment  run a self-play experiment and write CSV records
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load(os.Args[2:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, cfg); err != nil {
		log.Error().Err(err).Str("command", command).Msg("failed")
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func run(ctx context.Context, command string, cfg *config.Config) error {
	switch command {
	case "play":
		return play(ctx, cfg)
	case "match":
		return hostMatch(ctx, cfg)
	case "serve":
		options, err := experiments.SearchOptions(timedConfig(cfg))
		if err != nil {
			return err
		}
		return agent.StartAgentServer(cfg.AgentPort, options...)
	case "selfplay":
		return selfPlay(ctx, cfg)
	case "bestmove":
		return bestMove(cfg)
	case "experiment":
		return experiment(ctx, cfg)
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}

// timedConfig is the agent the flags describe, thinking for MOVE_DURATION
// when no limit was given.
func timedConfig(cfg *config.Config) metrics.AgentConfig {
	agentConfig := cfg.AgentConfig()
	if agentConfig.Depth == 0 && agentConfig.Duration == 0 && agentConfig.Episodes == 0 {
		agentConfig.Duration = meta.MOVE_DURATION
	}
	return agentConfig
}

func play(ctx context.Context, cfg *config.Config) error {
	s, err := experiments.NewSearcher(timedConfig(cfg), game.NewGenerator(), 0)
	if err != nil {
		return err
	}
	comm, err := client.Dial(ctx, cfg.ServerAddr)
	if err != nil {
		return err
	}
	defer comm.Close()

	state, err := player.NewPlayer(comm, s).Play(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("board", state.Board).Msg("game finished")
	return nil
}

func hostMatch(ctx context.Context, cfg *config.Config) error {
	l, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.ServerAddr, err)
	}
	log.Info().Msgf("match server listening on %s", l.Addr())

	srv := server.NewMatchServer(5*time.Minute, gamemaster.WithMaxTurns(cfg.MaxTurns))
	if err := srv.Serve(ctx, l); err != nil {
		return err
	}
	outcome := srv.Outcome()
	log.Info().Str("winner", outcome.Winner.String()).Str("ending", string(outcome.Ending)).Int("turns", outcome.Turns).Msg("match over")
	return nil
}

func selfPlay(ctx context.Context, cfg *config.Config) error {
	gen := game.NewGenerator()
	agentConfig := cfg.AgentConfig()
	red, err := experiments.CreateAgent(agentConfig, gen, 0)
	if err != nil {
		return err
	}
	blue, err := experiments.CreateAgent(agentConfig, gen, 1)
	if err != nil {
		return err
	}

	e := engine.LocalEngine(red, blue, gamemaster.WithGenerator(gen), gamemaster.WithMaxTurns(cfg.MaxTurns))
	outcome, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("winner: %s (%s) after %d moves in %s\n", outcome.Winner, outcome.Ending, gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}

func bestMove(cfg *config.Config) error {
	if len(cfg.Args) != 1 {
		return errors.New(`bestmove takes one quoted board, e.g. "3RG3/7/7/7/7/7/3BG3 r"`)
	}
	pos, err := game.ParsePosition(cfg.Args[0])
	if err != nil {
		return err
	}

	s, err := experiments.NewSearcher(cfg.AgentConfig(), game.NewGenerator(), 0)
	if err != nil {
		return err
	}
	result, ok := s.Search(pos)
	if !ok {
		return errors.New("no legal moves")
	}
	fmt.Print(pos.Diagram())
	fmt.Printf("%s score=%d depth=%d nodes=%d\n", result.Move, result.Score, result.Depth, result.Metric.Nodes)
	return nil
}

func experiment(ctx context.Context, cfg *config.Config) error {
	if cfg.ExperimentFile == "" && cfg.Experiment == "throughput" {
		writer, err := metrics.NewWriter(cfg.OutputDir, "throughput")
		if err != nil {
			return err
		}
		configs := []metrics.AgentConfig{
			{ID: 1, Depth: 3},
			{ID: 2, Depth: 3, NoPruning: true},
			{ID: 3, Depth: 4},
		}
		_, err = experiments.RunThroughputExperiment(configs, writer)
		return err
	}

	var exp experiments.Experiment
	var err error
	if cfg.ExperimentFile != "" {
		exp, err = experiments.LoadExperiment(cfg.ExperimentFile)
	} else {
		exp, err = experiments.Builtin(cfg.Experiment)
	}
	if err != nil {
		return err
	}
	if exp.MaxTurns == 0 {
		exp.MaxTurns = cfg.MaxTurns
	}

	dir, err := experiments.RunAndWrite(ctx, exp, cfg.OutputDir)
	if err != nil {
		return err
	}
	log.Info().Msgf("records written to %s", dir)
	return nil
}

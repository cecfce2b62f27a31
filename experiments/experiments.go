package experiments

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"guardtowers/agent"
	"guardtowers/engine"
	"guardtowers/experiments/metrics"
	"guardtowers/game"
	"guardtowers/gamemaster"
	"guardtowers/meta"
	"guardtowers/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	NumGames   = 10 // Per match up
	TimeBudget = 50 * time.Millisecond
)

// Experiment is a set of agents and the match ups between them. A match up
// names two agent IDs; the agents swap colours every game.
type Experiment struct {
	Name        string                `yaml:"name"`
	Games       int                   `yaml:"games"`
	Concurrency int                   `yaml:"concurrency"`
	MaxTurns    int                   `yaml:"max_turns"`
	Agents      []metrics.AgentConfig `yaml:"agents"`
	MatchUps    [][2]int              `yaml:"matchups"`
}

// LoadExperiment reads an experiment from a YAML file.
func LoadExperiment(path string) (Experiment, error) {
	var exp Experiment
	data, err := os.ReadFile(path)
	if err != nil {
		return exp, fmt.Errorf("reading experiment: %w", err)
	}
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return exp, fmt.Errorf("parsing experiment %s: %w", path, err)
	}
	return exp, exp.validate()
}

func (e *Experiment) validate() error {
	if e.Name == "" {
		return fmt.Errorf("experiment has no name")
	}
	if e.Games <= 0 {
		e.Games = NumGames
	}
	if e.Concurrency <= 0 {
		e.Concurrency = meta.GO_ROUTINES
	}
	if e.MaxTurns <= 0 {
		e.MaxTurns = meta.MAX_TURNS
	}
	ids := map[int]bool{}
	for _, config := range e.Agents {
		if ids[config.ID] {
			return fmt.Errorf("agent id %d is used twice", config.ID)
		}
		ids[config.ID] = true
	}
	for _, matchup := range e.MatchUps {
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("match up refers to unknown agent %d", id)
			}
		}
	}
	return nil
}

// PruningExperiment measures what alpha-beta pruning buys at a fixed depth.
func PruningExperiment() Experiment {
	return Experiment{
		Name:  "pruning",
		Games: NumGames,
		Agents: []metrics.AgentConfig{
			{ID: 1, Depth: 3},
			{ID: 2, Depth: 3, NoPruning: true},
		},
		MatchUps: [][2]int{{1, 2}},
	}
}

// DepthExperiment pairs deeper searches against a depth-2 baseline.
func DepthExperiment() Experiment {
	return Experiment{
		Name:  "depth",
		Games: NumGames,
		Agents: []metrics.AgentConfig{
			{ID: 0, Depth: 2},
			{ID: 1, Depth: 3},
			{ID: 2, Depth: 4},
			{ID: 3, Duration: TimeBudget},
		},
		MatchUps: [][2]int{{0, 1}, {0, 2}, {0, 3}},
	}
}

// EvaluationExperiment compares the two evaluation functions, and both
// against a random baseline.
func EvaluationExperiment() Experiment {
	return Experiment{
		Name:  "evaluation",
		Games: NumGames,
		Agents: []metrics.AgentConfig{
			{ID: 0, Kind: "random", Seed: 1},
			{ID: 1, Depth: 3, Evaluate: "material"},
			{ID: 2, Depth: 3, Evaluate: "decisive"},
		},
		MatchUps: [][2]int{{0, 1}, {0, 2}, {1, 2}},
	}
}

// TreeSearchExperiment plays MCTS against alpha-beta under the same time
// budget.
func TreeSearchExperiment() Experiment {
	return Experiment{
		Name:  "mcts",
		Games: NumGames,
		Agents: []metrics.AgentConfig{
			{ID: 1, Duration: TimeBudget},
			{ID: 2, Kind: "mcts", Duration: TimeBudget, Depth: searcher.MaxCutoff, Seed: 1},
		},
		MatchUps: [][2]int{{1, 2}},
	}
}

// Builtin returns the named built-in experiment.
func Builtin(name string) (Experiment, error) {
	switch name {
	case "pruning":
		return PruningExperiment(), nil
	case "depth":
		return DepthExperiment(), nil
	case "evaluation":
		return EvaluationExperiment(), nil
	case "mcts":
		return TreeSearchExperiment(), nil
	}
	return Experiment{}, fmt.Errorf("unknown experiment %q", name)
}

type gameTask struct {
	id     int
	red    metrics.AgentConfig
	blue   metrics.AgentConfig
	round uint64
}

// Results holds the records of a finished experiment.
type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// Run plays every game of the experiment, at most Concurrency at a time,
// and returns the records ordered by game.
func Run(ctx context.Context, exp Experiment) (Results, error) {
	if err := exp.validate(); err != nil {
		return Results{}, err
	}
	configs := make(map[int]metrics.AgentConfig, len(exp.Agents))
	for _, config := range exp.Agents {
		configs[config.ID] = config
	}

	var tasks []gameTask
	for _, matchup := range exp.MatchUps {
		for i := 0; i < exp.Games; i++ {
			red, blue := configs[matchup[0]], configs[matchup[1]]
			if i%2 == 1 {
				red, blue = blue, red
			}
			tasks = append(tasks, gameTask{id: len(tasks) + 1, red: red, blue: blue, round: uint64(i)})
		}
	}

	log.Info().Msgf("starting %s experiment: %d games, %d at a time", exp.Name, len(tasks), exp.Concurrency)

	gen := game.NewGenerator()
	var mu sync.Mutex
	var results Results

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exp.Concurrency)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			record, moves, err := runGame(ctx, gen, task, exp.MaxTurns)
			if err != nil {
				return fmt.Errorf("game %d: %w", task.id, err)
			}
			log.Info().Msgf("completed game %d of %d (%d vs %d) with winner: %s by %s",
				task.id, len(tasks), task.red.ID, task.blue.ID, record.Winner, record.Ending)

			mu.Lock()
			defer mu.Unlock()
			results.Games = append(results.Games, record)
			results.Moves = append(results.Moves, moves...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	sort.Slice(results.Games, func(i, j int) bool { return results.Games[i].ID < results.Games[j].ID })
	sort.SliceStable(results.Moves, func(i, j int) bool { return results.Moves[i].Game < results.Moves[j].Game })
	log.Info().Msgf("completed %s experiment", exp.Name)
	return results, nil
}

// RunAndWrite runs the experiment and stores configs and records under
// baseDir.
func RunAndWrite(ctx context.Context, exp Experiment, baseDir string) (string, error) {
	results, err := Run(ctx, exp)
	if err != nil {
		return "", err
	}

	writer, err := metrics.NewWriter(baseDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(exp.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// runGame executes a single game between two agents.
func runGame(ctx context.Context, gen *game.Generator, task gameTask, maxTurns int) (metrics.GameRecord, []metrics.MoveRecord, error) {
	red, err := CreateAgent(task.red, gen, task.round)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	blue, err := CreateAgent(task.blue, gen, task.round)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	e := engine.LocalEngine(red, blue, gamemaster.WithGenerator(gen), gamemaster.WithMaxTurns(maxTurns))
	outcome, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		ID:         task.id,
		UUID:       uuid.NewString(),
		Red:        task.red.ID,
		Blue:       task.blue.ID,
		Ending:     string(outcome.Ending),
		GameMetric: gameMetric,
	}
	moves := make([]metrics.MoveRecord, 0, len(moveMetrics))
	for _, mm := range moveMetrics {
		moves = append(moves, metrics.MoveRecord{Game: task.id, MoveMetric: mm})
	}
	return record, moves, nil
}

// CreateAgent builds the agent an AgentConfig describes. round offsets the
// seed of random and mcts agents so that repeated games differ.
func CreateAgent(config metrics.AgentConfig, gen *game.Generator, round uint64) (agent.Agent, error) {
	switch config.Kind {
	case "", "search", "mcts":
		s, err := NewSearcher(config, gen, round)
		if err != nil {
			return nil, err
		}
		return agent.NewSearchAgent(s), nil
	case "random":
		return agent.NewRandomAgent(config.Seed + round), nil
	case "remote":
		if config.URL == "" {
			return nil, fmt.Errorf("remote agent %d has no url", config.ID)
		}
		timeout := 10 * time.Second
		if config.Duration > 0 {
			timeout += config.Duration
		}
		return engine.NewRemoteAgent(config.URL, timeout), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}

// NewSearcher builds the alpha-beta or MCTS searcher of a search agent, with
// metrics collection on.
func NewSearcher(config metrics.AgentConfig, gen *game.Generator, round uint64) (searcher.Searcher, error) {
	if config.Kind == "mcts" {
		evaluate, err := EvaluationFn(config.Evaluate)
		if err != nil {
			return nil, err
		}
		return searcher.NewMCTS(
			searcher.WithTreeGenerator(gen),
			searcher.WithEpisodes(config.Episodes),
			searcher.WithBudget(config.Duration),
			searcher.WithCutoff(config.Depth),
			searcher.WithRolloutEvaluation(evaluate),
			searcher.WithSeed(config.Seed+round),
			searcher.WithTreeMetrics(),
		), nil
	}

	options, err := SearchOptions(config)
	if err != nil {
		return nil, err
	}
	options = append(options, searcher.WithGenerator(gen), searcher.WithMetrics())
	return searcher.NewMinimax(options...), nil
}

// SearchOptions turns an AgentConfig into searcher options.
func SearchOptions(config metrics.AgentConfig) ([]searcher.Option, error) {
	options := []searcher.Option{}

	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.NoPruning {
		options = append(options, searcher.WithPruning(false))
	}
	evaluate, err := EvaluationFn(config.Evaluate)
	if err != nil {
		return nil, err
	}
	options = append(options, searcher.WithEvaluationFn(evaluate))
	return options, nil
}

// EvaluationFn looks up an evaluation function by name.
func EvaluationFn(name string) (game.Evaluate, error) {
	switch name {
	case "", "material":
		return game.EvaluateMaterial, nil
	case "decisive":
		return game.EvaluateDecisive, nil
	}
	return nil, fmt.Errorf("unknown evaluation function %q", name)
}

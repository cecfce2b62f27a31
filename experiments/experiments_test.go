package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"guardtowers/experiments/metrics"
	"guardtowers/game"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func smallExperiment() Experiment {
	return Experiment{
		Name:        "small",
		Games:       2,
		Concurrency: 2,
		MaxTurns:    30,
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: "random", Seed: 5},
			{ID: 2, Depth: 1},
		},
		MatchUps: [][2]int{{1, 2}, {2, 2}},
	}
}

func TestRun(t *testing.T) {
	results, err := Run(context.Background(), smallExperiment())
	require.NoError(t, err)

	require.Len(t, results.Games, 4)
	seen := map[string]bool{}
	for i, record := range results.Games {
		require.Equal(t, i+1, record.ID)
		_, err := uuid.Parse(record.UUID)
		require.NoError(t, err)
		require.False(t, seen[record.UUID])
		seen[record.UUID] = true
		require.NotEmpty(t, record.Ending)
		require.LessOrEqual(t, record.TotalMoves, 30)
	}
	require.Equal(t, 1, results.Games[0].Red, "first game of a match up keeps the order")
	require.Equal(t, 2, results.Games[1].Red, "colours swap every game")

	total := 0
	for _, record := range results.Games {
		total += record.TotalMoves
	}
	require.Len(t, results.Moves, total)
	for i := 1; i < len(results.Moves); i++ {
		require.LessOrEqual(t, results.Moves[i-1].Game, results.Moves[i].Game)
	}
}

func TestRunRejectsBadExperiments(t *testing.T) {
	exp := smallExperiment()
	exp.MatchUps = [][2]int{{1, 9}}
	_, err := Run(context.Background(), exp)
	require.Error(t, err)

	exp = smallExperiment()
	exp.Agents = append(exp.Agents, metrics.AgentConfig{ID: 1})
	_, err = Run(context.Background(), exp)
	require.Error(t, err)

	exp = smallExperiment()
	exp.Agents[0].Kind = "oracle"
	_, err = Run(context.Background(), exp)
	require.Error(t, err)
}

func TestRunAndWrite(t *testing.T) {
	dir, err := RunAndWrite(context.Background(), smallExperiment(), t.TempDir())
	require.NoError(t, err)

	for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
		_, err := os.Stat(filepath.Join(dir, file))
		require.NoError(t, err, file)
	}
}

func TestLoadExperiment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: timed
games: 4
agents:
  - id: 1
    duration: 20ms
    evaluate: decisive
  - id: 2
    kind: random
    seed: 9
matchups:
  - [1, 2]
`), 0644))

	exp, err := LoadExperiment(path)
	require.NoError(t, err)

	require.Equal(t, "timed", exp.Name)
	require.Equal(t, 4, exp.Games)
	require.Positive(t, exp.Concurrency)
	require.Positive(t, exp.MaxTurns)
	require.Equal(t, 20*time.Millisecond, exp.Agents[0].Duration)
	require.Equal(t, "decisive", exp.Agents[0].Evaluate)
	require.Equal(t, [][2]int{{1, 2}}, exp.MatchUps)

	_, err = LoadExperiment(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	for _, name := range []string{"pruning", "depth", "evaluation", "mcts"} {
		exp, err := Builtin(name)
		require.NoError(t, err)
		require.NoError(t, exp.validate(), name)
	}
	_, err := Builtin("nope")
	require.Error(t, err)
}

func TestCreateAgent(t *testing.T) {
	gen := game.NewGenerator()
	state := game.NewGameState(game.MustParsePosition("3RG3/7/7/7/7/3r13/3BG3 r"), gen)

	a, err := CreateAgent(metrics.AgentConfig{Depth: 2, Evaluate: "decisive"}, gen, 0)
	require.NoError(t, err)
	result, ok := a.FindMove(state)
	require.True(t, ok)
	require.Equal(t, "D2-D1-1", result.Move.String())
	require.Equal(t, game.WinScore+2, result.Score)
	require.Positive(t, result.Metric.Nodes)

	tree, err := CreateAgent(metrics.AgentConfig{Kind: "mcts", Episodes: 1500, Depth: 20, Seed: 3}, gen, 0)
	require.NoError(t, err)
	result, ok = tree.FindMove(state)
	require.True(t, ok)
	require.Equal(t, "D2-D1-1", result.Move.String())
	require.Equal(t, 1500, result.Metric.Leaves)

	_, err = CreateAgent(metrics.AgentConfig{Kind: "remote"}, gen, 0)
	require.Error(t, err)
	_, err = CreateAgent(metrics.AgentConfig{Evaluate: "mobility"}, gen, 0)
	require.Error(t, err)
}

func TestRunThroughputExperiment(t *testing.T) {
	writer, err := metrics.NewWriter(t.TempDir(), "throughput")
	require.NoError(t, err)
	configs := []metrics.AgentConfig{{ID: 1, Depth: 2}, {ID: 2, Depth: 2, NoPruning: true}}

	records, err := RunThroughputExperiment(configs, writer)

	require.NoError(t, err)
	require.Len(t, records, len(configs)*len(ThroughputPositions))
	for i := range ThroughputPositions {
		pruned, plain := records[i], records[len(ThroughputPositions)+i]
		require.LessOrEqual(t, pruned.Nodes, plain.Nodes)
		require.Equal(t, 2, pruned.Depth)
	}
	_, err = os.Stat(filepath.Join(writer.Dir(), "throughput_records.csv"))
	require.NoError(t, err)
}

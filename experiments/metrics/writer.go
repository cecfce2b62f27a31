package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one contestant of an experiment.
type AgentConfig struct {
	ID        int           `yaml:"id"`
	Kind      string        `yaml:"kind"` // "search" (default), "mcts", "random" or "remote"
	Depth     int           `yaml:"depth"` // rollout cutoff for mcts
	Duration  time.Duration `yaml:"duration"`
	Episodes  int           `yaml:"episodes"`
	NoPruning bool          `yaml:"no_pruning"`
	Evaluate  string        `yaml:"evaluate"` // "material" (default) or "decisive"
	URL       string        `yaml:"url"`
	Seed      uint64        `yaml:"seed"`
}

type GameRecord struct {
	ID     int
	UUID   string
	Red    int // AgentConfig.ID
	Blue   int // AgentConfig.ID
	Ending string
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type ThroughputRecord struct {
	Agent    int // AgentConfig.ID
	Position string
	SearchMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates baseDir/name/<timestamp> and writes every file there.
func NewWriter(baseDir, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	dir := filepath.Join(baseDir, name, timestamp)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: dir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "depth", "duration", "episodes", "pruning", "evaluate", "url", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Depth),
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.FormatBool(!config.NoPruning),
			config.Evaluate,
			config.URL,
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "uuid", "red", "blue", "starting_player", "winner", "ending", "total_moves", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.UUID,
			strconv.Itoa(record.Red),
			strconv.Itoa(record.Blue),
			record.StartingPlayer,
			record.Winner,
			record.Ending,
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "score", "depth", "max_depth", "duration", "nodes", "leaves", "cutoffs"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Move,
			strconv.Itoa(record.Score),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.MaxDepth),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Leaves),
			strconv.Itoa(record.Cutoffs),
		})
	}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := []string{"agent", "position", "depth", "pruning", "duration", "nodes", "cutoffs", "nodes_per_second"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Agent),
			record.Position,
			strconv.Itoa(record.Depth),
			strconv.FormatBool(record.Pruning),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Cutoffs),
			strconv.FormatFloat(record.NodesPerSecond(), 'f', 0, 64),
		})
	}
	return w.write("throughput_records.csv", "throughput records", header, rows)
}

// NodesPerSecond is zero when no time was measured.
func (m SearchMetric) NodesPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Nodes) / m.Duration.Seconds()
}

func (w *Writer) write(file, what string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}

	// Write each row
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

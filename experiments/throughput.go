package experiments

import (
	"fmt"

	"guardtowers/experiments/metrics"
	"guardtowers/game"

	"github.com/rs/zerolog/log"
)

// ThroughputPositions are searched by the throughput experiment.
var ThroughputPositions = []string{
	game.StartPosition,
	"3RG3/1r25/7/3r3b42/2b1BG3/4b12/7 r",
	"3RG3/7/7/7/4b11b1/4r4r11/3BG1b11 b",
}

// RunThroughputExperiment searches each position with every config and
// records nodes per second.
func RunThroughputExperiment(configs []metrics.AgentConfig, writer *metrics.Writer) ([]metrics.ThroughputRecord, error) {
	gen := game.NewGenerator()
	records := []metrics.ThroughputRecord{}

	log.Info().Msg("starting throughput experiment...")

	for _, config := range configs {
		m, err := NewSearcher(config, gen, 0)
		if err != nil {
			return nil, err
		}

		for _, text := range ThroughputPositions {
			pos, err := game.ParsePosition(text)
			if err != nil {
				return nil, err
			}
			result, ok := m.Search(pos)
			if !ok {
				return nil, fmt.Errorf("no legal moves in %s", text)
			}
			records = append(records, metrics.ThroughputRecord{
				Agent:        config.ID,
				Position:     text,
				SearchMetric: result.Metric,
			})
			log.Info().Msgf("agent %d: %d nodes at depth %d in %s (%.0f nodes/s)",
				config.ID, result.Metric.Nodes, result.Metric.Depth, result.Metric.Duration, result.Metric.NodesPerSecond())
		}
	}

	log.Info().Msg("completed throughput experiment")

	if writer != nil {
		if err := writer.WriteAgentConfigs(configs); err != nil {
			return records, fmt.Errorf("failed to store agent configs: %w", err)
		}
		if err := writer.WriteThroughputRecords(records); err != nil {
			return records, fmt.Errorf("failed to write throughput records: %w", err)
		}
		log.Info().Msg("stored throughput records")
	}
	return records, nil
}

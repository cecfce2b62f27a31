package engine

import (
	"context"

	"guardtowers/experiments/metrics"
	"guardtowers/gamemaster"
)

type Engine interface {
	// Run plays a game until the referee ends it or ctx is cancelled.
	Run(ctx context.Context) (outcome gamemaster.Outcome, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

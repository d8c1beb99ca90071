package registry

import (
	"context"

	"github.com/fluree/vg-engine/internal/config"
	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/executor/columnar"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

// execute dispatches a pattern list to the row-based or columnar hash
// join executor per cfg.Columnar (spec §4.6.2), so icebergVG and r2rmlVG
// share one row-vs-columnar switch instead of each re-deriving it.
func execute(ctx context.Context, cfg config.Executor, sched *scheduler.Scheduler, src executor.Source, idx *models.RoutingIndex, graph *models.JoinGraph, patterns []models.Pattern, tt models.TimeTravel, cartesianCap *int) (<-chan models.Solution, <-chan error) {
	if cfg.Columnar {
		return columnar.Execute(ctx, sched, src, idx, graph, patterns, tt, cartesianCap)
	}
	return executor.Execute(ctx, sched, src, idx, graph, patterns, tt, cartesianCap)
}

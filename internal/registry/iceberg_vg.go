package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"

	"github.com/fluree/vg-engine/internal/config"
	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/iceberg"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
	"github.com/fluree/vg-engine/internal/r2rml"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

// icebergVG is the VGTypeIceberg implementation (spec §4.5): an
// R2RML-mapped set of tables backed by a DuckDB connection standing in
// for Iceberg table scans, with snapshot/time-travel support via the
// iceberg_snapshots manifest table.
type icebergVG struct {
	alias   string
	desc    models.VGDescriptor
	execCfg config.Executor

	db     *sql.DB
	source *iceberg.DuckDBSource
	sched  *scheduler.Scheduler
	idx    *models.RoutingIndex
	graph  *models.JoinGraph
}

// NewIcebergLoader returns a Loader that constructs icebergVG instances,
// closing over the executor config every query needs (scheduler pool
// size, cartesian cap, query timeout).
func NewIcebergLoader(execCfg config.Executor) Loader {
	return func(desc models.VGDescriptor) (VirtualGraph, error) {
		return &icebergVG{alias: desc.Name, desc: desc, execCfg: execCfg}, nil
	}
}

// ValidateIcebergConfig checks spec §6.1's Iceberg config shape: exactly
// one of warehouse-path/store/catalog, and exactly one of
// mapping/mappingInline.
func ValidateIcebergConfig(cfg map[string]any) error {
	present := 0
	for _, key := range []string{"warehouse-path", "store", "catalog"} {
		if _, ok := cfg[key]; ok {
			present++
		}
	}
	if present != 1 {
		return srvErrors.NewInvalidConfigError("warehouse-path/store/catalog", "exactly one of warehouse-path, store, or catalog is required")
	}

	mapping, hasMapping := cfg["mapping"]
	inline, hasInline := cfg["mappingInline"]
	if hasMapping == hasInline {
		return srvErrors.NewInvalidConfigError("mapping/mappingInline", "exactly one of mapping or mappingInline is required")
	}
	if hasMapping {
		if _, ok := mapping.(string); !ok {
			return srvErrors.NewInvalidConfigError("mapping", "must be a string path")
		}
	}
	if hasInline {
		if _, ok := inline.(string); !ok {
			return srvErrors.NewInvalidConfigError("mappingInline", "must be a string")
		}
	}
	return nil
}

func (v *icebergVG) Initialize(ctx context.Context) error {
	source, err := mappingSource(v.desc.Config)
	if err != nil {
		return err
	}

	mappings, edges, err := r2rml.Parse(source)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		return srvErrors.NewNoMappingError(v.alias)
	}

	v.idx, v.graph = routing.Build(mappings, edges)

	dsn, _ := v.desc.Config["warehouse-path"].(string)
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return fmt.Errorf("opening duckdb warehouse for %s: %w", v.alias, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("connecting to duckdb warehouse for %s: %w", v.alias, err)
	}

	v.db = db
	v.source = iceberg.NewDuckDBSource(v.alias, iceberg.NewLoggingInterceptor(db))
	v.sched = scheduler.NewScheduler(v.execCfg.NumWorkers)

	zap.S().Named("registry").Infow("initialized iceberg virtual graph", "alias", v.alias, "tables", len(mappings))
	return nil
}

// mappingSource reads the R2RML document text from either a file path
// (`mapping`) or an inline string (`mappingInline`).
func mappingSource(cfg map[string]any) (string, error) {
	if path, ok := cfg["mapping"].(string); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading R2RML mapping file %s: %w", path, err)
		}
		return string(data), nil
	}
	if inline, ok := cfg["mappingInline"].(string); ok {
		return inline, nil
	}
	return "", srvErrors.NewInvalidConfigError("mapping/mappingInline", "one of mapping or mappingInline is required")
}

func (v *icebergVG) Upsert(ctx context.Context, change SourceChange) error {
	// Tables are read live from the warehouse on every scan; no cached
	// state needs invalidating on upsert.
	return nil
}

func (v *icebergVG) Close() error {
	v.sched.Close()
	return v.db.Close()
}

func (v *icebergVG) MatchTriple(predicate string) (*models.TriplesMapping, error) {
	return routing.ResolveByPredicate(v.idx, predicate)
}

func (v *icebergVG) MatchClass(class string) (*models.TriplesMapping, error) {
	return routing.ResolveByClass(v.idx, class)
}

func (v *icebergVG) Reorder(q *planner.Query, schemaHint string) (*models.QueryContext, []models.Pattern) {
	return planner.Reorder(v.idx, q, schemaHint)
}

func (v *icebergVG) Finalize(ctx context.Context, qctx *models.QueryContext, patterns []models.Pattern) ([]models.Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, v.execCfg.QueryTimeout)
	defer cancel()

	out, errs := execute(ctx, v.execCfg, v.sched, v.source, v.idx, v.graph, patterns, qctx.TimeTravel, qctx.CartesianCap)

	solutions, err := drain(ctx, out, errs)
	if err != nil {
		return nil, err
	}

	execInner := v.innerExecutor(ctx)
	makeStep := executor.NewTransitiveStep(ctx, v.sched, v.source, v.idx, v.graph, qctx.TimeTravel)
	return executor.Finalize(solutions, qctx, execInner, makeStep)
}

// innerExecutor runs an anti-join/EXISTS sub-plan's patterns to
// completion against this same VG, without aggregation or modifiers
// (spec §4.6.4: inner evaluation is plain pattern matching).
func (v *icebergVG) innerExecutor(ctx context.Context) executor.ExecuteInnerFn {
	return func(outer models.Solution, patterns []models.Pattern) ([]models.Solution, error) {
		out, errs := execute(ctx, v.execCfg, v.sched, v.source, v.idx, v.graph, patterns, models.TimeTravel{}, v.execCfg.CartesianCap)
		return drain(ctx, out, errs)
	}
}

func drain(ctx context.Context, out <-chan models.Solution, errs <-chan error) ([]models.Solution, error) {
	var solutions []models.Solution
	for out != nil || errs != nil {
		select {
		case sol, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			solutions = append(solutions, sol)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return solutions, nil
}

func (v *icebergVG) Explain(q *planner.Query, schemaHint string) (PlanTree, error) {
	_, patterns := v.Reorder(q, schemaHint)
	groups, err := routing.GroupByTable(v.idx, patterns)
	if err != nil {
		return PlanTree{}, err
	}

	tree := PlanTree{CartesianFallback: len(groups) > 1 && !v.graph.HasJoinEdges()}
	for _, g := range groups {
		var pd []string
		for _, p := range g.Patterns {
			if p.Pushdown == nil {
				continue
			}
			for _, pred := range p.Pushdown.Predicates {
				pd = append(pd, fmt.Sprintf("%s %s %v", pred.Column, pred.Op, pred.Value))
			}
		}
		tree.Groups = append(tree.Groups, PlanGroup{Table: g.Table, Patterns: len(g.Patterns), Pushdown: pd})
	}
	for _, e := range v.graph.Edges {
		tree.JoinEdges = append(tree.JoinEdges, fmt.Sprintf("%s -[%s]-> %s", e.ChildTable, e.FKPredicate, e.ParentTable))
	}
	return tree, nil
}

func (v *icebergVG) Aliases() []string { return v.desc.Dependencies }

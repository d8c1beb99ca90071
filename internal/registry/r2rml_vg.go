package registry

import (
	"context"
	"database/sql"
	"fmt"

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

// r2rmlVG is the VGTypeR2RML implementation: a bare R2RML mapping over an
// already-reachable tabular connection (`dsn`), with no snapshot history
// or time-travel validation. This is the lighter-weight sibling of
// icebergVG (spec §6.1 lists `mapping`/`mappingInline` inside the Iceberg
// config block; a VG whose tables carry no warehouse/catalog concept
// still needs a connection string to reach them, so `dsn` fills that role
// for this type — see DESIGN.md).
type r2rmlVG struct {
	alias   string
	desc    models.VGDescriptor
	execCfg config.Executor

	db     *sql.DB
	source *iceberg.DuckDBSource
	sched  *scheduler.Scheduler
	idx    *models.RoutingIndex
	graph  *models.JoinGraph
}

// NewR2RMLLoader returns a Loader constructing r2rmlVG instances.
func NewR2RMLLoader(execCfg config.Executor) Loader {
	return func(desc models.VGDescriptor) (VirtualGraph, error) {
		return &r2rmlVG{alias: desc.Name, desc: desc, execCfg: execCfg}, nil
	}
}

// ValidateR2RMLConfig requires a connection string and exactly one of
// mapping/mappingInline, mirroring the Iceberg type's mapping validation
// without the warehouse/catalog requirement.
func ValidateR2RMLConfig(cfg map[string]any) error {
	if dsn, ok := cfg["dsn"]; !ok {
		return srvErrors.NewInvalidConfigError("dsn", "required")
	} else if _, ok := dsn.(string); !ok {
		return srvErrors.NewInvalidConfigError("dsn", "must be a string")
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

func (v *r2rmlVG) Initialize(ctx context.Context) error {
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

	dsn, _ := v.desc.Config["dsn"].(string)
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return fmt.Errorf("opening connection for %s: %w", v.alias, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("connecting for %s: %w", v.alias, err)
	}

	v.db = db
	v.source = iceberg.NewDuckDBSource(v.alias, iceberg.NewLoggingInterceptor(db))
	v.sched = scheduler.NewScheduler(v.execCfg.NumWorkers)

	zap.S().Named("registry").Infow("initialized r2rml virtual graph", "alias", v.alias, "tables", len(mappings))
	return nil
}

func (v *r2rmlVG) Upsert(ctx context.Context, change SourceChange) error { return nil }

func (v *r2rmlVG) Close() error {
	v.sched.Close()
	return v.db.Close()
}

func (v *r2rmlVG) MatchTriple(predicate string) (*models.TriplesMapping, error) {
	return routing.ResolveByPredicate(v.idx, predicate)
}

func (v *r2rmlVG) MatchClass(class string) (*models.TriplesMapping, error) {
	return routing.ResolveByClass(v.idx, class)
}

func (v *r2rmlVG) Reorder(q *planner.Query, schemaHint string) (*models.QueryContext, []models.Pattern) {
	return planner.Reorder(v.idx, q, schemaHint)
}

func (v *r2rmlVG) Finalize(ctx context.Context, qctx *models.QueryContext, patterns []models.Pattern) ([]models.Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, v.execCfg.QueryTimeout)
	defer cancel()

	// r2rmlVG carries no snapshot manifest; a time-travel request here is
	// always invalid rather than silently ignored.
	if !qctx.TimeTravel.IsLatest() {
		return nil, srvErrors.NewInvalidTimeTravelError(v.alias, "r2rml virtual graphs have no snapshot history")
	}

	out, errs := execute(ctx, v.execCfg, v.sched, v.source, v.idx, v.graph, patterns, qctx.TimeTravel, qctx.CartesianCap)

	solutions, err := drain(ctx, out, errs)
	if err != nil {
		return nil, err
	}

	execInner := func(outer models.Solution, innerPatterns []models.Pattern) ([]models.Solution, error) {
		out, errs := execute(ctx, v.execCfg, v.sched, v.source, v.idx, v.graph, innerPatterns, models.TimeTravel{}, v.execCfg.CartesianCap)
		return drain(ctx, out, errs)
	}

	makeStep := executor.NewTransitiveStep(ctx, v.sched, v.source, v.idx, v.graph, qctx.TimeTravel)
	return executor.Finalize(solutions, qctx, execInner, makeStep)
}

func (v *r2rmlVG) Explain(q *planner.Query, schemaHint string) (PlanTree, error) {
	_, patterns := v.Reorder(q, schemaHint)
	groups, err := routing.GroupByTable(v.idx, patterns)
	if err != nil {
		return PlanTree{}, err
	}

	tree := PlanTree{CartesianFallback: len(groups) > 1 && !v.graph.HasJoinEdges()}
	for _, g := range groups {
		tree.Groups = append(tree.Groups, PlanGroup{Table: g.Table, Patterns: len(g.Patterns)})
	}
	for _, e := range v.graph.Edges {
		tree.JoinEdges = append(tree.JoinEdges, fmt.Sprintf("%s -[%s]-> %s", e.ChildTable, e.FKPredicate, e.ParentTable))
	}
	return tree, nil
}

func (v *r2rmlVG) Aliases() []string { return v.desc.Dependencies }

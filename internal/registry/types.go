package registry

import (
	"context"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
)

// VirtualGraph is the common capability set every VG type implements
// (spec §9 design notes: `{initialize, upsert, close, match-triple,
// match-class, finalize, reorder, explain, aliases}`), so the registry
// can treat Iceberg, R2RML, and BM25 instances polymorphically.
type VirtualGraph interface {
	// Initialize constructs whatever live state the type needs (a DuckDB
	// connection, a parsed mapping, an in-memory index) from its
	// descriptor's config. Called once, on first load.
	Initialize(ctx context.Context) error

	// Upsert propagates a change from a subscribed source ledger (spec
	// §4.1 "subscribe the VG to its source ledgers so that changes
	// propagate"). Stateless types may treat this as a no-op.
	Upsert(ctx context.Context, change SourceChange) error

	// Close releases live resources (connections, file handles).
	Close() error

	// MatchTriple resolves the TriplesMapping that can answer a pattern
	// mentioning predicate (spec §4.3).
	MatchTriple(predicate string) (*models.TriplesMapping, error)

	// MatchClass resolves the TriplesMapping for an rdf:type class (spec
	// §4.3).
	MatchClass(class string) (*models.TriplesMapping, error)

	// Reorder runs the pushdown analyzer and produces the per-query
	// QueryContext and annotated pattern list (spec §4.4).
	Reorder(q *planner.Query, schemaHint string) (*models.QueryContext, []models.Pattern)

	// Finalize runs patterns to completion: scan, join, anti-join,
	// transitive, aggregate, and modifier application, returning the
	// final solution set (spec §4.6).
	Finalize(ctx context.Context, qctx *models.QueryContext, patterns []models.Pattern) ([]models.Solution, error)

	// Explain describes the plan Reorder+Finalize would execute, without
	// running it, as a PlanTree (spec §9 design notes, supplemented —
	// shape is not specified upstream).
	Explain(q *planner.Query, schemaHint string) (PlanTree, error)

	// Aliases returns the source-ledger aliases this VG depends on.
	Aliases() []string
}

// SourceChange is one upsert notification from a subscribed ledger. The
// real change-feed/event shape is an external collaborator (spec §1); this
// is the minimal boundary type a VG's Upsert needs to react to it.
type SourceChange struct {
	Ledger  string
	Subject string
	Payload map[string]any
}

// PlanTree is the structured, JSON-serializable explain output spec §4.1
// design notes call for but never shapes (SPEC_FULL.md supplemented
// feature): table groups touched, join edges traversed, pushdown
// predicates attached per group, and whether a cartesian fallback was
// used anywhere in the plan.
type PlanTree struct {
	Groups           []PlanGroup `json:"groups"`
	JoinEdges        []string    `json:"joinEdges"`
	CartesianFallback bool       `json:"cartesianFallback"`
}

// PlanGroup is one table's slice of the plan tree: the patterns routed to
// it and the pushdown predicates the analyzer attached.
type PlanGroup struct {
	Table      string   `json:"table"`
	Patterns   int      `json:"patterns"`
	Pushdown   []string `json:"pushdown"`
}

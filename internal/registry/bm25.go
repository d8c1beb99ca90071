package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// bm25VG is the VGTypeBM25 stub (spec §1: "A BM25 text-index variant
// exists and plugs into the same registry lifecycle; it is mentioned
// where the shared contract matters but its scoring internals are not
// specified"). Lifecycle is fully real — create/drop/load, dependency
// validation, matching against its one source ledger — but query
// evaluation reports NotImplementedError, exercising the registry's
// polymorphism with a second concrete type rather than leaving it
// theoretical.
type bm25VG struct {
	alias string
	desc  models.VGDescriptor
}

// NewBM25Loader returns a Loader constructing bm25VG instances.
func NewBM25Loader() Loader {
	return func(desc models.VGDescriptor) (VirtualGraph, error) {
		return &bm25VG{alias: desc.Name, desc: desc}, nil
	}
}

// ValidateBM25Config is the type's config validator and accepts any
// config map; the one-source-ledger rule is a constraint on dependencies,
// enforced by ValidateBM25Dependencies.
func ValidateBM25Config(cfg map[string]any) error {
	return nil
}

// ValidateBM25Dependencies enforces spec §1's "BM25 currently requires
// exactly one source ledger" — a constraint on Registry.Create's deps
// argument, registered as the type's DepValidator.
func ValidateBM25Dependencies(deps []string) error {
	if len(deps) != 1 {
		return srvErrors.NewInvalidConfigError("dependencies", "BM25 requires exactly one source ledger")
	}
	return nil
}

func (v *bm25VG) Initialize(ctx context.Context) error {
	if err := ValidateBM25Dependencies(v.desc.Dependencies); err != nil {
		return err
	}
	zap.S().Named("registry").Infow("initialized bm25 virtual graph", "alias", v.alias, "ledger", v.desc.Dependencies[0])
	return nil
}

func (v *bm25VG) Upsert(ctx context.Context, change SourceChange) error {
	return srvErrors.NewNotImplementedError(string(models.VGTypeBM25), "upsert-scoring")
}

func (v *bm25VG) Close() error { return nil }

func (v *bm25VG) MatchTriple(predicate string) (*models.TriplesMapping, error) {
	return nil, srvErrors.NewNotImplementedError(string(models.VGTypeBM25), "match-triple")
}

func (v *bm25VG) MatchClass(class string) (*models.TriplesMapping, error) {
	return nil, srvErrors.NewNotImplementedError(string(models.VGTypeBM25), "match-class")
}

func (v *bm25VG) Reorder(q *planner.Query, schemaHint string) (*models.QueryContext, []models.Pattern) {
	ctx := models.NewQueryContext()
	return ctx, q.Patterns
}

func (v *bm25VG) Finalize(ctx context.Context, qctx *models.QueryContext, patterns []models.Pattern) ([]models.Solution, error) {
	return nil, srvErrors.NewNotImplementedError(string(models.VGTypeBM25), "finalize")
}

func (v *bm25VG) Explain(q *planner.Query, schemaHint string) (PlanTree, error) {
	return PlanTree{}, srvErrors.NewNotImplementedError(string(models.VGTypeBM25), "explain")
}

func (v *bm25VG) Aliases() []string { return v.desc.Dependencies }

package registry_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/config"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
	"github.com/fluree/vg-engine/internal/registry"
	"github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/nameservice"
)

func TestRegistry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "registry suite")
}

const fakeType models.VGType = "fidx:Fake"

// fakeVG is a minimal VirtualGraph test double that needs no database
// connection, so lifecycle behavior can be exercised without DuckDB.
type fakeVG struct {
	desc   models.VGDescriptor
	closed bool
}

func (f *fakeVG) Initialize(ctx context.Context) error { return nil }
func (f *fakeVG) Upsert(ctx context.Context, change registry.SourceChange) error { return nil }
func (f *fakeVG) Close() error                                                  { f.closed = true; return nil }
func (f *fakeVG) MatchTriple(predicate string) (*models.TriplesMapping, error)   { return nil, nil }
func (f *fakeVG) MatchClass(class string) (*models.TriplesMapping, error)        { return nil, nil }
func (f *fakeVG) Reorder(q *planner.Query, schemaHint string) (*models.QueryContext, []models.Pattern) {
	return models.NewQueryContext(), q.Patterns
}
func (f *fakeVG) Finalize(ctx context.Context, qctx *models.QueryContext, patterns []models.Pattern) ([]models.Solution, error) {
	return nil, nil
}
func (f *fakeVG) Explain(q *planner.Query, schemaHint string) (registry.PlanTree, error) {
	return registry.PlanTree{}, nil
}
func (f *fakeVG) Aliases() []string { return f.desc.Dependencies }

func newTestRegistry() (*registry.Registry, *nameservice.InMemory) {
	ns := nameservice.NewInMemory()
	ns.RegisterLedger("orders:main")
	r := registry.NewRegistry(ns, config.Registry{DefaultBranch: "main", ArtifactsRoot: "virtual-graphs"})
	r.RegisterType(fakeType, func(desc models.VGDescriptor) (registry.VirtualGraph, error) {
		return &fakeVG{desc: desc}, nil
	}, nil, nil, false)
	return r, ns
}

var _ = Describe("Registry lifecycle", func() {
	It("creates a VG, normalizes the alias, and loads it lazily", func() {
		r, _ := newTestRegistry()
		ctx := context.Background()

		desc, err := r.Create(ctx, "airlines", fakeType, map[string]any{}, []string{"orders:main"})
		Expect(err).NotTo(HaveOccurred())
		Expect(desc.Name).To(Equal("airlines:main"))

		vg, err := r.Load(ctx, "airlines")
		Expect(err).NotTo(HaveOccurred())
		Expect(vg).NotTo(BeNil())
	})

	It("rejects a second create for the same alias", func() {
		r, _ := newTestRegistry()
		ctx := context.Background()

		_, err := r.Create(ctx, "airlines", fakeType, map[string]any{}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = r.Create(ctx, "airlines", fakeType, map[string]any{}, nil)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&errors.AlreadyExistsError{}))
	})

	It("fails create when a dependency ledger does not exist", func() {
		r, _ := newTestRegistry()
		ctx := context.Background()

		_, err := r.Create(ctx, "airlines", fakeType, map[string]any{}, []string{"missing:main"})
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&errors.MissingDependencyError{}))
	})

	It("drops idempotently, closing any live instance", func() {
		r, _ := newTestRegistry()
		ctx := context.Background()

		_, err := r.Create(ctx, "airlines", fakeType, map[string]any{}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = r.Load(ctx, "airlines")
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Drop(ctx, "airlines")).To(Succeed())
		Expect(r.Drop(ctx, "airlines")).To(Succeed())

		_, err = r.Load(ctx, "airlines")
		Expect(err).To(HaveOccurred())
	})

	It("returns the exact plan tree a loaded VG reports", func() {
		r, _ := newTestRegistry()
		ctx := context.Background()

		_, err := r.Create(ctx, "airlines", fakeType, map[string]any{}, nil)
		Expect(err).NotTo(HaveOccurred())

		vg, err := r.Load(ctx, "airlines")
		Expect(err).NotTo(HaveOccurred())

		got, err := vg.Explain(&planner.Query{}, "")
		Expect(err).NotTo(HaveOccurred())

		// go-cmp pinpoints which field of a multi-slice struct like
		// PlanTree diverges, instead of a pile of Expect() assertions.
		want := registry.PlanTree{}
		if diff := cmp.Diff(want, got); diff != "" {
			Fail("unexpected plan tree (-want +got):\n" + diff)
		}
	})
})

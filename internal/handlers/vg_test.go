package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/config"
	"github.com/fluree/vg-engine/internal/handlers"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
	"github.com/fluree/vg-engine/internal/registry"
	"github.com/fluree/vg-engine/pkg/nameservice"
)

func TestHandlers(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "handlers suite")
}

const fakeType models.VGType = "fidx:Fake"

// fakeVG is the same style of no-database test double internal/registry's
// own suite uses.
type fakeVG struct{ desc models.VGDescriptor }

func (f *fakeVG) Initialize(ctx context.Context) error                          { return nil }
func (f *fakeVG) Upsert(ctx context.Context, change registry.SourceChange) error { return nil }
func (f *fakeVG) Close() error                                                  { return nil }
func (f *fakeVG) MatchTriple(predicate string) (*models.TriplesMapping, error)  { return nil, nil }
func (f *fakeVG) MatchClass(class string) (*models.TriplesMapping, error)      { return nil, nil }
func (f *fakeVG) Reorder(q *planner.Query, schemaHint string) (*models.QueryContext, []models.Pattern) {
	return models.NewQueryContext(), q.Patterns
}
func (f *fakeVG) Finalize(ctx context.Context, qctx *models.QueryContext, patterns []models.Pattern) ([]models.Solution, error) {
	return nil, nil
}
func (f *fakeVG) Explain(q *planner.Query, schemaHint string) (registry.PlanTree, error) {
	return registry.PlanTree{
		Groups:    []registry.PlanGroup{{Table: "orders", Patterns: len(q.Patterns), Pushdown: []string{"status = 'open'"}}},
		JoinEdges: []string{"orders -[order_id]-> line_items"},
	}, nil
}
func (f *fakeVG) Aliases() []string { return f.desc.Dependencies }

func newTestRouter() (*gin.Engine, *nameservice.InMemory) {
	gin.SetMode(gin.TestMode)
	ns := nameservice.NewInMemory()
	reg := registry.NewRegistry(ns, config.Registry{DefaultBranch: "main"})
	reg.RegisterType(fakeType, func(desc models.VGDescriptor) (registry.VirtualGraph, error) {
		return &fakeVG{desc: desc}, nil
	}, nil, nil, false)

	h := handlers.New(reg)
	router := gin.New()
	handlers.Register(router.Group("/"), h)
	return router, ns
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var _ = Describe("VG admin handlers", func() {
	It("creates, lists, explains, and drops a virtual graph", func() {
		router, _ := newTestRouter()

		rec := doJSON(router, http.MethodPost, "/vgs", map[string]any{
			"name": "airlines",
			"type": string(fakeType),
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = doJSON(router, http.MethodGet, "/vgs", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var listResp struct {
			VGs []struct{ Name string } `json:"vgs"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &listResp)).To(Succeed())
		Expect(listResp.VGs).To(HaveLen(1))
		Expect(listResp.VGs[0].Name).To(Equal("airlines:main"))

		rec = doJSON(router, http.MethodPost, "/vgs/airlines/explain", map[string]any{
			"patterns": []map[string]string{
				{"subject": "?s", "predicate": "<http://example.org/status>", "object": "\"open\""},
			},
		})
		Expect(rec.Code).To(Equal(http.StatusOK))
		var explainResp struct {
			Groups []struct {
				Table    string
				Patterns int
			}
			Joins []string
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &explainResp)).To(Succeed())
		Expect(explainResp.Groups).To(HaveLen(1))
		Expect(explainResp.Groups[0].Table).To(Equal("orders"))
		Expect(explainResp.Joins).To(HaveLen(1))

		rec = doJSON(router, http.MethodDelete, "/vgs/airlines", nil)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})

	It("rejects creating a duplicate alias with 409", func() {
		router, _ := newTestRouter()

		rec := doJSON(router, http.MethodPost, "/vgs", map[string]any{"name": "airlines", "type": string(fakeType)})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = doJSON(router, http.MethodPost, "/vgs", map[string]any{"name": "airlines", "type": string(fakeType)})
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})

	It("rejects an unregistered VG type with 400", func() {
		router, _ := newTestRouter()

		rec := doJSON(router, http.MethodPost, "/vgs", map[string]any{"name": "airlines", "type": "fidx:Unknown"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})

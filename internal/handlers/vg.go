package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
)

// vgResponse is the wire shape for a VGDescriptor.
type vgResponse struct {
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Config       map[string]any `json:"config"`
	Dependencies []string       `json:"dependencies"`
}

func newVGResponse(d models.VGDescriptor) vgResponse {
	return vgResponse{
		Name:         d.Name,
		Type:         string(d.Type),
		Config:       d.Config,
		Dependencies: d.Dependencies,
	}
}

// ListVGs returns every VG the nameservice currently holds.
//
// GET /vgs
func (h *Handler) ListVGs(c *gin.Context) {
	descs, err := h.registry.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]vgResponse, 0, len(descs))
	for _, d := range descs {
		out = append(out, newVGResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"vgs": out})
}

// createVGRequest is the POST /vgs request body.
type createVGRequest struct {
	Name         string         `json:"name" binding:"required"`
	Type         string         `json:"type" binding:"required"`
	Config       map[string]any `json:"config"`
	Dependencies []string       `json:"dependencies"`
}

// CreateVG validates and registers a new virtual graph.
//
// POST /vgs
func (h *Handler) CreateVG(c *gin.Context) {
	var req createVGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	desc, err := h.registry.Create(c.Request.Context(), req.Name, models.VGType(req.Type), req.Config, req.Dependencies)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newVGResponse(desc))
}

// DropVG retracts a virtual graph, closing any live instance.
//
// DELETE /vgs/:alias
func (h *Handler) DropVG(c *gin.Context) {
	alias := c.Param("alias")
	if err := h.registry.Drop(c.Request.Context(), alias); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// explainPattern is the wire shape for one triple pattern. Subject,
// predicate, and object use a simple term grammar: "?name" is a variable,
// "<iri>" is an IRI, anything else is a plain literal.
type explainPattern struct {
	Subject   string `json:"subject" binding:"required"`
	Predicate string `json:"predicate" binding:"required"`
	Object    string `json:"object" binding:"required"`
}

type explainRequest struct {
	Patterns   []explainPattern `json:"patterns" binding:"required"`
	SchemaHint string           `json:"schemaHint"`
}

type explainResponse struct {
	Groups            []planGroupResponse `json:"groups"`
	Joins             []string            `json:"joins"`
	CartesianFallback bool                `json:"cartesianFallback"`
}

type planGroupResponse struct {
	Table    string   `json:"table"`
	Patterns int      `json:"patterns"`
	Pushdown []string `json:"pushdown"`
}

func parseTerm(s string) models.Term {
	switch {
	case strings.HasPrefix(s, "?"):
		return models.NewVariable(strings.TrimPrefix(s, "?"))
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		return models.NewIRI(s[1 : len(s)-1])
	default:
		return models.NewLiteral(s, "")
	}
}

// ExplainVG reorders and plans the submitted pattern set against the
// named virtual graph without executing it (spec §4.1 `explain`).
//
// POST /vgs/:alias/explain
func (h *Handler) ExplainVG(c *gin.Context) {
	alias := c.Param("alias")

	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vg, err := h.registry.Load(c.Request.Context(), alias)
	if err != nil {
		respondError(c, err)
		return
	}

	patterns := make([]models.Pattern, 0, len(req.Patterns))
	for _, p := range req.Patterns {
		patterns = append(patterns, models.Pattern{
			Subject:   parseTerm(p.Subject),
			Predicate: parseTerm(p.Predicate),
			Object:    parseTerm(p.Object),
		})
	}

	plan, err := vg.Explain(&planner.Query{Patterns: patterns}, req.SchemaHint)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := explainResponse{Joins: plan.JoinEdges, CartesianFallback: plan.CartesianFallback}
	for _, g := range plan.Groups {
		resp.Groups = append(resp.Groups, planGroupResponse{Table: g.Table, Patterns: g.Patterns, Pushdown: g.Pushdown})
	}
	c.JSON(http.StatusOK, resp)
}

// Package handlers implements the admin HTTP API layer: gin handlers that
// expose the VG registry's lifecycle operations (spec §6 expansion).
//
// Handlers delegate everything to the registry and focus on request
// validation, status-code mapping, and JSON shaping.
//
// # Endpoints
//
//	┌────────┬────────────────────────┬───────────────────────────────┐
//	│ Method │ Path                   │ Description                   │
//	├────────┼────────────────────────┼───────────────────────────────┤
//	│ GET    │ /vgs                   │ List registered VGs           │
//	│ POST   │ /vgs                   │ Create a VG                   │
//	│ DELETE │ /vgs/:alias            │ Drop a VG                     │
//	│ POST   │ /vgs/:alias/explain    │ Explain a pattern set's plan  │
//	└────────┴────────────────────────┴───────────────────────────────┘
//
// # Error Handling
//
// statusFor maps the pkg/errors taxonomy to HTTP status codes; any
// error type it does not recognize becomes 500.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fluree/vg-engine/internal/registry"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// Handler holds the registry every route delegates to.
type Handler struct {
	registry *registry.Registry
}

// New returns a Handler backed by reg.
func New(reg *registry.Registry) *Handler {
	return &Handler{registry: reg}
}

// Register wires the admin routes onto router.
func Register(router *gin.RouterGroup, h *Handler) {
	vgs := router.Group("/vgs")
	vgs.GET("", h.ListVGs)
	vgs.POST("", h.CreateVG)
	vgs.DELETE("/:alias", h.DropVG)
	vgs.POST("/:alias/explain", h.ExplainVG)
}

// statusFor maps a registry/mapper/executor error to an HTTP status code.
func statusFor(err error) int {
	switch err.(type) {
	case *srvErrors.AlreadyExistsError:
		return http.StatusConflict
	case *srvErrors.NotFoundError:
		return http.StatusNotFound
	case *srvErrors.MissingDependencyError:
		return http.StatusUnprocessableEntity
	case *srvErrors.InvalidConfigError, *srvErrors.InvalidMappingError, *srvErrors.NoMappingError:
		return http.StatusBadRequest
	case *srvErrors.InvalidTimeTravelError:
		return http.StatusBadRequest
	case *srvErrors.NotImplementedError:
		return http.StatusNotImplemented
	case *srvErrors.QueryTimeoutError:
		return http.StatusGatewayTimeout
	case *srvErrors.CancelledError:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

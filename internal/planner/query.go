package planner

import (
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/pushdown"
)

// Query is everything reorder needs from an already-parsed query: the
// host engine's SPARQL/FQL parser is out of scope (spec §1), so this is
// the boundary shape that parser is expected to hand off.
type Query struct {
	Patterns     []models.Pattern
	Filters      []pushdown.FilterCandidate
	Values       []pushdown.ValuesCandidate
	Binds        []models.BindSpec
	AntiJoins    []models.AntiJoinSpec
	Transitives  []models.TransitiveSpec
	Aggregation  *models.AggregationSpec
	TimeTravel   models.TimeTravel
	CartesianCap *int
}

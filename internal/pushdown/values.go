package pushdown

import "github.com/fluree/vg-engine/internal/models"

// AnalyzeValues classifies a single-variable VALUES pattern (spec §4.4
// "VALUES analysis"). Multi-variable VALUES patterns aren't pushable under
// the single-column ObjectMap contract and are reported as such by the
// caller declining to call this at all — there is nothing to flatten here
// the way there is for FILTER.
func AnalyzeValues(variable string, values []any) models.ValuesAnalysis {
	return models.ValuesAnalysis{Variable: variable, Values: values}
}

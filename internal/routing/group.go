package routing

import "github.com/fluree/vg-engine/internal/models"

// GroupByTable groups patterns by the table the routing index resolves
// each one to (spec §4.6.1 step 1: "Group patterns by target table via
// the routing index. If only one group, choose its TriplesMapping.").
// Patterns whose predicate/class can't be routed (no mapping, or more
// than one) are skipped rather than failing the whole query; no group
// carries them, so the join does not evaluate them.
func GroupByTable(idx *models.RoutingIndex, patterns []models.Pattern) ([]models.Group, error) {
	order := []string{}
	byTable := map[string][]models.Pattern{}

	for _, p := range patterns {
		tm, err := TableFor(idx, p)
		if err != nil {
			continue
		}
		if _, seen := byTable[tm.Table]; !seen {
			order = append(order, tm.Table)
		}
		byTable[tm.Table] = append(byTable[tm.Table], p)
	}

	groups := make([]models.Group, 0, len(order))
	for _, table := range order {
		groups = append(groups, models.Group{Table: table, Patterns: byTable[table]})
	}
	return groups, nil
}

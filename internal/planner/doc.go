// Package planner implements the system overview's "Planner" box: a
// single reorder() entrypoint that resets per-query state, runs the
// pushdown analyzer over a query's FILTER/VALUES candidates, and packages
// everything the executor's finalize step needs (aggregation, anti-joins,
// transitive paths, BIND/residual filters, time travel, cartesian cap)
// into one QueryContext (spec §9 design notes: "reorder produces exactly
// one context consumed by finalize, never shared across queries").
package planner

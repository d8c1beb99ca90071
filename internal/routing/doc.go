// Package routing builds the routing index and join graph from a VG's
// compiled TriplesMappings and JoinEdges, and groups a query's triple
// patterns by the table that answers each one (spec §4.3, §4.6.1 step 1).
package routing

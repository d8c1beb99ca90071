// Package registry implements the VG registry and lifecycle (spec
// §4.1): create/drop/load of virtual graphs against a nameservice, and
// the common capability surface every VG type exposes.
//
//	Registry
//	    ├── Create   validate → normalize alias → publish → eager-init?
//	    ├── Drop     retract (idempotent) → best-effort artifact cleanup
//	    └── Load     cache hit? → fetch descriptor → dispatch on type →
//	                 construct → Initialize → cache
//
// Three VGType implementations live alongside the registry itself:
// icebergVG (warehouse-path/store/catalog-backed, full time-travel),
// r2rmlVG (a bare R2RML mapping over an already-reachable tabular
// connection, no snapshot history), and bm25VG (lifecycle-only stub,
// spec §1's "scoring internals are not specified"). All three satisfy
// VirtualGraph, the `{initialize, upsert, close, match-triple,
// match-class, finalize, reorder, explain, aliases}` capability set
// spec §9's design notes describe.
package registry

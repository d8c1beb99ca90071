package config

import "time"

// Registry holds nameservice/lifecycle settings (spec §4.1, §6.4).
type Registry struct {
	DefaultBranch string `default:"main" debugmap:"visible"`
	ArtifactsRoot string `default:"virtual-graphs" debugmap:"visible"`
}

// Executor holds join-mode and concurrency settings (spec §4.6, §5).
type Executor struct {
	// Columnar selects the Arrow batch hash-join path over the default
	// row-oriented path (spec §4.6.2).
	Columnar bool `debugmap:"visible"`

	// CartesianCap bounds the fallback cross-join size (spec §4.6.1). The
	// spec notes a flag to disable the cap by setting it to nil exists in
	// the source this was distilled from, and that 100000 is "believed to
	// be" the production default but is unconfirmed (spec §9 open
	// questions) — we carry that default but keep the field nilable so
	// callers can opt into the unbounded behavior explicitly.
	CartesianCap *int `debugmap:"visible"`

	// NumWorkers is the scheduler thread-pool size backing blocking scans
	// (spec §5: "a distinct OS-thread pool (≥2 threads)").
	NumWorkers int `default:"2" debugmap:"visible"`

	// ChannelBuffer is carried in the configuration only: the row and
	// columnar executors do not read it and always create their output
	// channels with capacity 1 (spec §4.6.7 default).
	ChannelBuffer int `default:"1" debugmap:"visible"`

	// QueryTimeout is the per-operator monotonic deadline (spec §5).
	QueryTimeout time.Duration `default:"30s" debugmap:"visible"`
}

// Iceberg holds the default warehouse/catalog settings new Iceberg-typed
// VGs inherit unless overridden in their own config (spec §6.1).
type Iceberg struct {
	WarehousePath string `debugmap:"visible"`
	CatalogURI    string `debugmap:"hidden"`
}

// Server holds the admin HTTP surface's settings (spec §6, expansion —
// the VG lifecycle control plane needs a transport).
type Server struct {
	// ServerMode is "dev" (plain HTTP, debug gin) or "prod" (self-signed
	// TLS, release gin).
	ServerMode string `default:"dev" debugmap:"visible"`
	HTTPPort   int    `default:"8080" debugmap:"visible"`
}

// EngineConfig is the top-level configuration for a running engine
// instance.
type EngineConfig struct {
	Registry  Registry
	Executor  Executor
	Iceberg   Iceberg
	Server    Server
	LogLevel  string `default:"info" debugmap:"visible"`
	LogFormat string `default:"console" debugmap:"visible"`
}

// DefaultCartesianCap is the spec §4.6.1 default fallback cross-join
// bound.
const DefaultCartesianCap = 100000

func defaultCartesianCap() *int {
	v := DefaultCartesianCap
	return &v
}

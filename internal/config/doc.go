// Package config defines the engine-wide configuration structure for the
// virtual-graph engine.
//
// Configuration is organized into logical sections (Registry, Executor,
// Iceberg, Server) plus top-level LogLevel/LogFormat fields, and uses
// code generation via optgen to produce
// functional-option helpers.
//
// # Configuration Structure
//
//	EngineConfig
//	├── Registry  - nameservice + VG lifecycle settings
//	├── Executor  - join mode, cartesian cap, pipeline concurrency
//	├── Iceberg   - warehouse path / catalog defaults for the source adapter
//	├── Server    - admin HTTP surface mode/port
//	└── LogLevel / LogFormat
//
// # Registry Configuration
//
//	┌────────────────┬──────────────────┬────────────────────────────────────────┐
//	│ Field          │ Default          │ Description                            │
//	├────────────────┼──────────────────┼────────────────────────────────────────┤
//	│ DefaultBranch  │ "main"           │ Branch used when an alias omits one    │
//	│ ArtifactsRoot  │ "virtual-graphs" │ <root>/<alias>/ storage prefix         │
//	└────────────────┴──────────────────┴────────────────────────────────────────┘
//
// # Executor Configuration
//
//	┌────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field          │ Default │ Description                            │
//	├────────────────┼─────────┼────────────────────────────────────────┤
//	│ Columnar       │ false   │ Use Arrow batch hash joins when true    │
//	│ CartesianCap   │ 100000  │ Max fallback cross-join size; nil=∞     │
//	│ NumWorkers     │ 2       │ Scheduler threads for blocking scans    │
//	│ ChannelBuffer  │ 1       │ Not read; executor channels fixed at 1  │
//	└────────────────┴─────────┴────────────────────────────────────────┘
//
// # Code Generation
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.config.go . EngineConfig Registry Executor Iceberg Server
//
// Generated helpers include NewEngineConfigWithOptions(...),
// NewEngineConfigWithOptionsAndDefaults(...), WithRegistry(Registry),
// WithExecutor(Executor), and DebugMap() (respects `debugmap` tags so
// sensitive fields are not logged).
//
// # Usage
//
//	capLimit := 100000
//	cfg := config.NewEngineConfigWithOptionsAndDefaults(
//	    config.WithExecutor(config.Executor{
//	        CartesianCap: &capLimit,
//	        Columnar:     true,
//	    }),
//	    config.WithLogLevel("info"),
//	)
//	zap.S().Infow("engine configuration loaded", "config", cfg.DebugMap())
package config

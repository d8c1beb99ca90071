// Package server provides the admin HTTP surface's transport (spec §6
// expansion): a gin router exposing the VG registry's lifecycle
// operations, with two run modes.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────┐
//	│                     HTTP Server                      │
//	├─────────────────────────────────────────────────────┤
//	│  dev mode              prod mode                     │
//	│  HTTP :port            HTTPS :port, self-signed cert │
//	├─────────────────────────────────────────────────────┤
//	│  middlewares.RequestID (correlation ID stamping)      │
//	│  middlewares.Logger (zap request/response logging)   │
//	│  ginzap.RecoveryWithZap (panic recovery)              │
//	├─────────────────────────────────────────────────────┤
//	│  Router (/vgs ...), handlers registered via callback  │
//	└─────────────────────────────────────────────────────┘
//
// This is a lifecycle control-plane API, not the SPARQL/FQL query
// surface (the host engine owns that, out of scope per spec §1) and
// serves no static assets — unlike the teacher's migration UI, this
// engine has no companion SPA.
//
//	srv := server.New(cfg.Server, func(router *gin.RouterGroup) {
//	    handlers.Register(router, h)
//	})
//	go srv.Start(ctx)
//	...
//	srv.Stop(ctx)
package server

package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fluree/vg-engine/internal/config"
	"github.com/fluree/vg-engine/internal/middlewares"
	"github.com/fluree/vg-engine/pkg/certificates"
)

// RegisterFn wires the admin API's routes onto router.
type RegisterFn func(router *gin.RouterGroup)

// Server is the admin HTTP surface (spec §6 expansion).
type Server struct {
	cfg    config.Server
	engine *gin.Engine
	http   *http.Server
}

// New constructs a Server in the mode cfg.ServerMode selects ("dev" =
// plain HTTP, debug gin; anything else = HTTPS with a self-signed cert,
// release gin), registering routes under /vgs via register.
func New(cfg config.Server, register RegisterFn) *Server {
	dev := cfg.ServerMode == "dev"
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Logger())
	engine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	group := engine.Group("/")
	register(group)

	return &Server{
		cfg:    cfg,
		engine: engine,
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler: engine,
		},
	}
}

// Start blocks until the server stops or errors. It chooses HTTP or
// HTTPS based on cfg.ServerMode.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.ServerMode == "dev" {
		zap.S().Named("server").Infow("starting admin server (dev)", "addr", s.http.Addr)
		return s.http.ListenAndServe()
	}

	cert, err := certificates.SelfSigned("localhost")
	if err != nil {
		return fmt.Errorf("generating self-signed certificate: %w", err)
	}
	s.http.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}

	zap.S().Named("server").Infow("starting admin server (prod, TLS)", "addr", s.http.Addr)
	return s.http.ListenAndServeTLS("", "")
}

// Stop performs a graceful shutdown, waiting for in-flight requests to
// complete or ctx to expire.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

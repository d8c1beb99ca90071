package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fluree/vg-engine/internal/handlers"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/registry"
	"github.com/fluree/vg-engine/internal/server"
	"github.com/fluree/vg-engine/pkg/nameservice"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP surface and its VG registry",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.S().Infow("starting vgctl serve", "config", cfg.DebugMap())

	// No external nameservice is configured (spec §1: that backend is an
	// out-of-scope collaborator), so serve runs in the same standalone,
	// in-memory mode the CLI's registry tests use.
	ns := nameservice.NewInMemory()
	reg := registry.NewRegistry(ns, cfg.Registry)
	reg.RegisterType(models.VGTypeIceberg, registry.NewIcebergLoader(cfg.Executor), registry.ValidateIcebergConfig, nil, false)
	reg.RegisterType(models.VGTypeR2RML, registry.NewR2RMLLoader(cfg.Executor), registry.ValidateR2RMLConfig, nil, false)
	reg.RegisterType(models.VGTypeBM25, registry.NewBM25Loader(), registry.ValidateBM25Config, registry.ValidateBM25Dependencies, true)

	h := handlers.New(reg)
	srv := server.New(cfg.Server, func(router *gin.RouterGroup) {
		handlers.Register(router, h)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case <-ctx.Done():
		zap.S().Infow("shutdown signal received")
		return srv.Stop(context.Background())
	case err := <-errCh:
		return err
	}
}

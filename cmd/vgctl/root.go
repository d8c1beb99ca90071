package main

import (
	"fmt"
	"os"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fluree/vg-engine/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vgctl",
	Short: "Operate a virtual-graph federation engine",
	Long: `vgctl starts the admin HTTP surface that owns a VG registry
(serve), and drives one remotely (vg create / vg drop / vg list / vg
explain).`,
	// SyncViperPreRunE merges any VGCTL_-prefixed environment variable and
	// bound flag into viper before every subcommand runs.
	PersistentPreRunE: cobrautil.SyncViperPreRunE("vgctl"),
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./vgctl.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("registry-default-branch", "main", "branch appended to a bare VG name")
	rootCmd.PersistentFlags().String("registry-artifacts-root", "virtual-graphs", "artifact storage path prefix")
	rootCmd.PersistentFlags().Bool("executor-columnar", false, "use the Arrow batch hash-join path")
	rootCmd.PersistentFlags().Int("executor-num-workers", 2, "scheduler thread-pool size")
	rootCmd.PersistentFlags().Int("executor-cartesian-cap", config.DefaultCartesianCap, "fallback cross-join row cap (0 disables)")
	rootCmd.PersistentFlags().String("server-mode", "dev", "admin server mode (dev, prod)")
	rootCmd.PersistentFlags().Int("server-http-port", 8080, "admin server port")

	rootCmd.PersistentFlags().String("server-url", "http://localhost:8080", "admin server base URL (vg subcommands)")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"log-level":               "loglevel",
		"log-format":              "logformat",
		"registry-default-branch": "registry.defaultbranch",
		"registry-artifacts-root": "registry.artifactsroot",
		"executor-columnar":       "executor.columnar",
		"executor-num-workers":    "executor.numworkers",
		"executor-cartesian-cap":  "executor.cartesiancap",
		"server-mode":             "server.servermode",
		"server-http-port":        "server.httpport",
		"server-url":              "serverurl",
	})
}

// bindFlags binds each persistent flag in fs to its viper key, so
// environment variables, config file values, and flags all resolve
// through the same lookup.
func bindFlags(fs *pflag.FlagSet, byViperKey map[string]string) {
	for flagName, key := range byViperKey {
		_ = viper.BindPFlag(key, fs.Lookup(flagName))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("vgctl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VGCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "warning: failed to read config file: %v\n", err)
		}
	}
}

func loadEngineConfig() (*config.EngineConfig, error) {
	return config.Load(viper.GetViper())
}

func serverURL() string {
	return viper.GetString("serverurl")
}

func newLogger(cfg *config.EngineConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.LogFormat == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

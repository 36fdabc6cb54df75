package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/config"
	"github.com/abhisek/tbrite/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tbrite",
	Short: "Reading assessment analytics",
	Long: "T-BRITE scores reading assessments and reports skill rankings, student " +
		"improvement and reading time across pre-test and post-test phases.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger.Init(cfg.Log)
		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./tbrite.yaml or $XDG_CONFIG_HOME/tbrite/tbrite.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file path (overrides TBRITE_DB env var)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or postgres")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

type configKey struct{}

// currentConfig returns the configuration loaded by the root pre-run, or
// loads it when cmd runs outside the root command.
func currentConfig(cmd *cobra.Command) (*config.Config, error) {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg, nil
		}
	}
	return loadConfig(cmd)
}

// loadConfig reads the config file and environment, then applies flag
// overrides. Flags win over everything else.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB.DSN = v
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.DB.Driver = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

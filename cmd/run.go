package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/config"
	"github.com/abhisek/tbrite/internal/dashboard"
	"github.com/abhisek/tbrite/internal/logger"
	"github.com/abhisek/tbrite/internal/store"
)

// openStore resolves the DSN and opens the store. For SQLite an empty DSN
// means the default XDG path.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := currentConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	dsn := cfg.DB.DSN
	if cfg.DB.Driver == "" || strings.EqualFold(cfg.DB.Driver, store.DriverSQLite) {
		if dsn == "" {
			if dsn, err = store.DefaultDBPath(); err != nil {
				return nil, nil, fmt.Errorf("resolve DB path: %w", err)
			}
		} else if !strings.HasPrefix(dsn, "file:") {
			if err := store.EnsureDir(dsn); err != nil {
				return nil, nil, fmt.Errorf("resolve DB path: %w", err)
			}
		}
	}

	st, err := store.Open(cfg.DB.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	logger.Log.Debug("store opened", zap.String("driver", cfg.DB.Driver))
	return st, cfg, nil
}

// loadService opens a dashboard service with its first dataset loaded.
func loadService(cmd *cobra.Command, st *store.Store, cfg *config.Config) (*dashboard.Service, error) {
	svc := dashboard.New(st, logger.Log)
	svc.SnapshotKeep = cfg.Refresh.SnapshotKeep
	if err := svc.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return svc, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("test-type", "", "Phase: pre_test or post_test (default all)")
	cmd.Flags().String("quarter", "", "Only include this quarter")
	cmd.Flags().String("skill", "", "Only include this skill ID (\"unknown\" for unresolved)")
	cmd.Flags().String("material", "", "Only include this material ID")
}

func filterFromFlags(cmd *cobra.Command) (analytics.Filter, error) {
	raw, _ := cmd.Flags().GetString("test-type")
	t, ok := assessment.ParseTestType(raw)
	if !ok {
		return analytics.Filter{}, fmt.Errorf("unknown test type %q (want pre_test or post_test)", raw)
	}
	quarter, _ := cmd.Flags().GetString("quarter")
	skill, _ := cmd.Flags().GetString("skill")
	material, _ := cmd.Flags().GetString("material")
	return analytics.Filter{TestType: t, Quarter: quarter, SkillID: skill, MaterialID: material}, nil
}

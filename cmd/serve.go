package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/logger"
	"github.com/abhisek/tbrite/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cmd.Flags().Changed("refresh") {
			cfg.Refresh.Interval, _ = cmd.Flags().GetDuration("refresh")
		}

		svc, err := loadService(cmd, st, cfg)
		if err != nil {
			return err
		}
		if cfg.Refresh.Interval > 0 {
			if err := svc.StartScheduler(cfg.Refresh.Interval); err != nil {
				return err
			}
			defer svc.StopScheduler()
			logger.Log.Info("refresh scheduled", zap.Duration("interval", cfg.Refresh.Interval))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(svc, cfg.Server, logger.Log).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().Duration("refresh", 5*time.Minute, "Background refresh interval; 0 disables it")
}

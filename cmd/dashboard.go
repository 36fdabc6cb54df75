package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/app"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive analytics dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func runDashboard(cmd *cobra.Command) error {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := loadService(cmd, st, cfg)
	if err != nil {
		return err
	}
	return app.Run(svc)
}

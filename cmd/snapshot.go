package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/report"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record or show analytics snapshots",
}

var snapshotTakeCmd = &cobra.Command{
	Use:   "take",
	Short: "Store a snapshot of the current analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := loadService(cmd, st, cfg)
		if err != nil {
			return err
		}

		snap, err := svc.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "snapshot #%d at %s (%d submissions)\n",
			snap.Sequence, report.FormatDate(snap.Timestamp, ""), snap.Data.Submissions)
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := loadService(cmd, st, cfg)
		if err != nil {
			return err
		}

		snap, err := svc.LatestSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no snapshots yet")
			return nil
		}
		title := fmt.Sprintf("Snapshot #%d, %s", snap.Sequence, report.FormatDate(snap.Timestamp, ""))
		return printReport(cmd, report.SkillTable(title, snap.Data.Skills), snap.Data)
	},
}

func init() {
	addFormatFlag(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotTakeCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
}

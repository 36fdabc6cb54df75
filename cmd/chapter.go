package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tbrite/internal/assessment"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Show or change the active chapter and open phases",
}

var chapterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the chapter configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		cfg, err := st.ConfigRepo().Chapter(cmd.Context())
		if err != nil {
			return err
		}
		printChapter(cmd, cfg)
		return nil
	},
}

var chapterSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the chapter configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("active") && !flags.Changed("pre") && !flags.Changed("post") {
			return fmt.Errorf("nothing to change: pass --active, --pre or --post")
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.ConfigRepo()

		cfg, err := repo.Chapter(cmd.Context())
		if err != nil {
			return err
		}
		if flags.Changed("active") {
			cfg.ActiveChapter, _ = flags.GetString("active")
		}
		if flags.Changed("pre") {
			cfg.PreTestEnabled, _ = flags.GetBool("pre")
		}
		if flags.Changed("post") {
			cfg.PostTestEnabled, _ = flags.GetBool("post")
		}
		if err := repo.SetChapter(cmd.Context(), cfg); err != nil {
			return err
		}
		printChapter(cmd, cfg)
		return nil
	},
}

func printChapter(cmd *cobra.Command, cfg assessment.ChapterConfig) {
	active := cfg.ActiveChapter
	if active == "" {
		active = "(none)"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Active chapter: %s\n", active)
	fmt.Fprintf(out, "Pre-test:       %s\n", onOff(cfg.PreTestEnabled))
	fmt.Fprintf(out, "Post-test:      %s\n", onOff(cfg.PostTestEnabled))
}

func onOff(b bool) string {
	if b {
		return "open"
	}
	return "closed"
}

func init() {
	chapterSetCmd.Flags().String("active", "", "Active chapter ID")
	chapterSetCmd.Flags().Bool("pre", false, "Open or close the pre-test")
	chapterSetCmd.Flags().Bool("post", false, "Open or close the post-test")

	chapterCmd.AddCommand(chapterShowCmd)
	chapterCmd.AddCommand(chapterSetCmd)
}

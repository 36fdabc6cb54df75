package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/importer"
	"github.com/abhisek/tbrite/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>...",
	Short: "Import JSON exports of submissions, materials, skills, students, lessons or chapter config",
	Long: "Import JSON documents exported from the document store. The document kind is\n" +
		"inferred from the file name (submissions.json, materials.json, ...) unless --kind\n" +
		"is given. A directory imports every recognised file in dependency order.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		strict, _ := cmd.Flags().GetBool("strict")

		var kind importer.Kind
		if kindFlag != "" {
			k, ok := importer.ParseKind(kindFlag)
			if !ok {
				return fmt.Errorf("unknown kind %q", kindFlag)
			}
			kind = k
		}

		files, err := expandImportArgs(args)
		if err != nil {
			return err
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		im := importer.New(st, importer.Options{Strict: strict})
		out := cmd.OutOrStdout()
		var failed int
		for _, f := range files {
			res, err := im.ImportFile(cmd.Context(), kind, f)
			if err != nil {
				return fmt.Errorf("import %s: %w", f, err)
			}
			logger.Log.Info("import finished",
				zap.String("file", f),
				zap.String("kind", string(res.Kind)),
				zap.Int("imported", res.Imported),
				zap.Int("skipped", res.Skipped),
				zap.Int("invalid", res.Invalid),
			)
			fmt.Fprintf(out, "%s: %s %d/%d imported, %d skipped, %d invalid\n",
				f, res.Kind, res.Imported, res.Total, res.Skipped, res.Invalid)
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  error: %v\n", e)
			}
			failed += res.Invalid
		}
		if failed > 0 {
			return fmt.Errorf("%d invalid documents", failed)
		}
		return nil
	},
}

// expandImportArgs replaces directories with their recognised JSON files,
// ordered so referenced documents load first.
func expandImportArgs(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, a)
			continue
		}
		entries, err := filepath.Glob(filepath.Join(a, "*.json"))
		if err != nil {
			return nil, err
		}
		byKind := make(map[importer.Kind][]string)
		for _, e := range entries {
			if k, ok := importer.ParseKind(e); ok {
				byKind[k] = append(byKind[k], e)
			}
		}
		for _, k := range importer.AllKinds() {
			files = append(files, byKind[k]...)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no importable files found")
	}
	return files, nil
}

func init() {
	importCmd.Flags().String("kind", "", "Document kind (submissions, materials, skills, students, lessons, chapter)")
	importCmd.Flags().Bool("strict", false, "Abort on the first invalid document")
}

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/blob"
	"github.com/abhisek/tbrite/internal/config"
	"github.com/abhisek/tbrite/internal/dashboard"
	"github.com/abhisek/tbrite/internal/logger"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export submissions as CSV or every report as an XLSX workbook",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export scored submissions as CSV",
	RunE: exportRunner("csv", csvContentType, func(svc *dashboard.Service, f analytics.Filter, buf *bytes.Buffer) error {
		s, err := svc.CSV(f)
		if err != nil {
			return err
		}
		buf.WriteString(s)
		return nil
	}),
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Export all reports as an XLSX workbook",
	RunE: exportRunner("xlsx", xlsxContentType, func(svc *dashboard.Service, f analytics.Filter, buf *bytes.Buffer) error {
		return svc.XLSX(buf, f)
	}),
}

// exportRunner renders an artifact with build and writes it to --out (or
// stdout for CSV), then optionally uploads it to the blob store.
func exportRunner(ext, contentType string, build func(*dashboard.Service, analytics.Filter, *bytes.Buffer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")
		upload, _ := cmd.Flags().GetBool("upload")
		key, _ := cmd.Flags().GetString("key")
		if outPath == "" && ext == "xlsx" && !upload {
			outPath = "report.xlsx"
		}

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := loadService(cmd, st, cfg)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := build(svc, f, &buf); err != nil {
			return fmt.Errorf("build %s: %w", ext, err)
		}

		switch {
		case outPath != "":
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
		case !upload:
			if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return err
			}
		}

		if upload {
			if key == "" {
				key = exportKey(ext, time.Now())
			}
			loc, err := uploadArtifact(cmd, cfg.Blob, key, buf.Bytes(), contentType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "uploaded %s\n", loc)
		}
		return nil
	}
}

func exportKey(ext string, now time.Time) string {
	name := "submissions"
	if ext == "xlsx" {
		name = "report"
	}
	return fmt.Sprintf("tbrite/%s/%s-%s.%s", now.UTC().Format("2006-01-02"), name, now.UTC().Format("150405"), ext)
}

func uploadArtifact(cmd *cobra.Command, cfg config.BlobConfig, key string, data []byte, contentType string) (string, error) {
	bs, err := blob.New(cfg)
	if err != nil {
		return "", err
	}
	loc, err := bs.Put(cmd.Context(), key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	logger.Log.Info("artifact uploaded", zap.String("location", loc), zap.Int("bytes", len(data)))
	return loc, nil
}

func init() {
	for _, c := range []*cobra.Command{exportCSVCmd, exportXLSXCmd} {
		addFilterFlags(c)
		c.Flags().StringP("out", "o", "", "Output file (csv default: stdout, xlsx default: report.xlsx)")
		c.Flags().Bool("upload", false, "Upload the artifact to the configured blob store")
		c.Flags().String("key", "", "Object key for --upload (default: dated name)")
		exportCmd.AddCommand(c)
	}
}

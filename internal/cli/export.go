package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"happytummy/internal/service"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export accounts, families, children and logs to JSON",
		Long:  "Export account data to a JSON backup. Use --output - to write to stdout.",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringP("output", "o", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	db, _, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	backupService := service.NewBackupService(db)

	if outputPath == "-" {
		_, err := backupService.ExportToWriter(cmd.Context(), cmd.OutOrStdout())
		return err
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := backupService.Export(cmd.Context(), outputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fileInfo, err := os.Stat(outputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s (%.2f KB)\n", outputPath, float64(fileInfo.Size())/1024)
	return nil
}

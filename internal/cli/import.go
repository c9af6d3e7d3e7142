package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"happytummy/internal/service"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup",
		Long:  "Import a backup produced by export. Record ids are preserved, so --clear is needed to restore into a populated database.",
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}
	cmd.Flags().StringP("input", "i", "", "Input file path (required)")
	cmd.Flags().Bool("clear", false, "Delete existing account data before import (destructive)")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt for --clear")
	_ = cmd.MarkFlagRequired("input")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	clearData, _ := cmd.Flags().GetBool("clear")
	assumeYes, _ := cmd.Flags().GetBool("yes")

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	if clearData && !assumeYes {
		fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will delete all existing account data. Type 'yes' to confirm: ")
		confirmation, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(confirmation) != "yes" {
			return errors.New("import cancelled")
		}
	}

	db, _, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := service.NewBackupService(db).Import(cmd.Context(), inputPath, clearData); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Import complete")
	return nil
}

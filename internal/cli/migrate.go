package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	RootCmd.AddCommand(cmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, _, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.AppliedMigrations(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied (%s)\n", len(applied), db.GetDialect().DriverName())
	return nil
}

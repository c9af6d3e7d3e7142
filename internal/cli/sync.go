package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"happytummy/internal/nutrition"
	"happytummy/internal/repository"
	"happytummy/internal/service"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync-usda",
		Short: "Fill missing reference food nutrients from USDA FoodData Central",
		Long:  "Looks up every reference food with a missing nutrient and fills only the missing values. Requires USDA_API_KEY.",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	cmd.Flags().Duration("delay", 500*time.Millisecond, "Pause between remote requests")

	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	delay, _ := cmd.Flags().GetDuration("delay")

	db, cfg, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.RemoteNutritionEnabled() {
		return errors.New("USDA_API_KEY is not set")
	}

	client := nutrition.NewUSDAClient(cfg.USDABaseURL, cfg.USDAAPIKey, &http.Client{Timeout: cfg.NutritionTimeout})
	syncService := service.NewNutrientSyncService(repository.NewReferenceRepository(db), client)

	report, err := syncService.Sync(cmd.Context(), service.SyncOptions{DryRun: dryRun, Delay: delay})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	return encoder.Encode(map[string]any{"dryRun": dryRun, "report": report})
}

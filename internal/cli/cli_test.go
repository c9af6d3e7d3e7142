package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happytummy/internal/database"
	"happytummy/internal/models"
	"happytummy/internal/repository"
	"happytummy/internal/service"
)

// resetFlags restores every flag to its default, since cobra keeps values between executions
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useDatabase(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	t.Setenv("DB_TYPE", "modernc")
	t.Setenv("DB_PATH", path)
	t.Setenv("MIGRATIONS_PATH", "../../migrations")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("USDA_API_KEY", "")
	return path
}

func openTestDB(t *testing.T, path string) *database.DB {
	t.Helper()
	db, err := database.Open(database.NewModerncDialect(), database.DialectConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate(t *testing.T) {
	useDatabase(t, "migrate.db")

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	out, err = run(t, "", "migrate")
	require.NoError(t, err, "migrations are idempotent")
	assert.Contains(t, out, "sqlite")
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	sourcePath := useDatabase(t, "source.db")
	_, err := run(t, "", "migrate")
	require.NoError(t, err)

	source := openTestDB(t, sourcePath)
	user, err := repository.NewUserRepository(source).CreateUser(ctx, "parent@example.com", "hash", "Parent")
	require.NoError(t, err)
	family, err := repository.NewFamilyRepository(source).CreateFamily(ctx, "Parent's Family", "FAM12345", user.ID)
	require.NoError(t, err)
	child := &models.Child{FamilyID: family.ID, Name: "Mia", AgeMonths: 9}
	require.NoError(t, repository.NewChildRepository(source).CreateChild(ctx, child))
	require.NoError(t, repository.NewLogRepository(source).CreateLog(ctx, &models.DigestionLog{
		ChildID: child.ID, LogDate: "2026-10-19", StoolType: func() *int { v := 4; return &v }(),
		Foods: []models.LogFood{{FoodName: "Pear"}},
	}))

	backupPath := filepath.Join(t.TempDir(), "out", "backup.json")
	out, err := run(t, "", "export", "--output", backupPath)
	require.NoError(t, err)
	assert.Contains(t, out, backupPath)

	out, err = run(t, "", "export", "--output", "-")
	require.NoError(t, err)
	var backup service.BackupData
	require.NoError(t, json.Unmarshal([]byte(out), &backup))
	assert.Equal(t, service.BackupVersion, backup.Version)
	assert.Len(t, backup.Logs, 1)

	targetPath := useDatabase(t, "target.db")

	_, err = run(t, "no\n", "import", "--input", backupPath, "--clear")
	assert.EqualError(t, err, "import cancelled")

	_, err = run(t, "", "import", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	out, err = run(t, "yes\n", "import", "--input", backupPath, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Import complete")

	target := openTestDB(t, targetPath)
	restored, err := repository.NewUserRepository(target).GetUserByEmail(ctx, "parent@example.com")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, user.ID, restored.ID)

	logs, err := repository.NewLogRepository(target).ListLogs(ctx, child.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Pear", logs[0].Foods[0].FoodName)
}

func TestImportRequiresInput(t *testing.T) {
	useDatabase(t, "flags.db")
	_, err := run(t, "", "import")
	assert.Error(t, err)
}

func TestSyncUSDA(t *testing.T) {
	ctx := context.Background()
	path := useDatabase(t, "sync.db")

	_, err := run(t, "", "sync-usda")
	assert.EqualError(t, err, "USDA_API_KEY is not set")

	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{"fdcId":168153,"description":"Kiwifruit, green, raw","foodNutrients":[
			{"nutrientId":1008,"value":61},{"nutrientId":1079,"value":3},{"nutrientId":1003,"value":1.14},
			{"nutrientId":2000,"value":8.99},{"nutrientId":1051,"value":83.1}]}]}`))
	}))
	defer server.Close()

	db := openTestDB(t, path)
	_, err = db.ExecContext(ctx, "INSERT INTO reference_foods (category, name, quantity, unit) VALUES (?, ?, ?, ?)", "fruit", "Kiwi", 100.0, "g")
	require.NoError(t, err)

	t.Setenv("USDA_API_KEY", "test-key")
	t.Setenv("USDA_BASE_URL", server.URL)

	out, err := run(t, "", "sync-usda", "--dry-run", "--delay", "0s")
	require.NoError(t, err)
	var dry struct {
		DryRun bool               `json:"dryRun"`
		Report service.SyncReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dry))
	assert.True(t, dry.DryRun)
	assert.Equal(t, service.SyncReport{Checked: 1, Updated: 1}, dry.Report)

	_, err = run(t, "", "sync-usda", "--delay", "0s")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kiwi", "Kiwi"}, queries)

	foods, err := repository.NewReferenceRepository(db).MatchFoods(ctx, "kiwi", 5)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	require.NotNil(t, foods[0].Calories)
	assert.Equal(t, 61.0, *foods[0].Calories)
	assert.Equal(t, 83.1, *foods[0].Water)
}

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/activitylog"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/persist"
	"github.com/cleared-dev/tally/internal/storage"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, args...)
	require.NoError(t, err, "tally %s\nstderr: %s", strings.Join(args, " "), errOut)
	return out
}

// initLedger sets up a USD ledger with the starter categories.
func initLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out := mustRun(t, "init", dir, "--name", "Asha Rao", "--currency", "USD", "--starter", "--category", "Pets")
	require.Contains(t, out, "Initialized tally ledger")
	return dir
}

func loadState(t *testing.T, dir string) model.State {
	t.Helper()
	st, err := storage.NewFile(filepath.Join(dir, "data"))
	require.NoError(t, err)
	defer st.Close()
	s, err := persist.Load(context.Background(), st, model.DateOf(time.Now()))
	require.NoError(t, err)
	return s
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, "unexpected output %q", out)
	require.Equal(t, "Added", fields[0])
	return fields[1]
}

func TestInit_CreatesLedger(t *testing.T) {
	dir := initLedger(t)

	for _, p := range []string{"tally.yaml", ".gitignore", "import/.gitkeep"} {
		assert.FileExists(t, filepath.Join(dir, p))
	}
	for _, p := range []string{"logs", "import/processed"} {
		assert.DirExists(t, filepath.Join(dir, p))
	}

	s := loadState(t, dir)
	assert.True(t, s.UI.IsSetupComplete)
	assert.Equal(t, "Asha Rao", s.Preferences.Name)
	assert.Equal(t, "USD", s.Preferences.Currency)
	assert.Len(t, s.Categories, 9)

	_, _, err := run(t, "init", dir, "--name", "Again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already set up")
}

func TestInit_RequiresName(t *testing.T) {
	_, _, err := run(t, "init", t.TempDir())
	require.Error(t, err)
}

func TestTx_Lifecycle(t *testing.T) {
	dir := initLedger(t)

	out := mustRun(t, "tx", "add", "Lunch", "--repo", dir, "--amount", "12.50",
		"--date", "2025-09-05", "--category", "Food", "--method", "Cash")
	id := addedID(t, out)
	assert.Contains(t, out, "$12.50")

	mustRun(t, "tx", "add", "--repo", dir, "--title", "Salary", "--type", "income",
		"--amount", "3000", "--date", "2025-09-01")

	list := mustRun(t, "tx", "list", "--repo", dir, "--month", "2025-09")
	assert.Contains(t, list, "Lunch")
	assert.Contains(t, list, "Salary")
	assert.Contains(t, list, "05/09/2025")
	assert.Less(t, strings.Index(list, "Lunch"), strings.Index(list, "Salary"), "newest first")

	list = mustRun(t, "tx", "list", "--repo", dir, "--type", "income")
	assert.NotContains(t, list, "Lunch")

	mustRun(t, "tx", "update", id, "--repo", dir, "--amount", "15", "--title", "Team lunch")
	s := loadState(t, dir)
	i := s.FindTransaction(model.ID(id))
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Team lunch", s.Transactions[i].Title)
	assert.Equal(t, "15", s.Transactions[i].Amount.String())

	out = mustRun(t, "tx", "delete", id, "--repo", dir)
	assert.Contains(t, out, "Deleted 1 transaction(s)")
	s = loadState(t, dir)
	assert.Len(t, s.Transactions, 1)
}

func TestTx_Rejected(t *testing.T) {
	dir := initLedger(t)

	_, _, err := run(t, "tx", "add", "--repo", dir, "--amount", "-4")
	require.Error(t, err)

	_, _, err = run(t, "tx", "add", "--repo", dir, "--amount", "4", "--category", "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "Nope"`)

	_, _, err = run(t, "tx", "update", "missing", "--repo", dir, "--amount", "4")
	require.Error(t, err)

	entries, err := activitylog.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "updateTransaction", last.Action)
	assert.Equal(t, activitylog.OutcomeRejected, last.Outcome)
	assert.NotEmpty(t, last.Details)
}

func TestCategoryCommands(t *testing.T) {
	dir := initLedger(t)

	out := mustRun(t, "category", "add", "Travel", "--repo", dir)
	assert.Contains(t, out, "Added category")

	mustRun(t, "category", "update", "Travel", "--repo", dir, "--budget", "200", "--icon", "✈️")
	list := mustRun(t, "category", "list", "--repo", dir)
	assert.Contains(t, list, "Travel")
	assert.Contains(t, list, "$200.00")

	_, _, err := run(t, "category", "delete", string(model.Uncategorized), "--repo", dir)
	require.Error(t, err)

	mustRun(t, "category", "delete", "Travel", "--repo", dir)
	list = mustRun(t, "category", "list", "--repo", dir)
	assert.NotContains(t, list, "Travel")
}

func TestBudget_AlertsOnStderr(t *testing.T) {
	dir := initLedger(t)

	out := mustRun(t, "budget", "set", "--repo", dir, "--monthly", "100", "--alerts")
	assert.Contains(t, out, "Budget $100.00")

	stdout, stderr, err := run(t, "tx", "add", "Groceries", "--repo", dir, "--amount", "85")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added")
	assert.Contains(t, stderr, "warning: You have used 85% of your monthly budget")

	_, stderr, err = run(t, "tx", "add", "Dinner", "--repo", dir, "--amount", "20")
	require.NoError(t, err)
	assert.Contains(t, stderr, "error: You have exceeded your monthly budget")

	show := mustRun(t, "budget", "show", "--repo", dir)
	assert.Contains(t, show, "$105.00")

	notes := mustRun(t, "notifications", "list", "--repo", dir, "--unread")
	assert.Contains(t, notes, "exceeded")
	mustRun(t, "notifications", "read", "--repo", dir)
	s := loadState(t, dir)
	for _, n := range s.Notifications {
		assert.True(t, n.Read)
	}
}

func TestReport(t *testing.T) {
	dir := initLedger(t)
	mustRun(t, "tx", "add", "Groceries", "--repo", dir, "--amount", "40", "--date", "2025-09-02", "--category", "Food")
	mustRun(t, "tx", "add", "Bus", "--repo", dir, "--amount", "10", "--date", "2025-09-03", "--category", "Transportation")

	out := mustRun(t, "report", "--repo", dir, "--month", "2025-09", "--as-of", "2025-09-10")
	assert.Contains(t, out, "Report for September 2025")
	assert.Contains(t, out, "$50.00")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "80.0%")

	out = mustRun(t, "report", "--repo", dir, "--month", "2025-09", "--as-of", "2025-09-10", "--json")
	assert.Contains(t, out, `"year": 2025`)
	assert.Contains(t, out, `"share": 80`)

	_, _, err := run(t, "report", "--repo", dir, "--month", "September")
	require.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := initLedger(t)
	mustRun(t, "tx", "add", "Vet", "--repo", src, "--amount", "80", "--date", "2025-09-04", "--category", "Pets")
	mustRun(t, "tx", "add", "Books", "--repo", src, "--amount", "25", "--date", "2025-09-06", "--category", "Education")

	backup := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "--repo", src, "--output", backup)
	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"exportDate"`)

	dst := t.TempDir()
	mustRun(t, "init", dst, "--name", "Other")
	out := mustRun(t, "import", backup, "--repo", dst)
	assert.Contains(t, out, "Imported 2 transactions")

	s := loadState(t, dst)
	assert.Len(t, s.Transactions, 2)
	assert.Equal(t, "Other", s.Preferences.Name, "preferences untouched without --with-preferences")
	for _, tx := range s.Transactions {
		c := s.FindCategory(tx.Category)
		require.GreaterOrEqual(t, c, 0)
		assert.Contains(t, []string{"Pets", "Education"}, s.Categories[c].Name)
	}

	csvPath := filepath.Join(t.TempDir(), "tx.csv")
	mustRun(t, "export", "--repo", src, "--format", "csv", "--output", csvPath)
	third := initLedger(t)
	out = mustRun(t, "import", csvPath, "--repo", third)
	assert.Contains(t, out, "Imported 2 transactions")

	_, _, err = run(t, "export", "--repo", src, "--format", "xml")
	require.Error(t, err)
}

func TestImport_WithPreferences(t *testing.T) {
	src := initLedger(t)
	backup := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "--repo", src, "--output", backup, "--minimal")

	dst := t.TempDir()
	mustRun(t, "init", dst, "--name", "Other")
	mustRun(t, "import", backup, "--repo", dst, "--with-preferences")

	s := loadState(t, dst)
	assert.Equal(t, "Asha Rao", s.Preferences.Name)
	assert.Equal(t, "USD", s.Preferences.Currency)
}

func TestImport_Inbox(t *testing.T) {
	dir := initLedger(t)
	data, err := os.ReadFile(filepath.Join("..", "importer", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "chase.csv"), data, 0o644))

	out := mustRun(t, "import", "--repo", dir, "--inbox", "--format", "chase")
	assert.Contains(t, out, "Imported 6 transactions")
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "chase.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "import", "chase.csv"))

	s := loadState(t, dir)
	assert.Len(t, s.Transactions, 6)

	out = mustRun(t, "import", "--repo", dir, "--inbox")
	assert.Contains(t, out, "Nothing to import")
}

func TestReset(t *testing.T) {
	dir := initLedger(t)
	mustRun(t, "tx", "add", "Lunch", "--repo", dir, "--amount", "9")

	_, _, err := run(t, "reset", "--repo", dir)
	require.Error(t, err)
	assert.Len(t, loadState(t, dir).Transactions, 1)

	mustRun(t, "reset", "--repo", dir, "--yes")
	s := loadState(t, dir)
	assert.Empty(t, s.Transactions)
	assert.False(t, s.UI.IsSetupComplete)
	assert.Equal(t, "Asha Rao", s.Preferences.Name)

	mustRun(t, "init", "--repo", dir, "--name", "Asha Rao")
	mustRun(t, "reset", "--repo", dir, "--yes", "--hard")
	s = loadState(t, dir)
	assert.Empty(t, s.Preferences.Name)
}

func TestActivityLogCommand(t *testing.T) {
	dir := initLedger(t)
	mustRun(t, "tx", "add", "Lunch", "--repo", dir, "--amount", "9")
	mustRun(t, "refresh", "--repo", dir)

	out := mustRun(t, "log", "--repo", dir)
	assert.Contains(t, out, "completeSetup")
	assert.Contains(t, out, "addTransaction")
	assert.Contains(t, out, "refreshAnalytics")

	out = mustRun(t, "log", "--repo", dir, "-n", "1")
	assert.NotContains(t, out, "completeSetup")
}

func TestActivityLog_Disabled(t *testing.T) {
	dir := initLedger(t)
	require.NoError(t, os.Remove(activitylog.Path(dir)))
	t.Setenv("TALLY_ACTIVITY_LOG", "false")

	mustRun(t, "tx", "add", "Lunch", "--repo", dir, "--amount", "9")
	assert.NoFileExists(t, activitylog.Path(dir))
}

func TestInvalidConfig(t *testing.T) {
	dir := initLedger(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.yaml"), []byte("storage:\n  backend: floppy\n"), 0o644))

	_, _, err := run(t, "tx", "list", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestGoalsAndPreferences(t *testing.T) {
	dir := initLedger(t)

	out := mustRun(t, "goal", "add", "--repo", dir, "name=Emergency fund", "target=5000")
	assert.Contains(t, out, "Added goal")
	s := loadState(t, dir)
	require.Len(t, s.Goals, 1)
	assert.Equal(t, "Emergency fund", s.Goals[0].Fields["name"])

	mustRun(t, "prefs", "set", "--repo", dir, "--theme", "dark")
	assert.Equal(t, "dark", loadState(t, dir).Preferences.Theme)

	out = mustRun(t, "prefs", "show", "--repo", dir)
	assert.Contains(t, out, "dark")
}

func TestCategory_ExportImport(t *testing.T) {
	src := initLedger(t)
	csvText := mustRun(t, "category", "export", "--repo", src)
	assert.True(t, strings.HasPrefix(csvText, "id,name,icon,color,budget,description\n"))
	assert.Contains(t, csvText, "Pets")

	path := filepath.Join(t.TempDir(), "categories.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvText), 0o644))

	dst := t.TempDir()
	mustRun(t, "init", dst, "--name", "Other", "--category", "Pets")
	out := mustRun(t, "category", "import", path, "--repo", dst)
	assert.Contains(t, out, "Added 8 categories")
	assert.Len(t, loadState(t, dst).Categories, 9)
}

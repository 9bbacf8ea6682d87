package persist

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
)

func TestExport_Sections(t *testing.T) {
	s := populated(t)

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, Export(s, now, ExportOptions{})))
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &top))
	for _, k := range []string{"preferences", "categories", "budget", "exportDate"} {
		assert.Contains(t, top, k)
	}
	for _, k := range []string{"transactions", "goals", "analytics", "ui"} {
		assert.NotContains(t, top, k)
	}

	buf.Reset()
	require.NoError(t, WriteExport(&buf, Export(s, now, FullExport)))
	top = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &top))
	for _, k := range []string{"transactions", "goals", "analytics", "ui"} {
		assert.Contains(t, top, k)
	}
}

func TestExportImport_IntoFreshLedger(t *testing.T) {
	s := populated(t)
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, Export(s, now, FullExport)))

	imp, err := ParseImport(&buf)
	require.NoError(t, err)
	require.NotNil(t, imp.Preferences)
	assert.Equal(t, "Asha Rao", *imp.Preferences.Name)
	assert.Len(t, imp.Goals, 1)

	out, err := reducer.Apply(model.Fresh(), testEnv(), imp.Data, reducer.UpdatePreferences{Patch: *imp.Preferences})
	require.NoError(t, err)
	assert.Len(t, out.Transactions, len(s.Transactions))
	assert.Len(t, out.Categories, len(s.Categories))
	assert.True(t, out.Budget.Spent.Equal(s.Budget.Spent))
	assert.True(t, out.Budget.MonthlyLimit.Equal(dec("1000")))
	assert.Equal(t, "USD", out.Preferences.Currency)
}

func TestParseImport_LegacyAliases(t *testing.T) {
	raw := `{
		"user": {"name": "Ravi", "monthlyIncome": "50000", "theme": 3},
		"settings": {"monthlyLimit": 2000, "alertsEnabled": true},
		"categories": [{"id": "xFood", "name": "Food", "budget": 0}],
		"transactions": [{"id": "t1", "type": "expense", "amount": "40", "date": "2025-09-03",
			"category": "xFood", "title": "Tea", "timestamp": "2025-09-03T08:00:00Z"}],
		"analytics": {"currentMonth": {"totalExpenses": 99999}}
	}`
	imp, err := ParseImport(strings.NewReader(raw))
	require.NoError(t, err)

	require.NotNil(t, imp.Preferences)
	assert.Equal(t, "Ravi", *imp.Preferences.Name)
	assert.Nil(t, imp.Preferences.Theme)
	assert.True(t, imp.Preferences.MonthlyIncome.Equal(dec("50000")))

	require.NotNil(t, imp.Data.Budget)
	assert.True(t, imp.Data.Budget.MonthlyLimit.Equal(dec("2000")))
	assert.Nil(t, imp.Data.Budget.WeeklyLimit)

	out, err := reducer.Apply(model.Fresh(), testEnv(), imp.Data)
	require.NoError(t, err)
	assert.True(t, out.Analytics.CurrentMonth.TotalExpenses.Equal(dec("40")))
	assert.True(t, out.Budget.Remaining.Equal(dec("1960")))
}

func TestParseImport_PrefersCurrentKeys(t *testing.T) {
	raw := `{"preferences": {"name": "New"}, "user": {"name": "Old"},
		"budget": {"monthlyLimit": 10}, "settings": {"monthlyLimit": 20}}`
	imp, err := ParseImport(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "New", *imp.Preferences.Name)
	assert.True(t, imp.Data.Budget.MonthlyLimit.Equal(dec("10")))
}

func TestParseImport_Empty(t *testing.T) {
	imp, err := ParseImport(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Nil(t, imp.Preferences)
	assert.Nil(t, imp.Data.Budget)
	assert.Empty(t, imp.Data.Transactions)
}

func TestParseImport_Errors(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"transactions": {}}`,
		`{"budget": {"monthlyLimit": "abc"}}`,
		`{"user": {"monthlyIncome": "lots"}}`,
	} {
		_, err := ParseImport(strings.NewReader(raw))
		assert.Error(t, err, raw)
	}
}

package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func chaseFixture(t *testing.T) []model.Transaction {
	t.Helper()
	f, err := os.Open("testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Parse(t *testing.T) {
	txns := chaseFixture(t)
	require.Len(t, txns, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", txns[0].Title)
	assert.Equal(t, "4.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, model.TypeExpense, txns[0].Type)
	assert.Equal(t, model.NewDate(2025, time.January, 3), txns[0].Date)
	assert.Equal(t, model.Uncategorized, txns[0].Category)
	assert.Empty(t, txns[0].ID)

	// Fourth: ACME income
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Title)
	assert.Equal(t, model.TypeIncome, txns[3].Type)
	assert.Equal(t, "3500.00", txns[3].Amount.StringFixed(2))
	assert.Equal(t, model.PaymentIncome, txns[3].PaymentMethod)
}

func TestChaseParser_AmountsArePositive(t *testing.T) {
	for _, txn := range chaseFixture(t) {
		assert.True(t, txn.Amount.IsPositive(), "amount for %s", txn.Title)
		if txn.Title == "ACME CONSULTING INVOICE 1042" {
			assert.Equal(t, model.TypeIncome, txn.Type)
		} else {
			assert.Equal(t, model.TypeExpense, txn.Type, txn.Title)
		}
	}
}

func TestChaseParser_PaymentMethods(t *testing.T) {
	txns := chaseFixture(t)
	assert.Equal(t, model.PaymentNetBanking, txns[0].PaymentMethod)
	assert.Equal(t, model.PaymentDebitCard, txns[1].PaymentMethod)
	assert.Equal(t, model.PaymentCash, txns[4].PaymentMethod)
}

func TestChaseParser_Reference(t *testing.T) {
	txns := chaseFixture(t)
	assert.Equal(t, "chase_20250103_GITHUBPROS", txns[0].Notes)
	assert.Equal(t, model.NewDate(2025, time.January, 22), txns[5].Date)
}

func TestChaseParser_EmptyFile(t *testing.T) {
	txns, err := (&ChaseParser{}).Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestChaseParser_BadRows(t *testing.T) {
	const header = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,", "parsing date"},
		{"bad amount", "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,", "parsing amount"},
		{"zero amount", "DEBIT,01/03/2025,desc,0.00,ACH_DEBIT,100.00,", "zero amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(header + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "row 2")
		})
	}
}

func TestTally_WriteThenParse(t *testing.T) {
	ts := time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC)
	cats := categories.NewIndex([]model.Category{{ID: "c1", Name: "Food"}})
	txns := []model.Transaction{
		{ID: "t1", Type: model.TypeExpense, Amount: dec("12.5"), Date: model.NewDate(2025, 9, 1),
			Category: "c1", Title: "Lunch, with team", PaymentMethod: model.PaymentUPI, Timestamp: ts},
		{ID: "t2", Type: model.TypeIncome, Amount: dec("2000"), Date: model.NewDate(2025, 9, 2),
			Category: model.Uncategorized, Title: "Salary", Notes: "September"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns, cats))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, `t1,2025-09-01,expense,12.50,Food,"Lunch, with team",UPI,,2025-09-01T09:30:00Z`, lines[1])

	got, err := (&TallyParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ID("Food"), got[0].Category, "names are resolved by the import action")
	assert.True(t, got[0].Amount.Equal(dec("12.50")))
	assert.True(t, got[0].Timestamp.Equal(ts))
	assert.Equal(t, model.Uncategorized, got[1].Category)
	assert.Equal(t, "September", got[1].Notes)
	assert.True(t, got[1].Timestamp.IsZero())
}

func TestUnmarshalTransaction(t *testing.T) {
	row := func(cells ...string) []string { return cells }
	tests := []struct {
		name    string
		record  []string
		wantErr string
	}{
		{"default type", row("", "2025-09-03", "", "40", "", "Tea", "", "", ""), ""},
		{"field count", row("a", "b"), "expected 9 fields"},
		{"bad type", row("", "2025-09-03", "refund", "40", "", "Tea", "", "", ""), "parsing type"},
		{"bad date", row("", "03/09/2025", "expense", "40", "", "Tea", "", "", ""), "parsing date"},
		{"negative amount", row("", "2025-09-03", "expense", "-40", "", "Tea", "", "", ""), "parsing amount"},
		{"bad timestamp", row("", "2025-09-03", "expense", "40", "", "Tea", "", "", "soon"), "parsing timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalTransaction(tt.record)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.TypeExpense, got.Type)
			assert.Equal(t, model.Uncategorized, got.Category)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("chase"))

	r.Register(&ChaseParser{})
	require.NotNil(t, r.Get("CHASE"))
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })

	d := DefaultRegistry()
	assert.Equal(t, []string{"chase", "tally"}, d.Formats())
	assert.Equal(t, "tally", d.Get("Tally").Format())
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(importDir, "processed"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "processed", "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bank.CSV", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)

	assert.Error(t, MarkProcessed(dir, "missing.csv"))
}

func TestMarkProcessed_KeepsEarlierFile(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(importDir, "processed"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "processed", "bank.csv"), []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("second"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	first, err := os.ReadFile(filepath.Join(importDir, "processed", "bank.csv"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
	second, err := os.ReadFile(filepath.Join(importDir, "processed", "bank-2.csv"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(second))
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2025-09-01", Date{2025, time.September, 1}},
		{" 2024-02-29 ", Date{2024, time.February, 29}},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, "ParseDate(%q)", tt.in)
	}

	_, err := ParseDate("09/01/2025")
	assert.Error(t, err)
}

func TestParseDate_Timestamp(t *testing.T) {
	ts := time.Date(2025, 9, 3, 12, 0, 0, 0, time.Local)
	got, err := ParseDate(ts.Format(time.RFC3339))
	require.NoError(t, err)
	assert.Equal(t, Date{2025, time.September, 3}, got)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 30, DaysIn(2025, time.September))
	assert.Equal(t, 31, DaysIn(2025, time.December))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2025, time.February))
}

func TestDateOrderingAndMonths(t *testing.T) {
	a := NewDate(2025, time.January, 31)
	b := NewDate(2025, time.February, 1)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))

	assert.Equal(t, NewDate(2024, time.December, 1), a.AddMonths(-1))
	assert.Equal(t, NewDate(2026, time.January, 1), NewDate(2025, time.December, 15).AddMonths(1))
	assert.True(t, a.In(2025, time.January))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}
	b, err := json.Marshal(wrapper{D: NewDate(2025, time.March, 7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-03-07"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-12-31"}`), &w))
	assert.Equal(t, Date{2025, time.December, 31}, w.D)
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[1726000000000, "c17", null]`), &ids))
	assert.Equal(t, []ID{"1726000000000", "c17", ""}, ids)
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("12.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	d, err = ParseAmount("12,50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	for _, bad := range []string{"", "0", "0.00", "-5", "+5", "abc", "1.2.3"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "ParseAmount(%q)", bad)
	}
}

func TestGoalJSONKeepsFields(t *testing.T) {
	var g Goal
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"title":"Laptop","target":90000}`), &g))
	assert.Equal(t, ID("42"), g.ID)
	assert.Equal(t, "Laptop", g.Fields["title"])
	assert.NotContains(t, g.Fields, "id")

	b, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"42","title":"Laptop","target":90000}`, string(b))
}

func TestCloneIsIndependent(t *testing.T) {
	s := Fresh()
	s.Transactions = append(s.Transactions, Transaction{ID: "t1", Title: "Lunch"})
	s.Goals = append(s.Goals, Goal{ID: "g1", Fields: map[string]any{"title": "Trip"}})

	c := s.Clone()
	c.Transactions[0].Title = "Dinner"
	c.Goals[0].Fields["title"] = "Car"

	assert.Equal(t, "Lunch", s.Transactions[0].Title)
	assert.Equal(t, "Trip", s.Goals[0].Fields["title"])
}

func TestNormalizeFillsArrays(t *testing.T) {
	var s State
	s.Normalize()
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"transactions", "categories", "notifications", "goals"} {
		assert.Equal(t, "[]", string(raw[key]), key)
	}
}

func TestCurrencySymbolAndInitials(t *testing.T) {
	assert.Equal(t, "₹", CurrencySymbol("INR"))
	assert.Equal(t, "$", CurrencySymbol("usd"))
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "₹", CurrencySymbol("GBP"))

	assert.Equal(t, "AL", Initials("ada lovelace"))
	assert.Equal(t, "G", Initials("Grace"))
	assert.Equal(t, "", Initials("  "))
}

func TestUIModal(t *testing.T) {
	ui := DefaultUIState()
	p := ui.Modal(ModalBudget)
	require.NotNil(t, p)
	*p = true
	assert.True(t, ui.ShowBudgetModal)
	assert.Nil(t, ui.Modal("showNothing"))
}

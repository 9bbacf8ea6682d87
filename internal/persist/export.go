package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
)

// ExportFile is the user-facing backup document.
type ExportFile struct {
	Preferences  model.Preferences   `json:"preferences"`
	Categories   []model.Category    `json:"categories"`
	Budget       model.Budget        `json:"budget"`
	ExportDate   time.Time           `json:"exportDate"`
	Transactions []model.Transaction `json:"transactions,omitempty"`
	Goals        []model.Goal        `json:"goals,omitempty"`
	Analytics    *model.Analytics    `json:"analytics,omitempty"`
	UI           *model.UIState      `json:"ui,omitempty"`
}

// ExportOptions selects the optional sections of an export.
type ExportOptions struct {
	Transactions bool
	Goals        bool
	Analytics    bool
	UI           bool
}

// FullExport includes every optional section.
var FullExport = ExportOptions{Transactions: true, Goals: true, Analytics: true, UI: true}

// Export builds the backup document for s.
func Export(s model.State, now time.Time, opts ExportOptions) ExportFile {
	s = s.Clone()
	s.Normalize()
	f := ExportFile{
		Preferences: s.Preferences,
		Categories:  s.Categories,
		Budget:      s.Budget,
		ExportDate:  now,
	}
	if opts.Transactions {
		f.Transactions = s.Transactions
	}
	if opts.Goals {
		f.Goals = s.Goals
	}
	if opts.Analytics {
		f.Analytics = &s.Analytics
	}
	if opts.UI {
		f.UI = &s.UI
	}
	return f
}

// WriteExport writes f as indented JSON.
func WriteExport(w io.Writer, f ExportFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Import is a parsed backup document. Data is ready to dispatch;
// Preferences and Goals are only applied when the caller asks for them.
type Import struct {
	Data        reducer.ImportData
	Preferences *reducer.PreferencesPatch
	Goals       []model.Goal
}

// ParseImport reads an export file. It also accepts the older layout that
// stored preferences under "user" and the budget under "settings". Any
// analytics section is ignored.
func ParseImport(r io.Reader) (Import, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return Import{}, fmt.Errorf("reading import: %w", err)
	}

	var out Import
	if raw, ok := top["transactions"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Data.Transactions); err != nil {
			return Import{}, fmt.Errorf("reading import transactions: %w", err)
		}
	}
	if raw, ok := top["categories"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Data.Categories); err != nil {
			return Import{}, fmt.Errorf("reading import categories: %w", err)
		}
	}
	if raw, ok := firstOf(top, "budget", "settings"); ok {
		var b reducer.BudgetPatch
		if err := json.Unmarshal(raw, &b); err != nil {
			return Import{}, fmt.Errorf("reading import budget: %w", err)
		}
		out.Data.Budget = &b
	}
	if raw, ok := firstOf(top, "preferences", "user"); ok {
		p, err := preferencesPatch(raw)
		if err != nil {
			return Import{}, err
		}
		out.Preferences = &p
	}
	if raw, ok := top["goals"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Goals); err != nil {
			return Import{}, fmt.Errorf("reading import goals: %w", err)
		}
	}
	return out, nil
}

func firstOf(top map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := top[k]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// preferencesPatch reads a preferences object leniently: only string fields
// are taken, and monthlyIncome may be a number or a numeric string.
func preferencesPatch(raw json.RawMessage) (reducer.PreferencesPatch, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return reducer.PreferencesPatch{}, fmt.Errorf("reading import preferences: %w", err)
	}
	str := func(k string) *string {
		if v, ok := m[k].(string); ok {
			return &v
		}
		return nil
	}
	p := reducer.PreferencesPatch{
		Name:       str("name"),
		Email:      str("email"),
		Initials:   str("initials"),
		Theme:      str("theme"),
		Currency:   str("currency"),
		Language:   str("language"),
		DateFormat: str("dateFormat"),
		Timezone:   str("timezone"),
	}
	switch v := m["monthlyIncome"].(type) {
	case float64:
		d := decimal.NewFromFloat(v)
		p.MonthlyIncome = &d
	case string:
		if strings.TrimSpace(v) != "" {
			d, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return reducer.PreferencesPatch{}, fmt.Errorf("reading import preferences: monthlyIncome: %w", err)
			}
			p.MonthlyIncome = &d
		}
	}
	return p, nil
}

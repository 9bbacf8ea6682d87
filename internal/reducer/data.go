package reducer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/colors"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// CompleteSetup commits the first-run wizard: profile, monthly limit and
// the chosen categories.
type CompleteSetup struct {
	Profile      PreferencesPatch
	MonthlyLimit *decimal.Decimal
	Categories   []AddCategory
}

func (CompleteSetup) Kind() string { return "completeSetup" }

func (a CompleteSetup) Apply(s model.State, env Env) (model.State, error) {
	prefs, err := a.Profile.merge(s.Preferences)
	if err != nil {
		return s, err
	}
	if a.MonthlyLimit != nil && a.MonthlyLimit.IsNegative() {
		return s, ValidationError{Field: "monthlyLimit", Description: "must not be negative"}
	}

	out := s.Clone()
	out.Preferences = prefs
	if a.MonthlyLimit != nil {
		out.Budget.MonthlyLimit = *a.MonthlyLimit
	}
	for _, ac := range a.Categories {
		c := model.Category{
			Name:        strings.TrimSpace(ac.Name),
			Icon:        ac.Icon,
			Color:       ac.Color,
			Budget:      ac.Budget,
			Description: ac.Description,
		}
		if validateCategory(c, out.Categories, "") != nil {
			continue
		}
		out.Categories = appendCategory(out.Categories, c, env)
	}
	out.UI.IsSetupComplete = true
	return recompute(out, env), nil
}

// ResetAllData restores a fresh ledger but keeps the preferences.
type ResetAllData struct{}

func (ResetAllData) Kind() string        { return "resetAllData" }
func (ResetAllData) ClearsStorage() bool { return true }

func (ResetAllData) Apply(s model.State, env Env) (model.State, error) {
	out := model.Fresh()
	out.Preferences = s.Preferences
	return recompute(out, env), nil
}

// ForceFreshStart restores a fresh ledger unconditionally.
type ForceFreshStart struct{}

func (ForceFreshStart) Kind() string        { return "forceFreshStart" }
func (ForceFreshStart) ClearsStorage() bool { return true }

func (ForceFreshStart) Apply(_ model.State, env Env) (model.State, error) {
	return recompute(model.Fresh(), env), nil
}

// RefreshAnalytics recomputes every derived mirror from the transactions.
type RefreshAnalytics struct{}

func (RefreshAnalytics) Kind() string { return "refreshAnalytics" }

func (RefreshAnalytics) Apply(s model.State, env Env) (model.State, error) {
	return recompute(s.Clone(), env), nil
}

// ImportData merges outside data into the ledger. Transactions are
// appended; categories merge by name; the budget patch is merged field by
// field. Category references on imported transactions may be an imported
// category id, a live id or a category name; anything else becomes
// Uncategorized.
type ImportData struct {
	Transactions []model.Transaction
	Categories   []model.Category
	Budget       *BudgetPatch
}

func (ImportData) Kind() string { return "importData" }

func (a ImportData) Apply(s model.State, env Env) (model.State, error) {
	if a.Budget != nil {
		if err := a.Budget.validate(); err != nil {
			return s, err
		}
	}

	out := s.Clone()
	remap := make(map[model.ID]model.ID, len(a.Categories))
	added := 0
	for _, c := range a.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		if model.ID(c.Name) == model.Uncategorized {
			remap[c.ID] = model.Uncategorized
			continue
		}
		if i := findCategoryByName(out.Categories, c.Name); i >= 0 {
			if c.ID != "" {
				remap[c.ID] = out.Categories[i].ID
			}
			continue
		}
		oldID := c.ID
		if c.ID == "" || c.ID == model.Uncategorized || out.FindCategory(c.ID) >= 0 {
			c.ID = env.newID()
		}
		if !colors.Valid(c.Color) || colorTaken(out.Categories, c.Color) {
			c.Color = ""
		}
		if c.Budget.IsNegative() {
			c.Budget = decimal.Zero
		}
		out.Categories = appendCategory(out.Categories, c, env)
		if oldID != "" {
			remap[oldID] = c.ID
		}
		added++
	}

	seen := make(map[model.ID]bool, len(out.Transactions)+len(a.Transactions))
	for _, t := range out.Transactions {
		seen[t.ID] = true
	}
	next := max(nextTransactionSeq(out, env), id.NextTransactionSeq(a.Transactions))
	imported := make([]model.Transaction, 0, len(a.Transactions))
	for i, t := range a.Transactions {
		t.Title = strings.TrimSpace(t.Title)
		t.Category = resolveCategory(out.Categories, remap, t.Category)
		if err := validateTransaction(t, out.Categories); err != nil {
			return s, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = id.FormatTransactionID(next)
			next++
		}
		if t.Timestamp.IsZero() {
			t.Timestamp = env.now()
		}
		seen[t.ID] = true
		imported = append(imported, t)
	}
	out.Transactions = append(out.Transactions, imported...)
	out.LastTransactionSeq = max(out.LastTransactionSeq, id.NextTransactionSeq(out.Transactions)-1)

	if a.Budget != nil {
		out.Budget = a.Budget.merge(out.Budget)
	}
	out = recompute(out, env)
	return notify(out, env, model.NotifySuccess, model.NotifySystem,
		"Data imported: %d transactions, %d new categories", len(imported), added), nil
}

// colorTaken reports whether a live category already wears color.
func colorTaken(cats []model.Category, color string) bool {
	return slices.ContainsFunc(categories.NewIndex(cats).Colors(), func(c string) bool {
		return strings.EqualFold(c, color)
	})
}

func findCategoryByName(cats []model.Category, name string) int {
	for i, c := range cats {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// resolveCategory maps a category reference from outside data to a live id.
func resolveCategory(cats []model.Category, remap map[model.ID]model.ID, ref model.ID) model.ID {
	if mapped, ok := remap[ref]; ok {
		return mapped
	}
	for _, c := range cats {
		if c.ID == ref {
			return ref
		}
	}
	if i := findCategoryByName(cats, string(ref)); i >= 0 {
		return cats[i].ID
	}
	return model.Uncategorized
}

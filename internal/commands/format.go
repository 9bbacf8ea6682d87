package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// money formats an amount with the ledger's currency symbol.
func money(prefs model.Preferences, d decimal.Decimal) string {
	sym := model.CurrencySymbol(prefs.Currency)
	if d.IsNegative() {
		return "-" + sym + d.Neg().StringFixed(2)
	}
	return sym + d.StringFixed(2)
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

// formatDate renders d in the preferred date format.
func formatDate(prefs model.Preferences, d model.Date) string {
	switch strings.ToUpper(prefs.DateFormat) {
	case "DD/MM/YYYY":
		return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
	case "MM/DD/YYYY":
		return fmt.Sprintf("%02d/%02d/%04d", int(d.Month), d.Day, d.Year)
	default:
		return d.String()
	}
}

// categoryName is the display name of a category reference.
func categoryName(idx *categories.Index, id model.ID) string {
	if c, ok := idx.Get(id); ok {
		if c.Icon != "" {
			return c.Icon + " " + c.Name
		}
		return c.Name
	}
	return string(id)
}

// resolveCategory maps a flag value (id or name) to a live category id.
// Empty means Uncategorized.
func resolveCategory(idx *categories.Index, ref string) (model.ID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || model.ID(ref) == model.Uncategorized {
		return model.Uncategorized, nil
	}
	id := idx.Resolve(model.ID(ref))
	if id == model.Uncategorized {
		return "", fmt.Errorf("unknown category %q", ref)
	}
	return id, nil
}

// parseDecimal parses a non-amount money flag such as a budget, where zero
// is allowed.
func parseDecimal(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q", flag, s)
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := model.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --amount %q: must be a positive number", s)
	}
	return d, nil
}

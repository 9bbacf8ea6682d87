package reducer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// PreferencesPatch lists the preferences to change; nil fields are kept.
type PreferencesPatch struct {
	Name          *string
	Email         *string
	Initials      *string
	Theme         *string
	Currency      *string
	Language      *string
	DateFormat    *string
	Timezone      *string
	MonthlyIncome *decimal.Decimal
}

// merge applies p to prefs. A new name without explicit initials also
// refreshes the initials.
func (p PreferencesPatch) merge(prefs model.Preferences) (model.Preferences, error) {
	if p.MonthlyIncome != nil && p.MonthlyIncome.IsNegative() {
		return prefs, ValidationError{Field: "monthlyIncome", Description: "must not be negative"}
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&prefs.Name, p.Name)
	set(&prefs.Email, p.Email)
	set(&prefs.Theme, p.Theme)
	set(&prefs.Language, p.Language)
	set(&prefs.DateFormat, p.DateFormat)
	set(&prefs.Timezone, p.Timezone)
	if p.Currency != nil {
		prefs.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	if p.MonthlyIncome != nil {
		prefs.MonthlyIncome = *p.MonthlyIncome
	}
	switch {
	case p.Initials != nil:
		prefs.Initials = *p.Initials
	case p.Name != nil:
		prefs.Initials = model.Initials(prefs.Name)
	}
	return prefs, nil
}

// UpdatePreferences merges a patch into the preferences.
type UpdatePreferences struct {
	Patch PreferencesPatch
}

func (UpdatePreferences) Kind() string { return "updatePreferences" }

func (a UpdatePreferences) Apply(s model.State, _ Env) (model.State, error) {
	prefs, err := a.Patch.merge(s.Preferences)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.Preferences = prefs
	return out, nil
}

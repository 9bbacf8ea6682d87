package reducer

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

var hundred = decimal.NewFromInt(100)

// BudgetPatch lists the budget fields to change; nil fields are kept.
// Spent and Remaining are never patched.
type BudgetPatch struct {
	MonthlyLimit  *decimal.Decimal `json:"monthlyLimit"`
	WeeklyLimit   *decimal.Decimal `json:"weeklyLimit"`
	AlertsEnabled *bool            `json:"alertsEnabled"`
}

func (p BudgetPatch) validate() error {
	if p.MonthlyLimit != nil && p.MonthlyLimit.IsNegative() {
		return ValidationError{Field: "monthlyLimit", Description: "must not be negative"}
	}
	if p.WeeklyLimit != nil && p.WeeklyLimit.IsNegative() {
		return ValidationError{Field: "weeklyLimit", Description: "must not be negative"}
	}
	return nil
}

func (p BudgetPatch) merge(b model.Budget) model.Budget {
	if p.MonthlyLimit != nil {
		b.MonthlyLimit = *p.MonthlyLimit
	}
	if p.WeeklyLimit != nil {
		b.WeeklyLimit = *p.WeeklyLimit
	}
	if p.AlertsEnabled != nil {
		b.AlertsEnabled = *p.AlertsEnabled
	}
	return b
}

// SetBudget merges a patch into the budget and raises threshold alerts.
type SetBudget struct {
	BudgetPatch
}

func (SetBudget) Kind() string { return "setBudget" }

func (a SetBudget) Apply(s model.State, env Env) (model.State, error) {
	if err := a.validate(); err != nil {
		return s, err
	}

	out := s.Clone()
	if out.Budget.ID == "" {
		out.Budget.ID = env.newID()
	}
	out.Budget = a.merge(out.Budget)
	out = recompute(out, env)
	return budgetAlert(out, env), nil
}

// DeleteBudget clears the limits and turns alerts off. Spent still mirrors
// this month's expenses.
type DeleteBudget struct{}

func (DeleteBudget) Kind() string { return "deleteBudget" }

func (DeleteBudget) Apply(s model.State, env Env) (model.State, error) {
	out := s.Clone()
	out.Budget = model.Budget{}
	return recompute(out, env), nil
}

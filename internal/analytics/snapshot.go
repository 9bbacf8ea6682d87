package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Snapshot computes the current-month mirror stored in the state.
func Snapshot(txns []model.Transaction, cats []model.Category, asOf model.Date) model.MonthSnapshot {
	expenses := Expenses(txns, asOf.Year, asOf.Month)
	income := Income(txns, asOf.Year, asOf.Month)
	spent := Sum(expenses)
	return model.MonthSnapshot{
		TotalIncome:        income,
		TotalExpenses:      spent,
		Balance:            income.Sub(spent),
		ExpensesByCategory: ByCategory(expenses, cats),
		DailyExpenses:      Daily(txns, asOf.Year, asOf.Month),
	}
}

// Recompute rebuilds every derived mirror of s from its transactions:
// budget spent and remaining, and the current-month analytics.
func Recompute(s model.State, asOf model.Date) model.State {
	s.Analytics.CurrentMonth = Snapshot(s.Transactions, s.Categories, asOf)
	s.Budget.Spent = s.Analytics.CurrentMonth.TotalExpenses
	s.Budget.Remaining = s.Budget.MonthlyLimit.Sub(s.Budget.Spent)
	if s.Analytics.CurrentMonth.ExpensesByCategory == nil {
		s.Analytics.CurrentMonth.ExpensesByCategory = []model.CategoryTotal{}
	}
	return s
}

// ThresholdCrossed reports which alert level current spending has reached
// against the monthly limit: "" when under 80%, "warning" from 80%, "error"
// at or above the limit.
func ThresholdCrossed(b model.Budget) model.NotificationType {
	if !b.AlertsEnabled || !b.MonthlyLimit.IsPositive() {
		return ""
	}
	switch {
	case b.Spent.GreaterThanOrEqual(b.MonthlyLimit):
		return model.NotifyError
	case b.Spent.GreaterThanOrEqual(b.MonthlyLimit.Mul(decimal.RequireFromString("0.8"))):
		return model.NotifyWarning
	default:
		return ""
	}
}

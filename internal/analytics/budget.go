package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Risk grades the chance of ending the month over budget.
type Risk string

const (
	RiskLow    Risk = "Low"
	RiskMedium Risk = "Medium"
	RiskHigh   Risk = "High"
)

var hundred = decimal.NewFromInt(100)

// Projection extrapolates the current month's pace.
type Projection struct {
	DaysElapsed           int             `json:"daysElapsed"`
	DaysInMonth           int             `json:"daysInMonth"`
	TotalSpent            decimal.Decimal `json:"totalSpent"`
	MonthlyLimit          decimal.Decimal `json:"monthlyLimit"`
	DailyAverage          decimal.Decimal `json:"dailyAverage"`
	ProjectedMonthEnd     decimal.Decimal `json:"projectedMonthEnd"`
	RecommendedDailySpend decimal.Decimal `json:"recommendedDailySpend"`
	BudgetUtilization     float64         `json:"budgetUtilization"`
}

// Project computes the projection for the month containing asOf.
func Project(txns []model.Transaction, limit decimal.Decimal, asOf model.Date) Projection {
	spent := Sum(Expenses(txns, asOf.Year, asOf.Month))
	return ProjectSpent(spent, limit, asOf.Day, model.DaysIn(asOf.Year, asOf.Month))
}

// ProjectSpent computes a projection from raw figures.
func ProjectSpent(spent, limit decimal.Decimal, daysElapsed, daysInMonth int) Projection {
	p := Projection{
		DaysElapsed:           daysElapsed,
		DaysInMonth:           daysInMonth,
		TotalSpent:            spent,
		MonthlyLimit:          limit,
		DailyAverage:          decimal.Zero,
		RecommendedDailySpend: decimal.Zero,
	}
	if daysElapsed > 0 {
		p.DailyAverage = spent.Div(decimal.NewFromInt(int64(daysElapsed)))
	}
	p.ProjectedMonthEnd = p.DailyAverage.Mul(decimal.NewFromInt(int64(daysInMonth)))
	if left := daysInMonth - daysElapsed; left > 0 {
		p.RecommendedDailySpend = decimal.Max(decimal.Zero, limit.Sub(spent).Div(decimal.NewFromInt(int64(left))))
	}
	if limit.IsPositive() {
		p.BudgetUtilization = spent.Mul(hundred).Div(limit).InexactFloat64()
	}
	return p
}

// Risk applies the risk rules to a projection.
func (p Projection) Risk() Risk {
	switch {
	case p.ProjectedMonthEnd.GreaterThan(p.MonthlyLimit.Mul(decimal.RequireFromString("1.2"))):
		return RiskHigh
	case p.ProjectedMonthEnd.GreaterThan(p.MonthlyLimit.Mul(decimal.RequireFromString("1.1"))):
		return RiskMedium
	case p.BudgetUtilization > 90:
		return RiskMedium
	default:
		return RiskLow
	}
}

// CategoryBudget is the spending of one category against its own cap.
type CategoryBudget struct {
	CategoryID model.ID        `json:"categoryId"`
	Name       string          `json:"name"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percent    float64         `json:"percent"`
	Over       bool            `json:"over"`
}

// CategoryBudgets reports utilization for every category with a budget.
// txns is the expense subset to measure, normally the selected month.
func CategoryBudgets(txns []model.Transaction, cats []model.Category) []CategoryBudget {
	var out []CategoryBudget
	for _, c := range cats {
		if !c.Budget.IsPositive() {
			continue
		}
		spent := decimal.Zero
		for _, t := range txns {
			if t.IsExpense() && t.Category == c.ID {
				spent = spent.Add(t.Amount)
			}
		}
		out = append(out, CategoryBudget{
			CategoryID: c.ID,
			Name:       c.Name,
			Budget:     c.Budget,
			Spent:      spent,
			Remaining:  decimal.Max(decimal.Zero, c.Budget.Sub(spent)),
			Percent:    spent.Mul(hundred).Div(c.Budget).InexactFloat64(),
			Over:       spent.GreaterThan(c.Budget),
		})
	}
	return out
}

// SavingsRate returns the percentage of income left after this month's
// spending. Income comes from income transactions of the month when there
// are any, otherwise from the declared monthly income. With no income at all
// the rate measures projected headroom under the limit.
func SavingsRate(txns []model.Transaction, prefs model.Preferences, p Projection, asOf model.Date) float64 {
	income := Income(txns, asOf.Year, asOf.Month)
	if !income.IsPositive() {
		income = prefs.MonthlyIncome
	}
	if income.IsPositive() {
		rate := income.Sub(p.TotalSpent).Mul(hundred).Div(income).InexactFloat64()
		return max(0, rate)
	}
	if !p.MonthlyLimit.IsPositive() {
		return 0
	}
	rate := p.MonthlyLimit.Sub(p.ProjectedMonthEnd).Mul(hundred).Div(p.MonthlyLimit).InexactFloat64()
	return max(0, rate)
}

// MonthOverMonth returns the percentage change in spending from the month
// before asOf's month, or 0 when that month had none.
func MonthOverMonth(txns []model.Transaction, asOf model.Date) float64 {
	prev := asOf.AddMonths(-1)
	this := Sum(Expenses(txns, asOf.Year, asOf.Month))
	last := Sum(Expenses(txns, prev.Year, prev.Month))
	if !last.IsPositive() {
		return 0
	}
	return this.Sub(last).Mul(hundred).Div(last).InexactFloat64()
}

// Strategy names the outcome of the adaptive daily limit.
type Strategy string

const (
	StrategyMonthEnded        Strategy = "month_ended"
	StrategyEmergency         Strategy = "emergency_mode"
	StrategyAdaptiveReduction Strategy = "adaptive_reduction"
)

// minFeasibleShare is the smallest fraction of the original daily limit
// a reduced limit may fall to and still be considered achievable.
var minFeasibleShare = decimal.RequireFromString("0.3")

// Rebalance suggests how to spend the rest of the month.
type Rebalance struct {
	Strategy           Strategy        `json:"strategy"`
	DaysRemaining      int             `json:"daysRemaining"`
	BudgetRemaining    decimal.Decimal `json:"budgetRemaining"`
	OriginalDailyLimit decimal.Decimal `json:"originalDailyLimit"`
	NewDailyLimit      decimal.Decimal `json:"newDailyLimit"`
	ReductionPercent   float64         `json:"reductionPercent"`
	Feasible           bool            `json:"feasible"`
	WeeksRemaining     int             `json:"weeksRemaining"`
	WeeklyBudget       decimal.Decimal `json:"weeklyBudget"`
	Overspend          decimal.Decimal `json:"overspend"`
}

// Rebalancing computes the adaptive daily limit and weekly budget for the
// rest of the month. It needs a positive limit; callers skip it otherwise.
func Rebalancing(spent, limit decimal.Decimal, currentDay, daysInMonth int) Rebalance {
	r := Rebalance{
		DaysRemaining:      daysInMonth - currentDay,
		BudgetRemaining:    limit.Sub(spent),
		OriginalDailyLimit: decimal.Zero,
		NewDailyLimit:      decimal.Zero,
		WeeklyBudget:       decimal.Zero,
		Overspend:          decimal.Zero,
	}
	if daysInMonth > 0 {
		r.OriginalDailyLimit = limit.Div(decimal.NewFromInt(int64(daysInMonth)))
	}
	r.Overspend = decimal.Max(decimal.Zero, spent.Sub(r.OriginalDailyLimit.Mul(decimal.NewFromInt(int64(currentDay)))))

	switch {
	case r.DaysRemaining <= 0:
		r.Strategy = StrategyMonthEnded
		return r
	case !r.BudgetRemaining.IsPositive():
		r.Strategy = StrategyEmergency
	default:
		r.Strategy = StrategyAdaptiveReduction
		r.NewDailyLimit = r.BudgetRemaining.Div(decimal.NewFromInt(int64(r.DaysRemaining)))
		r.Feasible = r.NewDailyLimit.GreaterThanOrEqual(r.OriginalDailyLimit.Mul(minFeasibleShare))
		if r.OriginalDailyLimit.IsPositive() {
			r.ReductionPercent = r.OriginalDailyLimit.Sub(r.NewDailyLimit).Mul(hundred).Div(r.OriginalDailyLimit).InexactFloat64()
		}
	}

	r.WeeksRemaining = (r.DaysRemaining + 6) / 7
	r.WeeklyBudget = decimal.Max(decimal.Zero, r.BudgetRemaining.Div(decimal.NewFromInt(int64(r.WeeksRemaining))))
	return r
}

// ByWeekday sums expenses per day of the week, Sunday first.
func ByWeekday(txns []model.Transaction) [7]decimal.Decimal {
	var out [7]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}
	for _, t := range txns {
		if t.IsExpense() {
			wd := t.Date.Weekday()
			out[wd] = out[wd].Add(t.Amount)
		}
	}
	return out
}

// MethodTotal is the expense sum of one payment method.
type MethodTotal struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// ByPaymentMethod sums expenses per payment method in first-seen order.
// An empty method is reported as "Other".
func ByPaymentMethod(txns []model.Transaction) []MethodTotal {
	idx := make(map[string]int)
	var out []MethodTotal
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		m := t.PaymentMethod
		if m == "" {
			m = "Other"
		}
		i, ok := idx[m]
		if !ok {
			i = len(out)
			idx[m] = i
			out = append(out, MethodTotal{Method: m, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// Weekdays are the short weekday labels, indexed by time.Weekday.
var Weekdays = [7]string{
	time.Sunday: "Sun", time.Monday: "Mon", time.Tuesday: "Tue", time.Wednesday: "Wed",
	time.Thursday: "Thu", time.Friday: "Fri", time.Saturday: "Sat",
}

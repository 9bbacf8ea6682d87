// Package analytics derives every view the CLI shows from a ledger state.
// All functions are pure: they read their inputs and return fresh values.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// UnknownCategory names the bucket that collects expenses whose category
// no longer exists.
const UnknownCategory = "Unknown"

// WeekTotal is one week of a month, week n covering days 7n-6..7n.
type WeekTotal struct {
	Week   int             `json:"week"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// MonthTotal is one month of a year rollup.
type MonthTotal struct {
	Month    time.Month      `json:"month"`
	Expenses decimal.Decimal `json:"expenses"`
	Income   decimal.Decimal `json:"income"`
	Count    int             `json:"count"`
}

// Summary holds the statistics of a daily series.
type Summary struct {
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Highest decimal.Decimal `json:"highest"`
	Lowest  decimal.Decimal `json:"lowest"`
}

// Expenses returns the expense transactions dated in the given month.
func Expenses(txns []model.Transaction, year int, month time.Month) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.IsExpense() && t.Date.In(year, month) {
			out = append(out, t)
		}
	}
	return out
}

// Income returns the income total of the given month.
func Income(txns []model.Transaction, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.Type == model.TypeIncome && t.Date.In(year, month) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Sum adds up transaction amounts.
func Sum(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// Daily returns one point per day of the month with the expense sum of that
// day and the running total.
func Daily(txns []model.Transaction, year int, month time.Month) []model.DailyPoint {
	n := model.DaysIn(year, month)
	amounts := make([]decimal.Decimal, n+1)
	for _, t := range Expenses(txns, year, month) {
		amounts[t.Date.Day] = amounts[t.Date.Day].Add(t.Amount)
	}

	series := make([]model.DailyPoint, 0, n)
	running := decimal.Zero
	for day := 1; day <= n; day++ {
		running = running.Add(amounts[day])
		series = append(series, model.DailyPoint{
			Day:        day,
			Amount:     amounts[day],
			Cumulative: running,
			Date:       model.NewDate(year, month, day),
		})
	}
	return series
}

// Weekly groups the month's expenses into weeks 1 to 5.
func Weekly(txns []model.Transaction, year int, month time.Month) []WeekTotal {
	weeks := make([]WeekTotal, 5)
	for i := range weeks {
		weeks[i] = WeekTotal{Week: i + 1, Amount: decimal.Zero}
	}
	for _, t := range Expenses(txns, year, month) {
		w := (t.Date.Day + 6) / 7
		weeks[w-1].Amount = weeks[w-1].Amount.Add(t.Amount)
		weeks[w-1].Count++
	}
	return weeks
}

// Monthly returns twelve entries, January first, with the expense and income
// totals of each month of the year.
func Monthly(txns []model.Transaction, year int) []MonthTotal {
	months := make([]MonthTotal, 12)
	for i := range months {
		months[i] = MonthTotal{Month: time.Month(i + 1), Expenses: decimal.Zero, Income: decimal.Zero}
	}
	for _, t := range txns {
		if t.Date.Year != year {
			continue
		}
		m := &months[t.Date.Month-1]
		if t.IsExpense() {
			m.Expenses = m.Expenses.Add(t.Amount)
			m.Count++
		} else {
			m.Income = m.Income.Add(t.Amount)
		}
	}
	return months
}

// ByCategory sums expenses per category, largest first. Ties are ordered by
// name. Uncategorized keeps its own bucket; ids with no live category all
// land in one UnknownCategory bucket.
func ByCategory(txns []model.Transaction, cats []model.Category) []model.CategoryTotal {
	byID := make(map[model.ID]model.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	buckets := make(map[model.ID]*model.CategoryTotal)
	var order []model.ID
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		key := t.Category
		total := model.CategoryTotal{CategoryID: key, Amount: decimal.Zero}
		if c, ok := byID[key]; ok {
			total.Name, total.Color, total.Icon = c.Name, c.Color, c.Icon
		} else if key == model.Uncategorized {
			total.Name = string(model.Uncategorized)
		} else {
			key = UnknownCategory
			total = model.CategoryTotal{CategoryID: UnknownCategory, Name: UnknownCategory, Amount: decimal.Zero}
		}

		b, ok := buckets[key]
		if !ok {
			b = &total
			buckets[key] = b
			order = append(order, key)
		}
		b.Amount = b.Amount.Add(t.Amount)
		b.Count++
	}

	out := make([]model.CategoryTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *buckets[key])
	}
	slices.SortStableFunc(out, func(a, b model.CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Top returns the first k totals.
func Top(totals []model.CategoryTotal, k int) []model.CategoryTotal {
	if k < 0 || len(totals) <= k {
		return totals
	}
	return totals[:k]
}

// CategoryShare is a category total with its percentage of all spending.
type CategoryShare struct {
	model.CategoryTotal
	Share float64 `json:"share"`
}

// Shares attaches to each total its percentage of total. A zero total gives
// every category a zero share.
func Shares(totals []model.CategoryTotal, total decimal.Decimal) []CategoryShare {
	out := make([]CategoryShare, len(totals))
	for i, t := range totals {
		out[i] = CategoryShare{CategoryTotal: t}
		if total.IsPositive() {
			out[i].Share = t.Amount.Div(total).InexactFloat64() * 100
		}
	}
	return out
}

// Summarize computes total, average per day, highest day and lowest
// non-zero day of a daily series.
func Summarize(series []model.DailyPoint) Summary {
	s := Summary{Total: decimal.Zero, Average: decimal.Zero, Highest: decimal.Zero, Lowest: decimal.Zero}
	first := true
	for _, p := range series {
		s.Total = s.Total.Add(p.Amount)
		if p.Amount.GreaterThan(s.Highest) {
			s.Highest = p.Amount
		}
		if p.Amount.IsPositive() && (first || p.Amount.LessThan(s.Lowest)) {
			s.Lowest = p.Amount
			first = false
		}
	}
	if len(series) > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(len(series))))
	}
	return s
}

// SpentDays returns the points of a series with a positive amount.
func SpentDays(series []model.DailyPoint) []model.DailyPoint {
	var out []model.DailyPoint
	for _, p := range series {
		if p.Amount.IsPositive() {
			out = append(out, p)
		}
	}
	return out
}

package model

import "github.com/shopspring/decimal"

// DailyPoint is one day of a month's daily series.
type DailyPoint struct {
	Day        int             `json:"day"`
	Amount     decimal.Decimal `json:"amount"`
	Cumulative decimal.Decimal `json:"cumulative"`
	Date       Date            `json:"date"`
}

// CategoryTotal is the expense sum of one category joined with its display
// attributes.
type CategoryTotal struct {
	CategoryID ID              `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	Icon       string          `json:"icon,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
}

// MonthSnapshot mirrors the current month inside the persisted state.
type MonthSnapshot struct {
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	Balance            decimal.Decimal `json:"balance"`
	ExpensesByCategory []CategoryTotal `json:"expensesByCategory"`
	DailyExpenses      []DailyPoint    `json:"dailyExpenses"`
}

// Analytics is the persisted analytics mirror. It is always recomputable
// from transactions and is never trusted on import.
type Analytics struct {
	CurrentMonth MonthSnapshot `json:"currentMonth"`
}

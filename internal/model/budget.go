package model

import "github.com/shopspring/decimal"

// Budget is the monthly spending limit. Spent and Remaining mirror the
// current calendar month and are recomputed from transactions, never edited.
type Budget struct {
	ID            ID              `json:"id,omitempty"`
	MonthlyLimit  decimal.Decimal `json:"monthlyLimit"`
	WeeklyLimit   decimal.Decimal `json:"weeklyLimit"`
	AlertsEnabled bool            `json:"alertsEnabled"`
	Spent         decimal.Decimal `json:"spent"`
	Remaining     decimal.Decimal `json:"remaining"`
}

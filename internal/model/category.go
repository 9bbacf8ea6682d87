package model

import "github.com/shopspring/decimal"

// Category groups transactions and optionally carries a monthly soft cap.
type Category struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Description string          `json:"description,omitempty"`
}

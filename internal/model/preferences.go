package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Preferences holds the user profile and display settings.
type Preferences struct {
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Initials      string          `json:"initials"`
	Theme         string          `json:"theme"`
	Currency      string          `json:"currency"`
	Language      string          `json:"language"`
	DateFormat    string          `json:"dateFormat"`
	Timezone      string          `json:"timezone"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:      "dark",
		Currency:   "INR",
		Language:   "en",
		DateFormat: "DD/MM/YYYY",
		Timezone:   "Asia/Kolkata",
	}
}

// CurrencySymbol maps a currency code to its display symbol. Currency is a
// label only; amounts are never converted.
func CurrencySymbol(code string) string {
	switch strings.ToUpper(code) {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "INR":
		return "₹"
	default:
		return "₹"
	}
}

// Initials derives up to two uppercase initials from a display name.
func Initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(f))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

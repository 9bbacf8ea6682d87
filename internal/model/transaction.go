package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType separates spending from earnings.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Recognized payment methods. Any other string is accepted as a free tag.
const (
	PaymentCash       = "Cash"
	PaymentUPI        = "UPI"
	PaymentCreditCard = "Credit Card"
	PaymentDebitCard  = "Debit Card"
	PaymentNetBanking = "Net Banking"
	PaymentWallet     = "Wallet"
	PaymentIncome     = "Income"
)

// Transaction is one recorded expense or income.
type Transaction struct {
	ID            ID              `json:"id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Category      ID              `json:"category"`
	Title         string          `json:"title"`
	Notes         string          `json:"notes,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// IsExpense reports whether t counts against the budget.
func (t Transaction) IsExpense() bool { return t.Type == TypeExpense }

// ErrInvalidAmount is returned by ParseAmount for empty, signed, zero or
// malformed input.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses user input such as "12.50" or "12,50" into a positive
// decimal. Form and CSV strings go through here before reaching a reducer.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

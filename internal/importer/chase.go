package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Debits (negative
// amounts) become expenses and credits become income, all Uncategorized.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns transactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string) (model.Transaction, error) {
	date, err := time.ParseInLocation(chaseDateFormat, rec[chaseColDate], time.Local)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[chaseColAmount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if amount.IsZero() {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: zero amount", rec[chaseColAmount])
	}

	typ := model.TypeIncome
	method := model.PaymentIncome
	if amount.IsNegative() {
		typ = model.TypeExpense
		method = chasePaymentMethod(rec[chaseColType])
	}

	desc := strings.TrimSpace(rec[chaseColDesc])
	return model.Transaction{
		Type:          typ,
		Amount:        amount.Abs(),
		Date:          model.DateOf(date),
		Category:      model.Uncategorized,
		Title:         desc,
		Notes:         makeChaseRef(date, desc),
		PaymentMethod: method,
	}, nil
}

// chasePaymentMethod maps the Chase transaction type to a payment method.
func chasePaymentMethod(typ string) string {
	switch strings.ToUpper(strings.TrimSpace(typ)) {
	case "DEBIT_CARD":
		return model.PaymentDebitCard
	case "ATM":
		return model.PaymentCash
	default:
		return model.PaymentNetBanking
	}
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}

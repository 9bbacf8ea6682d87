package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
)

// TallyParser reads the native transaction CSV written by WriteTransactions.
type TallyParser struct{}

// Header is the CSV header of the native format.
const Header = "id,date,type,amount,category,title,payment_method,notes,timestamp"

const (
	numFields    = 9
	colID        = 0
	colDate      = 1
	colType      = 2
	colAmount    = 3
	colCategory  = 4
	colTitle     = 5
	colPayment   = 6
	colNotes     = 7
	colTimestamp = 8
)

// Format returns the parser name.
func (p *TallyParser) Format() string { return "tally" }

// Parse reads a native CSV.
func (p *TallyParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes txns as native CSV, including the header.
// Categories are written by name so the file imports into any ledger.
func WriteTransactions(w io.Writer, txns []model.Transaction, idx *categories.Index) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		row := MarshalTransaction(t)
		if c, ok := idx.Get(t.Category); ok {
			row[colCategory] = c.Name
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = string(t.ID)
	row[colDate] = t.Date.String()
	row[colType] = string(t.Type)
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCategory] = string(t.Category)
	row[colTitle] = t.Title
	row[colPayment] = t.PaymentMethod
	row[colNotes] = t.Notes
	if !t.Timestamp.IsZero() {
		row[colTimestamp] = t.Timestamp.Format(time.RFC3339)
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. An empty type
// means expense.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}

	typ := model.TransactionType(strings.ToLower(strings.TrimSpace(record[colType])))
	if typ == "" {
		typ = model.TypeExpense
	}
	if !typ.Valid() {
		return model.Transaction{}, fmt.Errorf("parsing type %q: want expense or income", record[colType])
	}

	amount, err := model.ParseAmount(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var ts time.Time
	if s := strings.TrimSpace(record[colTimestamp]); s != "" {
		ts, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
		}
	}

	category := model.ID(strings.TrimSpace(record[colCategory]))
	if category == "" {
		category = model.Uncategorized
	}

	return model.Transaction{
		ID:            model.ID(strings.TrimSpace(record[colID])),
		Type:          typ,
		Amount:        amount,
		Date:          date,
		Category:      category,
		Title:         record[colTitle],
		PaymentMethod: record[colPayment],
		Notes:         record[colNotes],
		Timestamp:     ts,
	}, nil
}

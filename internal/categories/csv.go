package categories

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	numFields = 6
	colID     = 0
	colName   = 1
	colIcon   = 2
	colColor  = 3
	colBudget = 4
	colDesc   = 5
)

// ReadCategories reads categories.csv.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var cats []model.Category
	for i, rec := range records[1:] {
		c, err := UnmarshalCategory(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// WriteCategories writes categories.csv.
func WriteCategories(w io.Writer, cats []model.Category) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "icon", "color", "budget", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range cats {
		if err := cw.Write(MarshalCategory(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCategory converts a Category to a CSV row.
func MarshalCategory(c model.Category) []string {
	row := make([]string, numFields)
	row[colID] = string(c.ID)
	row[colName] = c.Name
	row[colIcon] = c.Icon
	row[colColor] = c.Color
	if !c.Budget.IsZero() {
		row[colBudget] = c.Budget.StringFixed(2)
	}
	row[colDesc] = c.Description
	return row
}

// UnmarshalCategory converts a CSV row to a Category.
func UnmarshalCategory(record []string) (model.Category, error) {
	if len(record) != numFields {
		return model.Category{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var budget decimal.Decimal
	if record[colBudget] != "" {
		var err error
		budget, err = decimal.NewFromString(record[colBudget])
		if err != nil {
			return model.Category{}, fmt.Errorf("parsing budget %q: %w", record[colBudget], err)
		}
	}

	return model.Category{
		ID:          model.ID(record[colID]),
		Name:        record[colName],
		Icon:        record[colIcon],
		Color:       record[colColor],
		Budget:      budget,
		Description: record[colDesc],
	}, nil
}

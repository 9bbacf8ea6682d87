package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
	"github.com/cleared-dev/tally/internal/storage"
)

// SetupProfile is the profile page of the first-run wizard.
type SetupProfile struct {
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
}

// SetupRecord is what the first-run wizard collected. It is kept under
// SetupKey so an interrupted setup can be completed on the next start.
type SetupRecord struct {
	Profile          SetupProfile     `json:"profile"`
	Budget           decimal.Decimal  `json:"budget"`
	Categories       []model.Category `json:"categories"`
	CustomCategories []model.Category `json:"customCategories"`
}

// Action turns the record into the action that commits it.
func (r SetupRecord) Action() reducer.CompleteSetup {
	var p reducer.PreferencesPatch
	if r.Profile.Name != "" {
		p.Name = &r.Profile.Name
	}
	if r.Profile.Email != "" {
		p.Email = &r.Profile.Email
	}
	if r.Profile.Currency != "" {
		p.Currency = &r.Profile.Currency
	}
	if !r.Profile.MonthlyIncome.IsZero() {
		p.MonthlyIncome = &r.Profile.MonthlyIncome
	}
	limit := r.Budget

	cats := make([]reducer.AddCategory, 0, len(r.Categories)+len(r.CustomCategories))
	for _, group := range [][]model.Category{r.Categories, r.CustomCategories} {
		for _, c := range group {
			cats = append(cats, reducer.AddCategory{
				Name:        c.Name,
				Icon:        c.Icon,
				Color:       c.Color,
				Budget:      c.Budget,
				Description: c.Description,
			})
		}
	}
	return reducer.CompleteSetup{Profile: p, MonthlyLimit: &limit, Categories: cats}
}

// SaveSetup stores the wizard record.
func SaveSetup(ctx context.Context, st storage.Storage, r SetupRecord) error {
	if r.Categories == nil {
		r.Categories = []model.Category{}
	}
	if r.CustomCategories == nil {
		r.CustomCategories = []model.Category{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding setup: %w", err)
	}
	if err := st.Set(ctx, SetupKey, data); err != nil {
		return fmt.Errorf("saving setup: %w", err)
	}
	return nil
}

// LoadSetup reads the wizard record. ok is false when none was saved.
func LoadSetup(ctx context.Context, st storage.Storage) (r SetupRecord, ok bool, err error) {
	raw, err := st.Get(ctx, SetupKey)
	if errors.Is(err, storage.ErrNotFound) {
		return SetupRecord{}, false, nil
	}
	if err != nil {
		return SetupRecord{}, false, fmt.Errorf("loading setup: %w", err)
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return SetupRecord{}, false, fmt.Errorf("%w: setup: %v", ErrCorruptState, err)
	}
	return r, true, nil
}

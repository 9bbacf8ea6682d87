package reducer

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/colors"
	"github.com/cleared-dev/tally/internal/model"
)

// AddCategory creates a category. An empty Color is filled from the palette.
type AddCategory struct {
	Name        string
	Icon        string
	Color       string
	Budget      decimal.Decimal
	Description string
}

func (AddCategory) Kind() string { return "addCategory" }

func (a AddCategory) Apply(s model.State, env Env) (model.State, error) {
	c := model.Category{
		Name:        strings.TrimSpace(a.Name),
		Icon:        a.Icon,
		Color:       a.Color,
		Budget:      a.Budget,
		Description: a.Description,
	}
	if err := validateCategory(c, s.Categories, ""); err != nil {
		return s, err
	}

	out := s.Clone()
	out.Categories = appendCategory(out.Categories, c, env)
	return recompute(out, env), nil
}

// appendCategory assigns an id and, when missing, a color.
func appendCategory(cats []model.Category, c model.Category, env Env) []model.Category {
	if c.ID == "" {
		c.ID = env.newID()
	}
	if c.Color == "" {
		c.Color = env.nextColor(cats)
	}
	return append(cats, c)
}

// CategoryPatch lists the fields to change; nil fields are kept.
type CategoryPatch struct {
	Name        *string
	Icon        *string
	Color       *string
	Budget      *decimal.Decimal
	Description *string
}

// UpdateCategory edits a category. The color only changes when the patch
// sets one.
type UpdateCategory struct {
	ID    model.ID
	Patch CategoryPatch
}

func (UpdateCategory) Kind() string { return "updateCategory" }

func (a UpdateCategory) Apply(s model.State, env Env) (model.State, error) {
	i := s.FindCategory(a.ID)
	if i < 0 {
		return s, ReferenceError{Kind: "category", ID: string(a.ID)}
	}

	c := s.Categories[i]
	p := a.Patch
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Budget != nil {
		c.Budget = *p.Budget
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if err := validateCategory(c, s.Categories, c.ID); err != nil {
		return s, err
	}

	out := s.Clone()
	out.Categories[i] = c
	return recompute(out, env), nil
}

// DeleteCategory removes a category and moves its transactions to
// Uncategorized.
type DeleteCategory struct {
	ID model.ID
}

func (DeleteCategory) Kind() string { return "deleteCategory" }

func (a DeleteCategory) Apply(s model.State, env Env) (model.State, error) {
	if s.FindCategory(a.ID) < 0 {
		return s, ReferenceError{Kind: "category", ID: string(a.ID)}
	}

	out := s.Clone()
	out.Categories = slices.DeleteFunc(out.Categories, func(c model.Category) bool { return c.ID == a.ID })
	for i := range out.Transactions {
		if out.Transactions[i].Category == a.ID {
			out.Transactions[i].Category = model.Uncategorized
		}
	}
	if out.UI.SelectedCategory == string(a.ID) {
		out.UI.SelectedCategory = model.DefaultUIState().SelectedCategory
	}
	return recompute(out, env), nil
}

// validateCategory checks c against the live categories, ignoring self.
func validateCategory(c model.Category, cats []model.Category, self model.ID) error {
	if c.Name == "" {
		return ValidationError{Field: "name", Description: "is required"}
	}
	if model.ID(c.Name) == model.Uncategorized {
		return ValidationError{Field: "name", Description: "Uncategorized is reserved"}
	}
	for _, other := range cats {
		if other.ID != self && other.Name == c.Name {
			return ValidationError{Field: "name", Description: "category " + c.Name + " already exists"}
		}
	}
	if c.Budget.IsNegative() {
		return ValidationError{Field: "budget", Description: "must not be negative"}
	}
	if c.Color != "" && !colors.Valid(c.Color) {
		return ValidationError{Field: "color", Description: "must look like #RRGGBB"}
	}
	return nil
}

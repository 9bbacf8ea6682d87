package reducer

import "github.com/cleared-dev/tally/internal/model"

// ToggleModal flips one of the modal flags.
type ToggleModal struct {
	Modal string
}

func (ToggleModal) Kind() string { return "toggleModal" }

func (a ToggleModal) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	flag := out.UI.Modal(a.Modal)
	if flag == nil {
		return s, ValidationError{Field: "modal", Description: "unknown modal " + a.Modal}
	}
	*flag = !*flag
	return out, nil
}

// SetActiveView selects the active view.
type SetActiveView struct {
	View string
}

func (SetActiveView) Kind() string { return "setActiveView" }

func (a SetActiveView) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.UI.ActiveView = a.View
	return out, nil
}

// UpdateSearchQuery sets the transaction search text.
type UpdateSearchQuery struct {
	Query string
}

func (UpdateSearchQuery) Kind() string { return "updateSearchQuery" }

func (a UpdateSearchQuery) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.UI.SearchQuery = a.Query
	return out, nil
}

// SetDateRange sets the date-range filter.
type SetDateRange struct {
	Range string
}

func (SetDateRange) Kind() string { return "setDateRange" }

func (a SetDateRange) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.UI.DateRange = a.Range
	return out, nil
}

// SetSelectedCategory sets the category filter.
type SetSelectedCategory struct {
	Category string
}

func (SetSelectedCategory) Kind() string { return "setSelectedCategory" }

func (a SetSelectedCategory) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.UI.SelectedCategory = a.Category
	return out, nil
}

// SetFilterType sets the transaction type filter.
type SetFilterType struct {
	Filter string
}

func (SetFilterType) Kind() string { return "setFilterType" }

func (a SetFilterType) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.UI.FilterType = a.Filter
	return out, nil
}

// SetEditingTransaction marks a transaction as being edited and opens the
// expense modal.
type SetEditingTransaction struct {
	ID model.ID
}

func (SetEditingTransaction) Kind() string { return "setEditingTransaction" }

func (a SetEditingTransaction) Apply(s model.State, _ Env) (model.State, error) {
	if s.FindTransaction(a.ID) < 0 {
		return s, ReferenceError{Kind: "transaction", ID: string(a.ID)}
	}
	out := s.Clone()
	editing := a.ID
	out.UI.EditingTransaction = &editing
	out.UI.ShowExpenseModal = true
	return out, nil
}

// ClearEditingTransaction ends editing.
type ClearEditingTransaction struct{}

func (ClearEditingTransaction) Kind() string { return "clearEditingTransaction" }

func (ClearEditingTransaction) Apply(s model.State, _ Env) (model.State, error) {
	out := s.Clone()
	out.UI.EditingTransaction = nil
	return out, nil
}

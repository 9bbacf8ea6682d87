package model

import "slices"

// State is the whole ledger: the single tree every reducer transforms and
// every save serializes.
type State struct {
	Transactions  []Transaction  `json:"transactions"`
	Categories    []Category     `json:"categories"`
	Budget        Budget         `json:"budget"`
	Notifications []Notification `json:"notifications"`
	Preferences   Preferences    `json:"preferences"`
	Analytics     Analytics      `json:"analytics"`
	Goals         []Goal         `json:"goals"`
	UI            UIState        `json:"ui"`

	// LastTransactionSeq is the highest transaction sequence ever issued.
	// It only grows, so deleted ids stay retired.
	LastTransactionSeq int64 `json:"lastTransactionSeq,omitempty"`
}

// Fresh returns the state of a brand-new install.
func Fresh() State {
	return State{
		Transactions:  []Transaction{},
		Categories:    []Category{},
		Notifications: []Notification{},
		Preferences:   DefaultPreferences(),
		Analytics: Analytics{CurrentMonth: MonthSnapshot{
			ExpensesByCategory: []CategoryTotal{},
			DailyExpenses:      []DailyPoint{},
		}},
		Goals: []Goal{},
		UI:    DefaultUIState(),
	}
}

// Clone returns a deep copy of s. Reducers clone before editing so the input
// state is never changed.
func (s State) Clone() State {
	out := s
	out.Transactions = slices.Clone(s.Transactions)
	out.Categories = slices.Clone(s.Categories)
	out.Notifications = slices.Clone(s.Notifications)
	out.Analytics.CurrentMonth.ExpensesByCategory = slices.Clone(s.Analytics.CurrentMonth.ExpensesByCategory)
	out.Analytics.CurrentMonth.DailyExpenses = slices.Clone(s.Analytics.CurrentMonth.DailyExpenses)
	out.Goals = make([]Goal, len(s.Goals))
	for i, g := range s.Goals {
		out.Goals[i] = g.Clone()
	}
	if s.UI.EditingTransaction != nil {
		id := *s.UI.EditingTransaction
		out.UI.EditingTransaction = &id
	}
	return out
}

// FindTransaction returns the index of the transaction with the given id, or -1.
func (s State) FindTransaction(id ID) int {
	return slices.IndexFunc(s.Transactions, func(t Transaction) bool { return t.ID == id })
}

// FindCategory returns the index of the category with the given id, or -1.
func (s State) FindCategory(id ID) int {
	return slices.IndexFunc(s.Categories, func(c Category) bool { return c.ID == id })
}

// Normalize replaces nil slices with empty ones so the serialized blob always
// carries JSON arrays.
func (s *State) Normalize() {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.Analytics.CurrentMonth.ExpensesByCategory == nil {
		s.Analytics.CurrentMonth.ExpensesByCategory = []CategoryTotal{}
	}
	if s.Analytics.CurrentMonth.DailyExpenses == nil {
		s.Analytics.CurrentMonth.DailyExpenses = []DailyPoint{}
	}
}

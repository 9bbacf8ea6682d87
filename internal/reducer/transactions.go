package reducer

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// AddTransaction records a new transaction at the top of the list.
type AddTransaction struct {
	Type          model.TransactionType
	Amount        decimal.Decimal
	Date          model.Date
	Category      model.ID
	Title         string
	Notes         string
	PaymentMethod string
}

func (AddTransaction) Kind() string { return "addTransaction" }

func (a AddTransaction) Apply(s model.State, env Env) (model.State, error) {
	t := model.Transaction{
		Type:          a.Type,
		Amount:        a.Amount,
		Date:          a.Date,
		Category:      a.Category,
		Title:         strings.TrimSpace(a.Title),
		Notes:         a.Notes,
		PaymentMethod: a.PaymentMethod,
	}
	if err := validateTransaction(t, s.Categories); err != nil {
		return s, err
	}
	seq := nextTransactionSeq(s, env)
	t.ID = id.FormatTransactionID(seq)
	t.Timestamp = env.now()

	out := s.Clone()
	out.LastTransactionSeq = seq
	out.Transactions = append([]model.Transaction{t}, out.Transactions...)
	out = recompute(out, env)
	out = notify(out, env, model.NotifySuccess, model.NotifyTransaction, "Transaction added: %s", t.Title)
	return budgetAlert(out, env), nil
}

// TransactionPatch lists the fields to change; nil fields are kept.
type TransactionPatch struct {
	Type          *model.TransactionType
	Amount        *decimal.Decimal
	Date          *model.Date
	Category      *model.ID
	Title         *string
	Notes         *string
	PaymentMethod *string
}

// UpdateTransaction edits an existing transaction in place.
type UpdateTransaction struct {
	ID    model.ID
	Patch TransactionPatch
}

func (UpdateTransaction) Kind() string { return "updateTransaction" }

func (a UpdateTransaction) Apply(s model.State, env Env) (model.State, error) {
	i := s.FindTransaction(a.ID)
	if i < 0 {
		return s, ReferenceError{Kind: "transaction", ID: string(a.ID)}
	}

	t := s.Transactions[i]
	p := a.Patch
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.PaymentMethod != nil {
		t.PaymentMethod = *p.PaymentMethod
	}
	if err := validateTransaction(t, s.Categories); err != nil {
		return s, err
	}

	out := s.Clone()
	out.Transactions[i] = t
	out = recompute(out, env)
	return notify(out, env, model.NotifySuccess, model.NotifyTransaction, "Transaction updated: %s", t.Title), nil
}

// DeleteTransaction removes one transaction.
type DeleteTransaction struct {
	ID model.ID
}

func (DeleteTransaction) Kind() string { return "deleteTransaction" }

func (a DeleteTransaction) Apply(s model.State, env Env) (model.State, error) {
	return deleteTransactions(s, env, []model.ID{a.ID})
}

// DeleteTransactions removes several transactions in one step. Every id
// must exist.
type DeleteTransactions struct {
	IDs []model.ID
}

func (DeleteTransactions) Kind() string { return "deleteMultipleTransactions" }

func (a DeleteTransactions) Apply(s model.State, env Env) (model.State, error) {
	return deleteTransactions(s, env, a.IDs)
}

func deleteTransactions(s model.State, env Env, ids []model.ID) (model.State, error) {
	if len(ids) == 0 {
		return s, ValidationError{Field: "ids", Description: "no transactions selected"}
	}
	doomed := make(map[model.ID]bool, len(ids))
	for _, txID := range ids {
		if s.FindTransaction(txID) < 0 {
			return s, ReferenceError{Kind: "transaction", ID: string(txID)}
		}
		doomed[txID] = true
	}

	out := s.Clone()
	out.Transactions = slices.DeleteFunc(out.Transactions, func(t model.Transaction) bool { return doomed[t.ID] })
	if e := out.UI.EditingTransaction; e != nil && doomed[*e] {
		out.UI.EditingTransaction = nil
	}
	out = recompute(out, env)

	if len(doomed) == 1 {
		return notify(out, env, model.NotifySuccess, model.NotifyTransaction, "Transaction deleted"), nil
	}
	return notify(out, env, model.NotifySuccess, model.NotifyTransaction, "%d transactions deleted", len(doomed)), nil
}

func validateTransaction(t model.Transaction, cats []model.Category) error {
	switch {
	case !t.Type.Valid():
		return ValidationError{Field: "type", Description: "must be expense or income"}
	case !t.Amount.IsPositive():
		return ValidationError{Field: "amount", Description: "must be greater than zero"}
	case t.Date.IsZero():
		return ValidationError{Field: "date", Description: "is required"}
	case t.Title == "":
		return ValidationError{Field: "title", Description: "is required"}
	case t.Category == "":
		return ValidationError{Field: "category", Description: "is required"}
	}
	if t.Category != model.Uncategorized && !slices.ContainsFunc(cats, func(c model.Category) bool { return c.ID == t.Category }) {
		return ValidationError{Field: "category", Description: "unknown category " + string(t.Category)}
	}
	return nil
}

// nextTransactionSeq is above every id the ledger has ever issued and never
// below the current Unix millisecond.
func nextTransactionSeq(s model.State, env Env) int64 {
	return max(id.NextTransactionSeq(s.Transactions), s.LastTransactionSeq+1, env.now().UnixMilli())
}

// Package reducer holds every state transition of the ledger. An Action
// never edits the state it is given; it returns a new state or an error and
// the unchanged input.
package reducer

import (
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/analytics"
	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/colors"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// Action is one named state transition.
type Action interface {
	Kind() string
	Apply(s model.State, env Env) (model.State, error)
}

// StorageClearer is implemented by actions that also wipe the persisted
// blob before the new state is saved.
type StorageClearer interface {
	ClearsStorage() bool
}

// Env carries the impure inputs of a transition so reducers stay
// deterministic under test.
type Env struct {
	Now    func() time.Time
	IDs    id.Source
	Colors *colors.Allocator
}

// DefaultEnv uses the wall clock, random UUIDs and a randomly seeded color
// allocator.
func DefaultEnv() Env {
	return Env{Now: time.Now, IDs: id.UUIDSource{}, Colors: colors.NewAllocator(nil)}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) today() model.Date {
	return model.DateOf(e.now())
}

func (e Env) newID() model.ID {
	if e.IDs == nil {
		return id.UUIDSource{}.New()
	}
	return e.IDs.New()
}

func (e Env) nextColor(cats []model.Category) string {
	alloc := e.Colors
	if alloc == nil {
		alloc = colors.NewAllocator(nil)
	}
	return alloc.Next(categories.NewIndex(cats).Colors())
}

// Apply runs actions in order and stops at the first rejection, returning
// the state reached so far together with the error.
func Apply(s model.State, env Env, actions ...Action) (model.State, error) {
	for _, a := range actions {
		next, err := a.Apply(s, env)
		if err != nil {
			return s, fmt.Errorf("%s: %w", a.Kind(), err)
		}
		s = next
	}
	return s, nil
}

// recompute refreshes the derived mirrors from the transaction list.
func recompute(s model.State, env Env) model.State {
	return analytics.Recompute(s, env.today())
}

// notify prepends a notification to the stream.
func notify(s model.State, env Env, typ model.NotificationType, cat model.NotificationCategory, format string, args ...any) model.State {
	n := model.Notification{
		ID:        env.newID(),
		Message:   fmt.Sprintf(format, args...),
		Type:      typ,
		Timestamp: env.now(),
		Category:  cat,
	}
	s.Notifications = append([]model.Notification{n}, s.Notifications...)
	return s
}

// budgetAlert appends a warning at 80% of the monthly limit and an error at
// or over it, when alerts are enabled.
func budgetAlert(s model.State, env Env) model.State {
	sym := model.CurrencySymbol(s.Preferences.Currency)
	switch analytics.ThresholdCrossed(s.Budget) {
	case model.NotifyError:
		return notify(s, env, model.NotifyError, model.NotifyBudget,
			"You have exceeded your monthly budget: spent %s%s of %s%s",
			sym, s.Budget.Spent.StringFixed(2), sym, s.Budget.MonthlyLimit.StringFixed(2))
	case model.NotifyWarning:
		pct := s.Budget.Spent.Mul(hundred).Div(s.Budget.MonthlyLimit).IntPart()
		return notify(s, env, model.NotifyWarning, model.NotifyBudget,
			"You have used %d%% of your monthly budget (%s%s of %s%s)",
			pct, sym, s.Budget.Spent.StringFixed(2), sym, s.Budget.MonthlyLimit.StringFixed(2))
	default:
		return s
	}
}

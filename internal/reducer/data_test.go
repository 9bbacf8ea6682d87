package reducer

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestCompleteSetup(t *testing.T) {
	env := testEnv()
	s := withCategories(t, env, "Food")

	s = apply(t, s, env, CompleteSetup{
		Profile:      PreferencesPatch{Name: ptr("Asha Rao"), Email: ptr("asha@example.com"), Currency: ptr("EUR")},
		MonthlyLimit: ptr(dec("3000")),
		Categories: []AddCategory{
			{Name: "Food", Icon: "🍔"},
			{Name: "Rent", Icon: "🏠", Budget: dec("1200")},
			{Name: ""},
		},
	})

	assert.True(t, s.UI.IsSetupComplete)
	assert.Equal(t, "Asha Rao", s.Preferences.Name)
	assert.Equal(t, "AR", s.Preferences.Initials)
	assert.Equal(t, "EUR", s.Preferences.Currency)
	assertDec(t, "3000", s.Budget.MonthlyLimit)
	assertDec(t, "3000", s.Budget.Remaining)

	require.Len(t, s.Categories, 2, "duplicate and blank names are skipped")
	assert.Equal(t, "Rent", s.Categories[1].Name)
	assert.NotEmpty(t, s.Categories[1].ID)
	assert.NotEqual(t, s.Categories[0].Color, s.Categories[1].Color)
}

func TestResetAllData(t *testing.T) {
	env := testEnv()
	s := apply(t, withCategories(t, env, "Food"), env,
		UpdatePreferences{Patch: PreferencesPatch{Name: ptr("Asha")}},
		SetBudget{BudgetPatch{MonthlyLimit: ptr(dec("100"))}},
		spend("10", 1, model.Uncategorized),
		ToggleModal{Modal: model.ModalGoal},
	)

	reset := apply(t, s, env, ResetAllData{})
	assert.Empty(t, reset.Transactions)
	assert.Empty(t, reset.Categories)
	assert.Empty(t, reset.Notifications)
	assert.True(t, reset.Budget.MonthlyLimit.IsZero())
	assert.False(t, reset.UI.ShowGoalModal)
	assert.Equal(t, "Asha", reset.Preferences.Name)
	assert.True(t, ResetAllData{}.ClearsStorage())

	fresh := apply(t, s, env, ForceFreshStart{})
	assert.Equal(t, model.DefaultPreferences(), fresh.Preferences)
	assert.Empty(t, fresh.Transactions)
	assert.True(t, ForceFreshStart{}.ClearsStorage())
}

func TestImportData_MergesCategoriesByName(t *testing.T) {
	env := testEnv()
	s := model.Fresh()
	s.Categories = []model.Category{{ID: "c1", Name: "Food", Color: "#FF6B6B"}}

	s = apply(t, s, env, ImportData{
		Categories: []model.Category{
			{ID: "xFood", Name: "Food", Color: "#000000"},
			{ID: "xTravel", Name: "Travel", Color: "#4ECDC4"},
		},
		Transactions: []model.Transaction{
			{ID: "1", Type: model.TypeExpense, Amount: dec("10"), Date: sept(1), Category: "xFood", Title: "lunch"},
			{ID: "2", Type: model.TypeExpense, Amount: dec("20"), Date: sept(2), Category: "xTravel", Title: "bus"},
			{ID: "3", Type: model.TypeExpense, Amount: dec("30"), Date: sept(3), Category: "Travel", Title: "train"},
			{ID: "4", Type: model.TypeExpense, Amount: dec("40"), Date: sept(4), Category: "gone", Title: "gift"},
		},
	})

	require.Len(t, s.Categories, 2)
	assert.Equal(t, model.ID("c1"), s.Categories[0].ID)
	assert.Equal(t, "#FF6B6B", s.Categories[0].Color, "existing category untouched")
	assert.Equal(t, model.ID("xTravel"), s.Categories[1].ID)
	assert.Equal(t, "Travel", s.Categories[1].Name)

	byTitle := map[string]model.ID{}
	for _, tx := range s.Transactions {
		byTitle[tx.Title] = tx.Category
	}
	assert.Equal(t, model.ID("c1"), byTitle["lunch"])
	assert.Equal(t, model.ID("xTravel"), byTitle["bus"])
	assert.Equal(t, model.ID("xTravel"), byTitle["train"])
	assert.Equal(t, model.Uncategorized, byTitle["gift"])

	assertDec(t, "100", s.Budget.Spent)
	require.NotEmpty(t, s.Notifications)
	assert.Equal(t, model.NotifySystem, s.Notifications[0].Category)
	assert.Equal(t, "Data imported: 4 transactions, 1 new categories", s.Notifications[0].Message)
}

func TestImportData_ReassignsTakenColor(t *testing.T) {
	env := testEnv()
	s := model.Fresh()
	s.Categories = []model.Category{{ID: "c1", Name: "Food", Color: "#FF6B6B"}}

	s = apply(t, s, env, ImportData{Categories: []model.Category{
		{ID: "xTravel", Name: "Travel", Color: "#ff6b6b"},
		{ID: "xBooks", Name: "Books", Color: "#45B7D1"},
	}})

	require.Len(t, s.Categories, 3)
	assert.Equal(t, "#FF6B6B", s.Categories[0].Color)
	assert.NotEmpty(t, s.Categories[1].Color)
	assert.False(t, strings.EqualFold("#FF6B6B", s.Categories[1].Color), "Travel got Food's color")
	assert.Equal(t, "#45B7D1", s.Categories[2].Color)
}

func TestImportData_TransactionIDs(t *testing.T) {
	env := testEnv()
	s := apply(t, model.Fresh(), env, spend("5", 1, model.Uncategorized))
	existing := s.Transactions[0].ID

	s = apply(t, s, env, ImportData{Transactions: []model.Transaction{
		{ID: existing, Type: model.TypeExpense, Amount: dec("1"), Date: sept(1), Category: model.Uncategorized, Title: "clash"},
		{Type: model.TypeIncome, Amount: dec("2"), Date: sept(1), Category: model.Uncategorized, Title: "no id"},
		{ID: "keep-me", Type: model.TypeExpense, Amount: dec("3"), Date: sept(1), Category: model.Uncategorized, Title: "kept"},
	}})

	require.Len(t, s.Transactions, 4)
	assert.Equal(t, existing, s.Transactions[0].ID, "imported rows are appended")
	seen := map[model.ID]bool{}
	for _, tx := range s.Transactions {
		assert.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
		assert.False(t, tx.Timestamp.IsZero())
	}
	assert.True(t, seen["keep-me"])
}

func TestImportData_BudgetAndRejects(t *testing.T) {
	env := testEnv()
	s := apply(t, model.Fresh(), env, SetBudget{BudgetPatch{MonthlyLimit: ptr(dec("1000")), AlertsEnabled: ptr(true)}})

	s = apply(t, s, env, ImportData{Budget: &BudgetPatch{MonthlyLimit: ptr(dec("2000"))}})
	assertDec(t, "2000", s.Budget.MonthlyLimit)
	assert.True(t, s.Budget.AlertsEnabled, "fields absent from the import are kept")

	bad := ImportData{Transactions: []model.Transaction{
		{Type: model.TypeExpense, Amount: dec("1"), Date: sept(1), Title: "ok"},
		{Type: model.TypeExpense, Amount: decimal.Zero, Date: sept(1), Title: "zero"},
	}}
	out, err := bad.Apply(s, env)
	assert.ErrorAs(t, err, new(ValidationError))
	assert.Contains(t, err.Error(), "transaction 2")
	assert.Equal(t, s, out)

	_, err = ImportData{Budget: &BudgetPatch{WeeklyLimit: ptr(dec("-5"))}}.Apply(s, env)
	assert.ErrorAs(t, err, new(ValidationError))
}

func TestImportData_NewCategoryIDsAndColors(t *testing.T) {
	env := testEnv()
	s := model.Fresh()
	s.Categories = []model.Category{{ID: "c1", Name: "Food", Color: "#FF6B6B"}}

	s = apply(t, s, env, ImportData{Categories: []model.Category{
		{ID: "c1", Name: "Books"},
		{Name: "Pets", Color: "not a color"},
		{ID: "u", Name: "Uncategorized"},
	}, Transactions: []model.Transaction{
		{Type: model.TypeExpense, Amount: dec("1"), Date: sept(1), Category: "c1", Title: "food still"},
		{Type: model.TypeExpense, Amount: dec("1"), Date: sept(1), Category: "u", Title: "none"},
	}})

	require.Len(t, s.Categories, 3)
	books := s.Categories[1]
	assert.Equal(t, "Books", books.Name)
	assert.NotEqual(t, model.ID("c1"), books.ID, "colliding ids are replaced")
	assert.NotEmpty(t, books.Color)
	assert.NotEqual(t, "not a color", s.Categories[2].Color)

	byTitle := map[string]model.ID{}
	for _, tx := range s.Transactions {
		byTitle[tx.Title] = tx.Category
	}
	assert.Equal(t, books.ID, byTitle["food still"], "references follow the imported category")
	assert.Equal(t, model.Uncategorized, byTitle["none"])
}

func TestRefreshAnalytics_Idempotent(t *testing.T) {
	env := testEnv()
	s := apply(t, withCategories(t, env, "Food"), env,
		spend("10", 1, model.Uncategorized),
		SetBudget{BudgetPatch{MonthlyLimit: ptr(dec("100"))}},
	)
	s.Budget.Spent = dec("9999")
	s.Analytics.CurrentMonth.DailyExpenses = nil

	once := apply(t, s, env, RefreshAnalytics{})
	twice := apply(t, once, env, RefreshAnalytics{})
	assert.Equal(t, once, twice)
	assertDec(t, "10", once.Budget.Spent)
	assert.Len(t, once.Analytics.CurrentMonth.DailyExpenses, 30)
	assert.Equal(t, len(s.Notifications), len(once.Notifications))
}

// TestInvariantsHoldOverRandomSequences drives random actions and checks the
// ledger rules after every accepted one.
func TestInvariantsHoldOverRandomSequences(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*7))
			env := testEnv()
			clock := now
			env.Now = func() time.Time {
				clock = clock.Add(time.Second)
				return clock
			}
			s := model.Fresh()
			issued := map[model.ID]bool{}

			for step := 0; step < 200; step++ {
				a := randomAction(rng, s, step)
				next, err := a.Apply(s, env)
				if err != nil {
					assert.Equal(t, s, next, "rejected %s changed state", a.Kind())
					continue
				}
				s = next
				checkInvariants(t, s, env, a.Kind())
				if _, ok := a.(AddTransaction); ok {
					newID := s.Transactions[0].ID
					require.False(t, issued[newID], "transaction id %s issued twice", newID)
					issued[newID] = true
				}
			}
		})
	}
}

func randomAction(rng *rand.Rand, s model.State, step int) Action {
	pickTx := func() model.ID {
		if len(s.Transactions) == 0 {
			return "none"
		}
		return s.Transactions[rng.IntN(len(s.Transactions))].ID
	}
	pickCat := func() model.ID {
		if len(s.Categories) == 0 || rng.IntN(4) == 0 {
			return model.Uncategorized
		}
		return s.Categories[rng.IntN(len(s.Categories))].ID
	}
	amount := decimal.NewFromInt(int64(rng.IntN(500))).Div(decimal.NewFromInt(4))
	date := model.NewDate(2025, time.Month(8+rng.IntN(2)), 1+rng.IntN(28))

	switch rng.IntN(9) {
	case 0, 1, 2:
		typ := model.TypeExpense
		if rng.IntN(5) == 0 {
			typ = model.TypeIncome
		}
		return AddTransaction{Type: typ, Amount: amount, Date: date, Category: pickCat(), Title: fmt.Sprintf("tx%d", step)}
	case 3:
		return UpdateTransaction{ID: pickTx(), Patch: TransactionPatch{Amount: &amount, Date: &date}}
	case 4:
		return DeleteTransaction{ID: pickTx()}
	case 5:
		return DeleteTransactions{IDs: []model.ID{pickTx(), pickTx()}}
	case 6:
		return AddCategory{Name: fmt.Sprintf("cat%d", rng.IntN(12))}
	case 7:
		return DeleteCategory{ID: pickCat()}
	default:
		limit := decimal.NewFromInt(int64(rng.IntN(3000)))
		return SetBudget{BudgetPatch{MonthlyLimit: &limit, AlertsEnabled: ptr(rng.IntN(2) == 0)}}
	}
}

func checkInvariants(t *testing.T, s model.State, env Env, kind string) {
	t.Helper()
	today := model.DateOf(env.now())

	spent := decimal.Zero
	ids := map[model.ID]bool{}
	live := map[model.ID]bool{}
	for _, c := range s.Categories {
		live[c.ID] = true
	}
	for _, tx := range s.Transactions {
		if tx.IsExpense() && tx.Date.In(today.Year, today.Month) {
			spent = spent.Add(tx.Amount)
		}
		require.False(t, ids[tx.ID], "after %s: duplicate transaction id %s", kind, tx.ID)
		ids[tx.ID] = true
		require.True(t, tx.Category == model.Uncategorized || live[tx.Category],
			"after %s: dangling category %s", kind, tx.Category)
	}
	require.True(t, spent.Equal(s.Budget.Spent), "after %s: spent %s, want %s", kind, s.Budget.Spent, spent)
	require.True(t, s.Budget.Remaining.Equal(s.Budget.MonthlyLimit.Sub(s.Budget.Spent)), "after %s: remaining", kind)

	colorsSeen := map[string]bool{}
	for _, c := range s.Categories {
		require.False(t, colorsSeen[c.Color], "after %s: color %s reused", kind, c.Color)
		colorsSeen[c.Color] = true
	}

	daily := s.Analytics.CurrentMonth.DailyExpenses
	for i := 1; i < len(daily); i++ {
		require.True(t, daily[i].Cumulative.GreaterThanOrEqual(daily[i-1].Cumulative))
	}
}

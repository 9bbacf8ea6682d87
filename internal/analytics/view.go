package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// DefaultTopCategories is how many categories a View ranks.
const DefaultTopCategories = 6

// Params select what a View covers.
type Params struct {
	// AsOf is "today". Zero means the current local day.
	AsOf model.Date
	// Year and Month select the month to report on. Zero means AsOf's month.
	Year  int
	Month time.Month
	// TopCategories limits the category ranking. Zero means 6.
	TopCategories int
}

func (p Params) normalize() Params {
	if p.AsOf.IsZero() {
		p.AsOf = model.DateOf(time.Now())
	}
	if p.Year == 0 || p.Month == 0 {
		p.Year, p.Month = p.AsOf.Year, p.AsOf.Month
	}
	if p.TopCategories <= 0 {
		p.TopCategories = DefaultTopCategories
	}
	return p
}

// View is every analytic value shown for one selected month.
type View struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	CurrentMonth bool       `json:"currentMonth"`

	Daily          []model.DailyPoint    `json:"daily"`
	Weekly         []WeekTotal           `json:"weekly"`
	Monthly        []MonthTotal          `json:"monthly"`
	Categories     []model.CategoryTotal `json:"categories"`
	TopCategories  []CategoryShare       `json:"topCategories"`
	Summary        Summary               `json:"summary"`
	Projection     Projection            `json:"projection"`
	Consistency    int                   `json:"consistency"`
	Risk           Risk                  `json:"risk"`
	Trend          float64               `json:"trend"`
	Prediction     Prediction            `json:"prediction"`
	Anomalies      []Anomaly             `json:"anomalies"`
	Acceleration   Acceleration          `json:"acceleration"`
	CategoryBudget []CategoryBudget      `json:"categoryBudgets"`

	Income         decimal.Decimal    `json:"income"`
	Balance        decimal.Decimal    `json:"balance"`
	SavingsRate    float64            `json:"savingsRate"`
	MonthOverMonth float64            `json:"monthOverMonth"`
	Weekdays       [7]decimal.Decimal `json:"weekdays"`
	PaymentMethods []MethodTotal      `json:"paymentMethods"`
	Rebalance      *Rebalance         `json:"rebalance,omitempty"`
	CurrencySymbol string             `json:"currencySymbol"`
}

// Build assembles the View of a state. Projection, prediction, risk and the
// current-month extras always describe AsOf's month; the series, rollups and
// trend describe the selected month.
func Build(s model.State, params Params) View {
	p := params.normalize()
	txns := s.Transactions
	selected := Expenses(txns, p.Year, p.Month)
	current := p.Year == p.AsOf.Year && p.Month == p.AsOf.Month

	v := View{
		Year:           p.Year,
		Month:          p.Month,
		CurrentMonth:   current,
		Daily:          Daily(txns, p.Year, p.Month),
		Weekly:         Weekly(txns, p.Year, p.Month),
		Monthly:        Monthly(txns, p.Year),
		Categories:     ByCategory(selected, s.Categories),
		CategoryBudget: CategoryBudgets(selected, s.Categories),
		Income:         Income(txns, p.Year, p.Month),
		Weekdays:       ByWeekday(selected),
		PaymentMethods: ByPaymentMethod(selected),
		CurrencySymbol: model.CurrencySymbol(s.Preferences.Currency),
	}
	v.Summary = Summarize(v.Daily)
	v.Balance = v.Income.Sub(v.Summary.Total)
	v.TopCategories = Shares(Top(v.Categories, p.TopCategories), v.Summary.Total)
	v.Consistency = Consistency(v.Daily)
	v.Trend = Trend(v.Daily, current, p.AsOf.Day, s.Budget.MonthlyLimit)

	thisMonth := v.Daily
	if !current {
		thisMonth = Daily(txns, p.AsOf.Year, p.AsOf.Month)
	}
	v.Projection = Project(txns, s.Budget.MonthlyLimit, p.AsOf)
	v.Risk = v.Projection.Risk()
	v.Prediction = Predict(thisMonth)
	v.Anomalies = Anomalies(thisMonth)
	v.Acceleration = Accelerating(thisMonth)
	v.SavingsRate = SavingsRate(txns, s.Preferences, v.Projection, p.AsOf)
	v.MonthOverMonth = MonthOverMonth(txns, p.AsOf)

	if s.Budget.MonthlyLimit.IsPositive() {
		r := Rebalancing(v.Projection.TotalSpent, s.Budget.MonthlyLimit, p.AsOf.Day, v.Projection.DaysInMonth)
		v.Rebalance = &r
	}
	return v
}

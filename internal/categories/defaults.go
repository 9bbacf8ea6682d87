package categories

import "github.com/shopspring/decimal"

// Template describes a category to create; ID and Color are filled in at
// creation time.
type Template struct {
	Name        string
	Icon        string
	Budget      decimal.Decimal
	Description string
}

// Starter returns the default category set offered on first run.
func Starter() []Template {
	return []Template{
		{Name: "Food", Icon: "🍔", Description: "Groceries and dining"},
		{Name: "Transportation", Icon: "🚗", Description: "Fuel, fares and parking"},
		{Name: "Shopping", Icon: "🛍️", Description: "Clothes and household items"},
		{Name: "Entertainment", Icon: "🎬", Description: "Movies, events and games"},
		{Name: "Utilities", Icon: "💡", Description: "Electricity, water and internet"},
		{Name: "Health", Icon: "💊", Description: "Medicine and checkups"},
		{Name: "Education", Icon: "📚", Description: "Courses and books"},
		{Name: "Subscriptions", Icon: "📺", Description: "Recurring services"},
	}
}

package transactions

import "github.com/google/uuid"

type seedCategory struct {
	name string
	icon string
}

var defaultIncomeCategories = []seedCategory{
	{name: "Salary", icon: "💼"},
	{name: "Bonus", icon: "🎁"},
	{name: "Investment Income", icon: "📈"},
	{name: "Side Income", icon: "💰"},
	{name: "Other Income", icon: "📥"},
}

var defaultExpenseCategories = []seedCategory{
	{name: "Food & Dining", icon: "🍜"},
	{name: "Transport", icon: "🚗"},
	{name: "Shopping", icon: "🛍️"},
	{name: "Entertainment", icon: "🎮"},
	{name: "Healthcare", icon: "💊"},
	{name: "Education", icon: "📚"},
	{name: "Housing", icon: "🏠"},
	{name: "Utilities & Phone", icon: "📱"},
	{name: "Other Expenses", icon: "📤"},
}

// DefaultCategorySeed builds the builtin income and expense categories for
// a new family.
func DefaultCategorySeed(familyID string) []Category {
	result := make([]Category, 0, len(defaultIncomeCategories)+len(defaultExpenseCategories))
	for i, seed := range defaultIncomeCategories {
		result = append(result, Category{
			ID:        uuid.NewString(),
			FamilyID:  familyID,
			Name:      seed.name,
			Type:      TypeIncome,
			Icon:      seed.icon,
			IsBuiltin: true,
			SortOrder: i + 1,
		})
	}
	for i, seed := range defaultExpenseCategories {
		result = append(result, Category{
			ID:        uuid.NewString(),
			FamilyID:  familyID,
			Name:      seed.name,
			Type:      TypeExpense,
			Icon:      seed.icon,
			IsBuiltin: true,
			SortOrder: i + 1,
		})
	}
	return result
}

package assets

import "github.com/google/uuid"

type seedCategory struct {
	name     string
	icon     string
	color    string
	children []seedChild
}

type seedChild struct {
	name string
	icon string
}

// Top-level names are load-bearing: the statistics engine classifies assets
// by them (see bucketByTopCategory).
var defaultCategoryTree = []seedCategory{
	{
		name: "Fixed Assets", icon: "🏠", color: "#8B5CF6",
		children: []seedChild{
			{name: "Real Estate", icon: "🏢"},
			{name: "Vehicles", icon: "🚗"},
			{name: "Valuables", icon: "💎"},
		},
	},
	{
		name: "Liquid Assets", icon: "💰", color: "#10B981",
		children: []seedChild{
			{name: "Cash", icon: "💵"},
			{name: "Bank Deposits", icon: "🏦"},
			{name: "Money Market Funds", icon: "🪙"},
		},
	},
	{
		name: "Investments", icon: "📈", color: "#F59E0B",
		children: []seedChild{
			{name: "Stocks & Funds", icon: "📊"},
			{name: "Insurance", icon: "🛡️"},
			{name: "Bonds", icon: "📜"},
			{name: "Crypto", icon: "₿"},
		},
	},
	{
		name: "Liabilities", icon: "📉", color: "#EF4444",
		children: []seedChild{
			{name: "Mortgage", icon: "🏠"},
			{name: "Car Loan", icon: "🚗"},
			{name: "Credit Card Debt", icon: "💳"},
			{name: "Other Loans", icon: "📝"},
		},
	},
}

// DefaultCategorySeed builds the builtin two-level category tree for a new
// family.
func DefaultCategorySeed(familyID string) []Category {
	result := make([]Category, 0, 20)
	for i, top := range defaultCategoryTree {
		parent := Category{
			ID:        uuid.NewString(),
			FamilyID:  familyID,
			Name:      top.name,
			Icon:      top.icon,
			Color:     top.color,
			IsBuiltin: true,
			SortOrder: i + 1,
		}
		result = append(result, parent)

		for j, child := range top.children {
			parentID := parent.ID
			result = append(result, Category{
				ID:        uuid.NewString(),
				FamilyID:  familyID,
				Name:      child.name,
				ParentID:  &parentID,
				Icon:      child.icon,
				Color:     top.color,
				IsBuiltin: true,
				SortOrder: j + 1,
			})
		}
	}
	return result
}

package assets

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func seedDefaultTree(repo *fakeAssetsRepo, familyID string) map[string]string {
	categories := DefaultCategorySeed(familyID)
	repo.addCategories(categories)

	byName := make(map[string]string, len(categories))
	for _, category := range categories {
		byName[category.Name] = category.ID
	}
	return byName
}

func seedValuedAsset(repo *fakeAssetsRepo, id, familyID, categoryID, value, currency string, status Status) {
	fid := familyID
	repo.assets[id] = &Asset{
		ID:           id,
		FamilyID:     &fid,
		CategoryID:   categoryID,
		HolderID:     "member",
		Name:         "Asset " + id,
		InitialValue: dec(value),
		CurrentValue: dec(value),
		Currency:     currency,
		PurchaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
}

func TestStatistics(t *testing.T) {
	repo := newFakeAssetsRepo()
	byName := seedDefaultTree(repo, "fam-1")
	svc := NewService(repo, newTestGuard())

	seedValuedAsset(repo, "house", "fam-1", byName["Real Estate"], "1000000", "CNY", StatusActive)
	seedValuedAsset(repo, "cash-usd", "fam-1", byName["Cash"], "1000", "USD", StatusActive)
	seedValuedAsset(repo, "mortgage", "fam-1", byName["Mortgage"], "500000", "CNY", StatusActive)
	// Excluded from every aggregate: not active.
	seedValuedAsset(repo, "old-car", "fam-1", byName["Vehicles"], "30000", "CNY", StatusDisposed)
	seedValuedAsset(repo, "pending", "fam-1", byName["Stocks & Funds"], "5000", "CNY", StatusPending)

	stats, err := svc.Statistics(context.Background(), "fam-1", "member")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.Currency != BaseCurrency {
		t.Fatalf("expected base currency %s, got %s", BaseCurrency, stats.Currency)
	}
	// 1000 USD at the static 7.25 rate.
	if !stats.LiquidAssets.Equal(dec("7250")) {
		t.Fatalf("expected liquid 7250, got %s", stats.LiquidAssets)
	}
	if !stats.FixedAssets.Equal(dec("1000000")) {
		t.Fatalf("expected fixed 1000000, got %s", stats.FixedAssets)
	}
	if !stats.InvestmentAssets.IsZero() {
		t.Fatalf("expected no investments, got %s", stats.InvestmentAssets)
	}
	if !stats.TotalAssets.Equal(dec("1007250")) {
		t.Fatalf("expected total assets 1007250, got %s", stats.TotalAssets)
	}
	if !stats.TotalLiabilities.Equal(dec("500000")) {
		t.Fatalf("expected liabilities 500000, got %s", stats.TotalLiabilities)
	}
	if !stats.NetWorth.Equal(dec("507250")) {
		t.Fatalf("expected net worth 507250, got %s", stats.NetWorth)
	}
	expectedRatio := dec("500000").Div(dec("1007250")).Mul(decimal.NewFromInt(100)).Round(2)
	if !stats.LiabilityRatio.Equal(expectedRatio) {
		t.Fatalf("expected ratio %s, got %s", expectedRatio, stats.LiabilityRatio)
	}
}

func TestStatisticsEmptyFamily(t *testing.T) {
	repo := newFakeAssetsRepo()
	seedDefaultTree(repo, "fam-1")
	svc := NewService(repo, newTestGuard())

	stats, err := svc.Statistics(context.Background(), "fam-1", "member")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !stats.TotalAssets.IsZero() || !stats.NetWorth.IsZero() || !stats.LiabilityRatio.IsZero() {
		t.Fatalf("expected all-zero statistics, got %+v", stats)
	}
}

func TestDistributionOmitsZeroCategories(t *testing.T) {
	repo := newFakeAssetsRepo()
	byName := seedDefaultTree(repo, "fam-1")
	svc := NewService(repo, newTestGuard())

	seedValuedAsset(repo, "house", "fam-1", byName["Real Estate"], "1000000", "CNY", StatusActive)
	seedValuedAsset(repo, "cash", "fam-1", byName["Cash"], "7250", "CNY", StatusActive)
	seedValuedAsset(repo, "mortgage", "fam-1", byName["Mortgage"], "500000", "CNY", StatusActive)

	slices, err := svc.Distribution(context.Background(), "fam-1", "member")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(slices) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(slices))
	}

	amounts := make(map[string]decimal.Decimal, len(slices))
	total := decimal.Zero
	for _, slice := range slices {
		amounts[slice.CategoryName] = slice.Amount
		total = total.Add(slice.Percentage)
		if slice.CategoryName == "Investments" {
			t.Fatalf("zero-amount category should be omitted")
		}
	}
	if !amounts["Fixed Assets"].Equal(dec("1000000")) {
		t.Fatalf("expected fixed 1000000, got %s", amounts["Fixed Assets"])
	}
	if !amounts["Liquid Assets"].Equal(dec("7250")) {
		t.Fatalf("expected liquid 7250, got %s", amounts["Liquid Assets"])
	}
	if !amounts["Liabilities"].Equal(dec("500000")) {
		t.Fatalf("expected liabilities 500000, got %s", amounts["Liabilities"])
	}
	// Percentages are rounded per slice; the sum stays within a narrow band
	// of 100.
	if total.LessThan(dec("99.9")) || total.GreaterThan(dec("100.1")) {
		t.Fatalf("expected percentages near 100, got %s", total)
	}
}

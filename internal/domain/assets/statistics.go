package assets

import (
	"context"

	"github.com/shopspring/decimal"
)

// Bucket is the coarse asset class used by the statistics engine. Assets
// map to a bucket through their category's top-level ancestor; assets under
// an unknown top-level category stay out of every bucket but remain in the
// raw asset list.
type Bucket string

const (
	BucketFixed      Bucket = "fixed"
	BucketLiquid     Bucket = "liquid"
	BucketInvestment Bucket = "investment"
	BucketLiability  Bucket = "liability"
)

var bucketByTopCategory = map[string]Bucket{
	"Fixed Assets":  BucketFixed,
	"Liquid Assets": BucketLiquid,
	"Investments":   BucketInvestment,
	"Liabilities":   BucketLiability,
}

// Statistics aggregates the family's active assets in the base currency.
type Statistics struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	FixedAssets      decimal.Decimal `json:"fixedAssets"`
	LiquidAssets     decimal.Decimal `json:"liquidAssets"`
	InvestmentAssets decimal.Decimal `json:"investmentAssets"`
	LiabilityRatio   decimal.Decimal `json:"liabilityRatio"`
	Currency         string          `json:"currency"`
}

// DistributionSlice is one top-level category's share of the family's
// combined holdings (assets plus liabilities).
type DistributionSlice struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// Statistics computes category totals and net worth over the family's
// active assets, normalized into the base currency with the static rate
// table.
func (s *Service) Statistics(ctx context.Context, familyID, userID string) (*Statistics, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}

	assets, categories, err := s.loadActive(ctx, familyID)
	if err != nil {
		return nil, err
	}
	buckets := bucketIndex(categories)

	totals := map[Bucket]decimal.Decimal{}
	totalAssets := decimal.Zero
	totalLiabilities := decimal.Zero

	for _, asset := range assets {
		value := toBase(asset.CurrentValue, asset.Currency)
		bucket, ok := buckets[asset.CategoryID]
		if ok {
			totals[bucket] = totals[bucket].Add(value)
		}
		if bucket == BucketLiability {
			totalLiabilities = totalLiabilities.Add(value)
			continue
		}
		totalAssets = totalAssets.Add(value)
	}

	ratio := decimal.Zero
	if totalAssets.IsPositive() {
		ratio = totalLiabilities.Div(totalAssets).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Statistics{
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		NetWorth:         totalAssets.Sub(totalLiabilities),
		FixedAssets:      totals[BucketFixed],
		LiquidAssets:     totals[BucketLiquid],
		InvestmentAssets: totals[BucketInvestment],
		LiabilityRatio:   ratio,
		Currency:         BaseCurrency,
	}, nil
}

// Distribution returns per-top-level-category amounts and percentages over
// the combined total. Categories with a zero amount are omitted.
func (s *Service) Distribution(ctx context.Context, familyID, userID string) ([]DistributionSlice, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}

	assets, categories, err := s.loadActive(ctx, familyID)
	if err != nil {
		return nil, err
	}

	topByID := map[string]*Category{}
	parentOf := map[string]string{}
	for i := range categories {
		c := &categories[i]
		if c.ParentID == nil {
			topByID[c.ID] = c
			continue
		}
		parentOf[c.ID] = *c.ParentID
	}

	amounts := map[string]decimal.Decimal{}
	combined := decimal.Zero
	for _, asset := range assets {
		topID := asset.CategoryID
		if parent, ok := parentOf[topID]; ok {
			topID = parent
		}
		if _, ok := topByID[topID]; !ok {
			continue
		}
		value := toBase(asset.CurrentValue, asset.Currency)
		amounts[topID] = amounts[topID].Add(value)
		combined = combined.Add(value)
	}

	result := make([]DistributionSlice, 0, len(amounts))
	for _, category := range categories {
		if category.ParentID != nil {
			continue
		}
		amount, ok := amounts[category.ID]
		if !ok || amount.IsZero() {
			continue
		}
		percentage := decimal.Zero
		if combined.IsPositive() {
			percentage = amount.Div(combined).Mul(decimal.NewFromInt(100)).Round(2)
		}
		result = append(result, DistributionSlice{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Color:        category.Color,
			Amount:       amount,
			Percentage:   percentage,
		})
	}

	return result, nil
}

func (s *Service) loadActive(ctx context.Context, familyID string) ([]Asset, []Category, error) {
	all, err := s.repo.ListAssets(ctx, familyID)
	if err != nil {
		return nil, nil, err
	}
	active := make([]Asset, 0, len(all))
	for _, asset := range all {
		if asset.Status == StatusActive {
			active = append(active, asset)
		}
	}

	categories, err := s.repo.ListCategories(ctx, familyID)
	if err != nil {
		return nil, nil, err
	}

	return active, categories, nil
}

// bucketIndex maps every category id, child or top-level, to its bucket by
// walking at most one level up.
func bucketIndex(categories []Category) map[string]Bucket {
	topBucket := map[string]Bucket{}
	for _, c := range categories {
		if c.ParentID != nil {
			continue
		}
		if bucket, ok := bucketByTopCategory[c.Name]; ok {
			topBucket[c.ID] = bucket
		}
	}

	index := map[string]Bucket{}
	for _, c := range categories {
		topID := c.ID
		if c.ParentID != nil {
			topID = *c.ParentID
		}
		if bucket, ok := topBucket[topID]; ok {
			index[c.ID] = bucket
		}
	}
	return index
}

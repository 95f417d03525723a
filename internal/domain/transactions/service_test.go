package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-ledger-go/internal/domain/family"
	"family-ledger-go/internal/domain/role"
	"github.com/shopspring/decimal"
)

type guardRepo struct {
	family.Repository
	roles map[string]role.Role
}

func (g *guardRepo) GetMember(ctx context.Context, familyID, userID string) (*family.Membership, error) {
	memberRole, ok := g.roles[userID]
	if !ok {
		return nil, family.ErrMemberNotFound
	}
	return &family.Membership{FamilyID: familyID, UserID: userID, Role: memberRole}, nil
}

func newTestGuard() *family.Guard {
	return family.NewGuard(&guardRepo{roles: map[string]role.Role{
		"viewer": role.Viewer,
		"member": role.Member,
	}})
}

type fakeTransactionsRepo struct {
	transactions map[string]*Transaction
	categories   map[string]*Category
}

func newFakeTransactionsRepo() *fakeTransactionsRepo {
	return &fakeTransactionsRepo{
		transactions: make(map[string]*Transaction),
		categories:   make(map[string]*Category),
	}
}

func (r *fakeTransactionsRepo) addCategory(id, familyID string, categoryType Type) {
	r.categories[id] = &Category{ID: id, FamilyID: familyID, Name: "Cat " + id, Type: categoryType}
}

func (r *fakeTransactionsRepo) CreateTransaction(ctx context.Context, transaction *Transaction) error {
	stored := *transaction
	r.transactions[transaction.ID] = &stored
	return nil
}

func (r *fakeTransactionsRepo) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	transaction, ok := r.transactions[transactionID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	copied := *transaction
	return &copied, nil
}

func (r *fakeTransactionsRepo) ListTransactions(ctx context.Context, familyID string, filter ListFilter) ([]Transaction, error) {
	result := make([]Transaction, 0)
	for _, transaction := range r.transactions {
		if transaction.FamilyID == nil || *transaction.FamilyID != familyID {
			continue
		}
		if filter.From != nil && transaction.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && transaction.Date.After(*filter.To) {
			continue
		}
		if filter.Type != nil && transaction.Type != *filter.Type {
			continue
		}
		if filter.CategoryID != nil && transaction.CategoryID != *filter.CategoryID {
			continue
		}
		result = append(result, *transaction)
	}
	return result, nil
}

func (r *fakeTransactionsRepo) UpdateTransaction(ctx context.Context, transaction *Transaction) error {
	if _, ok := r.transactions[transaction.ID]; !ok {
		return ErrTransactionNotFound
	}
	stored := *transaction
	r.transactions[transaction.ID] = &stored
	return nil
}

func (r *fakeTransactionsRepo) DeleteTransaction(ctx context.Context, familyID, transactionID string) (bool, error) {
	transaction, ok := r.transactions[transactionID]
	if !ok || transaction.FamilyID == nil || *transaction.FamilyID != familyID {
		return false, nil
	}
	delete(r.transactions, transactionID)
	return true, nil
}

func (r *fakeTransactionsRepo) ListCategories(ctx context.Context, familyID string) ([]Category, error) {
	result := make([]Category, 0)
	for _, category := range r.categories {
		if category.FamilyID == familyID {
			result = append(result, *category)
		}
	}
	return result, nil
}

func (r *fakeTransactionsRepo) GetCategory(ctx context.Context, familyID, categoryID string) (*Category, error) {
	category, ok := r.categories[categoryID]
	if !ok || category.FamilyID != familyID {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (r *fakeTransactionsRepo) CreateCategories(ctx context.Context, categories []Category) error {
	for i := range categories {
		c := categories[i]
		r.categories[c.ID] = &c
	}
	return nil
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCreateTransactionValidations(t *testing.T) {
	repo := newFakeTransactionsRepo()
	repo.addCategory("cat-income", "fam-1", TypeIncome)
	repo.addCategory("cat-expense", "fam-1", TypeExpense)
	svc := NewService(repo, newTestGuard())
	ctx := context.Background()
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	base := CreateTransactionInput{
		CategoryID: "cat-income",
		Type:       TypeIncome,
		Amount:     dec("100"),
		Date:       date,
	}

	if _, err := svc.CreateTransaction(ctx, "fam-1", "viewer", base); !errors.Is(err, family.ErrEditForbidden) {
		t.Fatalf("viewer: expected ErrEditForbidden, got %v", err)
	}

	input := base
	input.Type = Type("bogus")
	if _, err := svc.CreateTransaction(ctx, "fam-1", "member", input); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	input = base
	input.Amount = dec("0")
	if _, err := svc.CreateTransaction(ctx, "fam-1", "member", input); !errors.Is(err, ErrAmountNotPositive) {
		t.Fatalf("expected ErrAmountNotPositive, got %v", err)
	}

	input = base
	input.CategoryID = "cat-expense"
	if _, err := svc.CreateTransaction(ctx, "fam-1", "member", input); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("type mismatch: expected ErrCategoryNotFound, got %v", err)
	}

	result, err := svc.CreateTransaction(ctx, "fam-1", "member", base)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Currency != "CNY" {
		t.Fatalf("expected default currency CNY, got %q", result.Currency)
	}
	if result.MemberID != "member" {
		t.Fatalf("expected member defaulted to actor, got %q", result.MemberID)
	}
}

func TestCreateTransferSkipsCategoryTypeCheck(t *testing.T) {
	repo := newFakeTransactionsRepo()
	repo.addCategory("cat-expense", "fam-1", TypeExpense)
	svc := NewService(repo, newTestGuard())

	_, err := svc.CreateTransaction(context.Background(), "fam-1", "member", CreateTransactionInput{
		CategoryID: "cat-expense",
		Type:       TypeTransfer,
		Amount:     dec("50"),
		Date:       time.Now(),
	})
	if err != nil {
		t.Fatalf("expected transfer to bypass category type check, got %v", err)
	}
}

func TestTotalsExcludeTransfers(t *testing.T) {
	repo := newFakeTransactionsRepo()
	famID := "fam-1"
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.transactions["t1"] = &Transaction{ID: "t1", FamilyID: &famID, Type: TypeIncome, Amount: dec("1000"), Date: date}
	repo.transactions["t2"] = &Transaction{ID: "t2", FamilyID: &famID, Type: TypeExpense, Amount: dec("300"), Date: date}
	repo.transactions["t3"] = &Transaction{ID: "t3", FamilyID: &famID, Type: TypeTransfer, Amount: dec("9999"), Date: date}
	svc := NewService(repo, newTestGuard())

	totals, err := svc.Totals(context.Background(), "fam-1", "member", ListFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !totals.Income.Equal(dec("1000")) || !totals.Expense.Equal(dec("300")) || !totals.Net.Equal(dec("700")) {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestUpdateTransaction(t *testing.T) {
	repo := newFakeTransactionsRepo()
	famID := "fam-1"
	repo.addCategory("cat-income", "fam-1", TypeIncome)
	repo.addCategory("cat-expense", "fam-1", TypeExpense)
	repo.transactions["t1"] = &Transaction{ID: "t1", FamilyID: &famID, Type: TypeIncome, CategoryID: "cat-income", Amount: dec("100"), Date: time.Now()}
	svc := NewService(repo, newTestGuard())
	ctx := context.Background()

	bad := dec("-5")
	if _, err := svc.UpdateTransaction(ctx, "fam-1", "member", "t1", UpdateTransactionInput{Amount: &bad}); !errors.Is(err, ErrAmountNotPositive) {
		t.Fatalf("expected ErrAmountNotPositive, got %v", err)
	}

	wrongCategory := "cat-expense"
	if _, err := svc.UpdateTransaction(ctx, "fam-1", "member", "t1", UpdateTransactionInput{CategoryID: &wrongCategory}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound on type mismatch, got %v", err)
	}

	amount := dec("250")
	result, err := svc.UpdateTransaction(ctx, "fam-1", "member", "t1", UpdateTransactionInput{Amount: &amount})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Amount.Equal(amount) {
		t.Fatalf("expected amount 250, got %s", result.Amount)
	}
}

func TestTransactionScopedToFamily(t *testing.T) {
	repo := newFakeTransactionsRepo()
	otherFam := "fam-2"
	repo.transactions["t1"] = &Transaction{ID: "t1", FamilyID: &otherFam, Type: TypeIncome, Amount: dec("100"), Date: time.Now()}
	svc := NewService(repo, newTestGuard())

	if err := svc.DeleteTransaction(context.Background(), "fam-1", "member", "t1"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if _, ok := repo.transactions["t1"]; !ok {
		t.Fatalf("expected foreign transaction untouched")
	}
}

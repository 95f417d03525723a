package transactions

import (
	"context"
	"strings"
	"time"

	"family-ledger-go/internal/domain/family"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo  Repository
	guard *family.Guard
}

func NewService(repo Repository, guard *family.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

func (s *Service) CreateTransaction(ctx context.Context, familyID, userID string, input CreateTransactionInput) (*Transaction, error) {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return nil, err
	}

	if !input.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !input.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	category, err := s.repo.GetCategory(ctx, familyID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	// Transfers have no category type of their own.
	if input.Type != TypeTransfer && category.Type != input.Type {
		return nil, ErrCategoryNotFound
	}

	memberID := input.MemberID
	if memberID == "" {
		memberID = userID
	}

	transaction := Transaction{
		ID:         uuid.NewString(),
		FamilyID:   &familyID,
		MemberID:   memberID,
		CategoryID: input.CategoryID,
		Type:       input.Type,
		Amount:     input.Amount,
		Currency:   strings.ToUpper(strings.TrimSpace(input.Currency)),
		Date:       input.Date,
		Notes:      input.Notes,
	}
	if transaction.Currency == "" {
		transaction.Currency = "CNY"
	}
	if err := s.repo.CreateTransaction(ctx, &transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (s *Service) ListTransactions(ctx context.Context, familyID, userID string, filter ListFilter) ([]Transaction, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, familyID, filter)
}

func (s *Service) UpdateTransaction(ctx context.Context, familyID, userID, transactionID string, input UpdateTransactionInput) (*Transaction, error) {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return nil, err
	}

	transaction, err := s.getFamilyTransaction(ctx, familyID, transactionID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		category, err := s.repo.GetCategory(ctx, familyID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if transaction.Type != TypeTransfer && category.Type != transaction.Type {
			return nil, ErrCategoryNotFound
		}
		transaction.CategoryID = *input.CategoryID
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		transaction.Amount = *input.Amount
	}
	if input.Date != nil {
		transaction.Date = *input.Date
	}
	if input.Notes != nil {
		transaction.Notes = input.Notes
	}
	transaction.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTransaction(ctx, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, familyID, userID, transactionID string) error {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteTransaction(ctx, familyID, transactionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

// Totals sums income and expense over the filtered period. Transfers move
// money between family members and cancel out, so they are excluded.
func (s *Service) Totals(ctx context.Context, familyID, userID string, filter ListFilter) (*Totals, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListTransactions(ctx, familyID, filter)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, transaction := range items {
		switch transaction.Type {
		case TypeIncome:
			income = income.Add(transaction.Amount)
		case TypeExpense:
			expense = expense.Add(transaction.Amount)
		}
	}

	return &Totals{
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}, nil
}

func (s *Service) ListCategories(ctx context.Context, familyID, userID string) ([]Category, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, familyID)
}

func (s *Service) getFamilyTransaction(ctx context.Context, familyID, transactionID string) (*Transaction, error) {
	transaction, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.FamilyID == nil || *transaction.FamilyID != familyID {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}

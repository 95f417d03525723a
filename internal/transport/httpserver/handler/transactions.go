package handler

import (
	"errors"
	"net/http"
	"time"

	transactionsdomain "family-ledger-go/internal/domain/transactions"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	MemberID   string          `json:"memberId"`
	CategoryID string          `json:"categoryId"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Date       string          `json:"date"`
	Notes      *string         `json:"notes"`
}

type updateTransactionRequest struct {
	CategoryID *string          `json:"categoryId"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       *string          `json:"date"`
	Notes      *string          `json:"notes"`
}

type transactionResponse struct {
	ID         string                  `json:"id"`
	FamilyID   *string                 `json:"familyId"`
	MemberID   string                  `json:"memberId"`
	CategoryID string                  `json:"categoryId"`
	Type       transactionsdomain.Type `json:"type"`
	Amount     decimal.Decimal         `json:"amount"`
	Currency   string                  `json:"currency"`
	Date       time.Time               `json:"date"`
	Notes      *string                 `json:"notes,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	list, err := h.Transactions.ListTransactions(r.Context(), familyID, user.ID, filter)
	if err != nil {
		if h.writeAccessError(w, err, "transactions.list", user.ID) {
			return
		}
		h.log.InternalError("transactions.list: list failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(list))
	for i := range list {
		response = append(response, toTransactionResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	transaction, err := h.Transactions.CreateTransaction(r.Context(), familyID, user.ID, transactionsdomain.CreateTransactionInput{
		MemberID:   req.MemberID,
		CategoryID: req.CategoryID,
		Type:       transactionsdomain.Type(req.Type),
		Amount:     req.Amount,
		Currency:   req.Currency,
		Date:       date,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeTransactionError(w, err, "transactions.create", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(transaction))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := transactionsdomain.UpdateTransactionInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Notes:      req.Notes,
	}
	if req.Date != nil {
		parsed, err := parseDateRequired(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
			return
		}
		input.Date = &parsed
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	transactionID := chi.URLParam(r, "transaction_id")

	transaction, err := h.Transactions.UpdateTransaction(r.Context(), familyID, user.ID, transactionID, input)
	if err != nil {
		h.writeTransactionError(w, err, "transactions.update", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	transactionID := chi.URLParam(r, "transaction_id")

	if err := h.Transactions.DeleteTransaction(r.Context(), familyID, user.ID, transactionID); err != nil {
		h.writeTransactionError(w, err, "transactions.delete", user.ID, familyID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) TransactionTotals(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	totals, err := h.Transactions.Totals(r.Context(), familyID, user.ID, filter)
	if err != nil {
		if h.writeAccessError(w, err, "transactions.totals", user.ID) {
			return
		}
		h.log.InternalError("transactions.totals: totals failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

func (h *Handlers) ListTransactionCategories(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	categories, err := h.Transactions.ListCategories(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "transactions.list_categories", user.ID) {
			return
		}
		h.log.InternalError("transactions.list_categories: list failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	type categoryResponse struct {
		ID        string                  `json:"id"`
		Name      string                  `json:"name"`
		Type      transactionsdomain.Type `json:"type"`
		Icon      string                  `json:"icon"`
		IsBuiltin bool                    `json:"isBuiltin"`
		SortOrder int                     `json:"sortOrder"`
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, categoryResponse{
			ID:        category.ID,
			Name:      category.Name,
			Type:      category.Type,
			Icon:      category.Icon,
			IsBuiltin: category.IsBuiltin,
			SortOrder: category.SortOrder,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) writeTransactionError(w http.ResponseWriter, err error, op, userID, familyID string) {
	if h.writeAccessError(w, err, op, userID) {
		return
	}

	switch {
	case errors.Is(err, transactionsdomain.ErrTransactionNotFound):
		h.log.BusinessError(op+": transaction not found", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
	case errors.Is(err, transactionsdomain.ErrCategoryNotFound):
		h.log.BusinessError(op+": category not found", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusNotFound, "category_not_found", "transaction category not found")
	case errors.Is(err, transactionsdomain.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid transaction type")
	case errors.Is(err, transactionsdomain.ErrAmountNotPositive):
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func transactionFilter(r *http.Request) (transactionsdomain.ListFilter, error) {
	var filter transactionsdomain.ListFilter

	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		return filter, errors.New("from must be YYYY-MM-DD")
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		return filter, errors.New("to must be YYYY-MM-DD")
	}
	filter.From = from
	filter.To = to

	if value := r.URL.Query().Get("type"); value != "" {
		parsed := transactionsdomain.Type(value)
		if !parsed.Valid() {
			return filter, errors.New("invalid transaction type")
		}
		filter.Type = &parsed
	}
	if value := r.URL.Query().Get("category_id"); value != "" {
		filter.CategoryID = &value
	}

	return filter, nil
}

func toTransactionResponse(transaction *transactionsdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:         transaction.ID,
		FamilyID:   transaction.FamilyID,
		MemberID:   transaction.MemberID,
		CategoryID: transaction.CategoryID,
		Type:       transaction.Type,
		Amount:     transaction.Amount,
		Currency:   transaction.Currency,
		Date:       transaction.Date,
		Notes:      transaction.Notes,
		CreatedAt:  transaction.CreatedAt,
	}
}

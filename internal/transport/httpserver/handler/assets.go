package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	assetsdomain "family-ledger-go/internal/domain/assets"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createAssetRequest struct {
	CategoryID   string           `json:"categoryId"`
	HolderID     string           `json:"holderId"`
	Name         string           `json:"name"`
	InitialValue decimal.Decimal  `json:"initialValue"`
	CurrentValue *decimal.Decimal `json:"currentValue"`
	Currency     string           `json:"currency"`
	PurchaseDate string           `json:"purchaseDate"`
	Status       string           `json:"status"`
	Attributes   *string          `json:"attributes"`
	Notes        *string          `json:"notes"`
}

type updateAssetRequest struct {
	Name         *string          `json:"name"`
	CategoryID   *string          `json:"categoryId"`
	HolderID     *string          `json:"holderId"`
	CurrentValue *decimal.Decimal `json:"currentValue"`
	PurchaseDate *string          `json:"purchaseDate"`
	Attributes   *string          `json:"attributes"`
	Notes        *string          `json:"notes"`
}

type recordChangeRequest struct {
	Type           string           `json:"type"`
	Amount         *decimal.Decimal `json:"amount"`
	NewValue       *decimal.Decimal `json:"newValue"`
	DisposeValue   *decimal.Decimal `json:"disposeValue"`
	RelatedAssetID *string          `json:"relatedAssetId"`
	Date           string           `json:"date"`
	Notes          *string          `json:"notes"`
}

type createAssetCategoryRequest struct {
	Name      string  `json:"name"`
	ParentID  *string `json:"parentId"`
	Icon      string  `json:"icon"`
	Color     string  `json:"color"`
	SortOrder int     `json:"sortOrder"`
}

type assetResponse struct {
	ID           string              `json:"id"`
	FamilyID     *string             `json:"familyId"`
	CategoryID   string              `json:"categoryId"`
	HolderID     string              `json:"holderId"`
	Name         string              `json:"name"`
	InitialValue decimal.Decimal     `json:"initialValue"`
	CurrentValue decimal.Decimal     `json:"currentValue"`
	Currency     string              `json:"currency"`
	PurchaseDate time.Time           `json:"purchaseDate"`
	Status       assetsdomain.Status `json:"status"`
	Attributes   *string             `json:"attributes,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type changeResponse struct {
	ID             string                  `json:"id"`
	AssetID        string                  `json:"assetId"`
	Type           assetsdomain.ChangeType `json:"type"`
	Amount         decimal.Decimal         `json:"amount"`
	BeforeValue    decimal.Decimal         `json:"beforeValue"`
	AfterValue     decimal.Decimal         `json:"afterValue"`
	ProfitLoss     *decimal.Decimal        `json:"profitLoss,omitempty"`
	ProfitLossRate *decimal.Decimal        `json:"profitLossRate,omitempty"`
	RelatedAssetID *string                 `json:"relatedAssetId,omitempty"`
	Date           time.Time               `json:"date"`
	Notes          *string                 `json:"notes,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	list, err := h.Assets.ListAssets(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "assets.list", user.ID) {
			return
		}
		h.log.InternalError("assets.list: list failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]assetResponse, 0, len(list))
	for i := range list {
		response = append(response, toAssetResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	purchaseDate, err := parseDateRequired(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "purchaseDate must be YYYY-MM-DD")
		return
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	holderID := strings.TrimSpace(req.HolderID)
	if holderID == "" {
		holderID = user.ID
	}

	asset, err := h.Assets.CreateAsset(r.Context(), familyID, user.ID, assetsdomain.CreateAssetInput{
		CategoryID:   req.CategoryID,
		HolderID:     holderID,
		Name:         req.Name,
		InitialValue: req.InitialValue,
		CurrentValue: req.CurrentValue,
		Currency:     req.Currency,
		PurchaseDate: purchaseDate,
		Status:       assetsdomain.Status(req.Status),
		Attributes:   req.Attributes,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeAssetError(w, err, "assets.create", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "asset_id")

	asset, err := h.Assets.GetAsset(r.Context(), familyID, user.ID, assetID)
	if err != nil {
		h.writeAssetError(w, err, "assets.get", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handlers) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := assetsdomain.UpdateAssetInput{
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		HolderID:     req.HolderID,
		CurrentValue: req.CurrentValue,
		Attributes:   req.Attributes,
		Notes:        req.Notes,
	}
	if req.PurchaseDate != nil {
		parsed, err := parseDateRequired(*req.PurchaseDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "purchaseDate must be YYYY-MM-DD")
			return
		}
		input.PurchaseDate = &parsed
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "asset_id")

	asset, err := h.Assets.UpdateAsset(r.Context(), familyID, user.ID, assetID, input)
	if err != nil {
		h.writeAssetError(w, err, "assets.update", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handlers) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "asset_id")

	if err := h.Assets.DeleteAsset(r.Context(), familyID, user.ID, assetID); err != nil {
		h.writeAssetError(w, err, "assets.delete", user.ID, familyID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListAssetChanges(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "asset_id")

	changes, err := h.Assets.ListChanges(r.Context(), familyID, user.ID, assetID)
	if err != nil {
		h.writeAssetError(w, err, "assets.list_changes", user.ID, familyID)
		return
	}

	response := make([]changeResponse, 0, len(changes))
	for i := range changes {
		response = append(response, toChangeResponse(&changes[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RecordAssetChange(w http.ResponseWriter, r *http.Request) {
	var req recordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDateRequired(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "asset_id")
	ctx := r.Context()

	var change *assetsdomain.Change
	var err error
	switch assetsdomain.ChangeType(req.Type) {
	case assetsdomain.ChangeBuy:
		if req.Amount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
			return
		}
		change, err = h.Assets.RecordBuy(ctx, familyID, user.ID, assetID, *req.Amount, date, req.Notes)
	case assetsdomain.ChangeSell:
		if req.Amount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
			return
		}
		change, err = h.Assets.RecordSell(ctx, familyID, user.ID, assetID, *req.Amount, date, req.Notes)
	case assetsdomain.ChangeTransferIn:
		if req.Amount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
			return
		}
		change, err = h.Assets.RecordTransferIn(ctx, familyID, user.ID, assetID, *req.Amount, req.RelatedAssetID, date, req.Notes)
	case assetsdomain.ChangeTransferOut:
		if req.Amount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
			return
		}
		change, err = h.Assets.RecordTransferOut(ctx, familyID, user.ID, assetID, *req.Amount, req.RelatedAssetID, date, req.Notes)
	case assetsdomain.ChangeValuationAdjust:
		if req.NewValue == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "newValue is required")
			return
		}
		change, err = h.Assets.RecordValueChange(ctx, familyID, user.ID, assetID, *req.NewValue, date, req.Notes)
	case assetsdomain.ChangeDepreciation:
		if req.Amount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "amount is required")
			return
		}
		change, err = h.Assets.RecordDepreciation(ctx, familyID, user.ID, assetID, *req.Amount, date, req.Notes)
	case assetsdomain.ChangeDispose:
		value := decimal.Zero
		if req.DisposeValue != nil {
			value = *req.DisposeValue
		}
		change, err = h.Assets.Dispose(ctx, familyID, user.ID, assetID, value, date, req.Notes)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown change type")
		return
	}
	if err != nil {
		h.writeAssetError(w, err, "assets.record_change", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusCreated, toChangeResponse(change))
}

func (h *Handlers) ListAssetCategories(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	categories, err := h.Assets.ListCategories(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "assets.list_categories", user.ID) {
			return
		}
		h.log.InternalError("assets.list_categories: list failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toAssetCategoryResponses(categories))
}

func (h *Handlers) CreateAssetCategory(w http.ResponseWriter, r *http.Request) {
	var req createAssetCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	category, err := h.Assets.CreateCategory(r.Context(), familyID, user.ID, assetsdomain.CreateCategoryInput{
		Name:      req.Name,
		ParentID:  req.ParentID,
		Icon:      req.Icon,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.writeAssetError(w, err, "assets.create_category", user.ID, familyID)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetCategoryResponse(category))
}

// writeAssetError maps asset-domain errors after the shared access errors.
func (h *Handlers) writeAssetError(w http.ResponseWriter, err error, op, userID, familyID string) {
	if h.writeAccessError(w, err, op, userID) {
		return
	}

	switch {
	case errors.Is(err, assetsdomain.ErrAssetNotFound):
		h.log.BusinessError(op+": asset not found", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusNotFound, "asset_not_found", "asset not found")
	case errors.Is(err, assetsdomain.ErrCategoryNotFound):
		h.log.BusinessError(op+": category not found", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusNotFound, "category_not_found", "asset category not found")
	case errors.Is(err, assetsdomain.ErrAssetDisposed):
		h.log.BusinessError(op+": asset disposed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusBadRequest, "asset_disposed", "disposed assets cannot be modified")
	case errors.Is(err, assetsdomain.ErrNegativeBalance):
		h.log.BusinessError(op+": negative balance", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusBadRequest, "negative_balance", "change would make the asset value negative")
	case errors.Is(err, assetsdomain.ErrAmountNotPositive):
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
	case errors.Is(err, assetsdomain.ErrAmountNegative):
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must not be negative")
	case errors.Is(err, assetsdomain.ErrUnknownCurrency):
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown currency")
	case errors.Is(err, assetsdomain.ErrCategoryDepth):
		writeError(w, http.StatusBadRequest, "invalid_request", "categories nest at most one level deep")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toAssetResponse(asset *assetsdomain.Asset) assetResponse {
	return assetResponse{
		ID:           asset.ID,
		FamilyID:     asset.FamilyID,
		CategoryID:   asset.CategoryID,
		HolderID:     asset.HolderID,
		Name:         asset.Name,
		InitialValue: asset.InitialValue,
		CurrentValue: asset.CurrentValue,
		Currency:     asset.Currency,
		PurchaseDate: asset.PurchaseDate,
		Status:       asset.Status,
		Attributes:   asset.Attributes,
		Notes:        asset.Notes,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

func toChangeResponse(change *assetsdomain.Change) changeResponse {
	response := changeResponse{
		ID:             change.ID,
		AssetID:        change.AssetID,
		Type:           change.Type,
		Amount:         change.Amount,
		BeforeValue:    change.BeforeValue,
		AfterValue:     change.AfterValue,
		RelatedAssetID: change.RelatedAssetID,
		Date:           change.Date,
		Notes:          change.Notes,
		CreatedAt:      change.CreatedAt,
	}
	if change.ProfitLoss.Valid {
		pl := change.ProfitLoss.Decimal
		response.ProfitLoss = &pl
	}
	if change.ProfitLossRate.Valid {
		rate := change.ProfitLossRate.Decimal
		response.ProfitLossRate = &rate
	}
	return response
}

type assetCategoryResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parentId,omitempty"`
	Icon      string  `json:"icon"`
	Color     string  `json:"color"`
	IsBuiltin bool    `json:"isBuiltin"`
	SortOrder int     `json:"sortOrder"`
}

func toAssetCategoryResponse(category *assetsdomain.Category) assetCategoryResponse {
	return assetCategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		ParentID:  category.ParentID,
		Icon:      category.Icon,
		Color:     category.Color,
		IsBuiltin: category.IsBuiltin,
		SortOrder: category.SortOrder,
	}
}

func toAssetCategoryResponses(categories []assetsdomain.Category) []assetCategoryResponse {
	response := make([]assetCategoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, toAssetCategoryResponse(&categories[i]))
	}
	return response
}

package handler

import (
	"context"
	"errors"
	"net/http"

	assetsdomain "family-ledger-go/internal/domain/assets"
	bootstrapdomain "family-ledger-go/internal/domain/bootstrap"
	familydomain "family-ledger-go/internal/domain/family"
	transactionsdomain "family-ledger-go/internal/domain/transactions"
	userdomain "family-ledger-go/internal/domain/user"
	"family-ledger-go/internal/transport/httpserver/middleware"
	"family-ledger-go/pkg/logger"
)

type Handlers struct {
	log          logger.Logger
	Users        *userdomain.Service
	Families     *familydomain.Service
	Assets       *assetsdomain.Service
	Transactions *transactionsdomain.Service
	Bootstrap    *bootstrapdomain.Service
}

func New(log logger.Logger, users *userdomain.Service, families *familydomain.Service, assets *assetsdomain.Service, transactions *transactionsdomain.Service, bootstrap *bootstrapdomain.Service) *Handlers {
	return &Handlers{
		log:          log,
		Users:        users,
		Families:     families,
		Assets:       assets,
		Transactions: transactions,
		Bootstrap:    bootstrap,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	record, err := h.Users.GetUser(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("auth.me: get user failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":              record.ID,
		"name":            record.Name,
		"email":           record.Email,
		"currentFamilyId": record.CurrentFamilyID,
	})
}

// activeFamily resolves the family a request operates on: the token's
// family claim wins, the stored current-family pointer is the fallback.
func (h *Handlers) activeFamily(ctx context.Context, user middleware.User) (string, error) {
	if user.FamilyID != "" {
		return user.FamilyID, nil
	}

	record, err := h.Users.GetUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if record.CurrentFamilyID == nil {
		return "", familydomain.ErrFamilyNotFound
	}
	return *record.CurrentFamilyID, nil
}

// requireFamily resolves the active family and writes the error response
// itself when resolution fails.
func (h *Handlers) requireFamily(w http.ResponseWriter, r *http.Request) (string, middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return "", middleware.User{}, false
	}

	familyID, err := h.activeFamily(r.Context(), user)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) || errors.Is(err, userdomain.ErrUserNotFound) {
			h.log.BusinessError("handler: no active family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "family_not_found", "no active family")
			return "", middleware.User{}, false
		}
		h.log.InternalError("handler: resolve active family failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return "", middleware.User{}, false
	}

	return familyID, user, true
}

// accessError maps the shared membership and role errors every family-scoped
// endpoint can hit. Unmatched errors fall through to the caller's switch.
func accessError(err error) (int, string, string, bool) {
	switch {
	case errors.Is(err, familydomain.ErrNotFamilyMember):
		return http.StatusForbidden, "not_family_member", "not a member of this family", true
	case errors.Is(err, familydomain.ErrEditForbidden):
		return http.StatusForbidden, "edit_forbidden", "viewer role cannot modify family data", true
	case errors.Is(err, familydomain.ErrManageRequired):
		return http.StatusForbidden, "manage_required", "admin or owner role required", true
	case errors.Is(err, familydomain.ErrOwnerRequired):
		return http.StatusForbidden, "owner_required", "owner role required", true
	}
	return 0, "", "", false
}

func (h *Handlers) writeAccessError(w http.ResponseWriter, err error, op, userID string) bool {
	status, code, message, ok := accessError(err)
	if !ok {
		return false
	}
	h.log.BusinessError(op+": access denied", err, "user_id", userID)
	writeError(w, status, code, message)
	return true
}

package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "family-ledger-go/internal/domain/family"
	"family-ledger-go/internal/domain/role"
	"family-ledger-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createFamilyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateFamilyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type joinFamilyRequest struct {
	Code string `json:"code"`
}

type addMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role"`
}

type familyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	InviteCode  string    `json:"inviteCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

type membershipResponse struct {
	FamilyID string    `json:"familyId"`
	UserID   string    `json:"userId"`
	Role     role.Role `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	families, err := h.Families.ListFamilies(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("families.list: list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]familyResponse, 0, len(families))
	for _, fam := range families {
		response = append(response, toFamilyResponse(&fam))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, familydomain.ErrCodeGenerationFailed) {
			h.log.InternalError("families.create: invite code generation failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "code_generation_failed", "invite code generation failed")
			return
		}
		h.log.InternalError("families.create: create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	result, err := h.Families.GetFamily(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "families.get", user.ID) {
			return
		}
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.get: family not found", err, "user_id", user.ID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.get: get failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"family":  toFamilyResponse(&result.Family),
		"members": result.Members,
	})
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	result, err := h.Families.UpdateFamily(r.Context(), familyID, user.ID, req.Name, req.Description)
	if err != nil {
		if h.writeAccessError(w, err, "families.update", user.ID) {
			return
		}
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.update: family not found", err, "user_id", user.ID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.update: update failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	if err := h.Families.DeleteFamily(r.Context(), familyID, user.ID); err != nil {
		if h.writeAccessError(w, err, "families.delete", user.ID) {
			return
		}
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.delete: family not found", err, "user_id", user.ID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.delete: delete failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	member, err := h.Families.JoinByInviteCode(r.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrInviteCodeNotFound):
			h.log.BusinessError("families.join: invite code not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "invite_code_not_found", "invite code not found")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("families.join: already a member", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_member", "already a member of this family")
		default:
			h.log.InternalError("families.join: join failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toMembershipResponse(member))
}

func (h *Handlers) SwitchFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	if err := h.Families.SwitchFamily(r.Context(), user.ID, familyID); err != nil {
		if h.writeAccessError(w, err, "families.switch", user.ID) {
			return
		}
		h.log.InternalError("families.switch: switch failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RegenerateInviteCode(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	code, err := h.Families.RegenerateInviteCode(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "families.regenerate_code", user.ID) {
			return
		}
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.regenerate_code: family not found", err, "user_id", user.ID, "family_id", familyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.regenerate_code: regenerate failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"inviteCode": code})
}

func (h *Handlers) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}
	memberRole, err := role.Parse(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")

	member, err := h.Families.AddMember(r.Context(), familyID, user.ID, req.UserID, memberRole)
	if err != nil {
		if h.writeAccessError(w, err, "families.add_member", user.ID) {
			return
		}
		switch {
		case errors.Is(err, familydomain.ErrCannotAssignOwner):
			h.log.BusinessError("families.add_member: owner role not assignable", err, "actor_id", user.ID)
			writeError(w, http.StatusForbidden, "cannot_assign_owner", "the owner role cannot be assigned")
		case errors.Is(err, familydomain.ErrUserNotFound):
			h.log.BusinessError("families.add_member: user not found", err, "actor_id", user.ID, "target_id", req.UserID)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("families.add_member: already a member", err, "actor_id", user.ID, "target_id", req.UserID)
			writeError(w, http.StatusConflict, "already_member", "already a member of this family")
		default:
			h.log.InternalError("families.add_member: add failed", err, "actor_id", user.ID, "target_id", req.UserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toMembershipResponse(member))
}

func (h *Handlers) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")
	memberID := chi.URLParam(r, "user_id")

	if err := h.Families.RemoveMember(r.Context(), familyID, user.ID, memberID); err != nil {
		if h.writeAccessError(w, err, "families.remove_member", user.ID) {
			return
		}
		switch {
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.remove_member: member not found", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, familydomain.ErrCannotRemoveOwner):
			h.log.BusinessError("families.remove_member: cannot remove owner", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusForbidden, "cannot_remove_owner", "the family owner cannot be removed")
		case errors.Is(err, familydomain.ErrOnlyOwnerRemovesAdmin):
			h.log.BusinessError("families.remove_member: only owner removes admin", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusForbidden, "only_owner_removes_admin", "only the owner can remove an admin")
		default:
			h.log.InternalError("families.remove_member: remove failed", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UpdateFamilyMemberRole(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	newRole, err := role.Parse(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	familyID := chi.URLParam(r, "family_id")
	memberID := chi.URLParam(r, "user_id")

	if err := h.Families.UpdateMemberRole(r.Context(), familyID, user.ID, memberID, newRole); err != nil {
		if h.writeAccessError(w, err, "families.update_role", user.ID) {
			return
		}
		switch {
		case errors.Is(err, familydomain.ErrCannotAssignOwner):
			h.log.BusinessError("families.update_role: owner role not assignable", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusForbidden, "cannot_assign_owner", "the owner role cannot be assigned")
		case errors.Is(err, familydomain.ErrOwnerRoleImmutable):
			h.log.BusinessError("families.update_role: owner role immutable", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusForbidden, "owner_role_immutable", "the owner role cannot be changed")
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.update_role: member not found", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		default:
			h.log.InternalError("families.update_role: update failed", err, "actor_id", user.ID, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFamilyResponse(fam *familydomain.Family) familyResponse {
	return familyResponse{
		ID:          fam.ID,
		Name:        fam.Name,
		Description: fam.Description,
		CreatedBy:   fam.CreatedBy,
		InviteCode:  fam.InviteCode,
		CreatedAt:   fam.CreatedAt,
	}
}

func toMembershipResponse(member *familydomain.Membership) membershipResponse {
	return membershipResponse{
		FamilyID: member.FamilyID,
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

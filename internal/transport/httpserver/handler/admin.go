package handler

import (
	"net/http"

	"family-ledger-go/internal/transport/httpserver/middleware"
)

// InitializeUsers gives every membership-less user a default family. The
// batch is best-effort; per-user failures are logged inside the service.
func (h *Handlers) InitializeUsers(w http.ResponseWriter, r *http.Request) {
	count, err := h.Bootstrap.InitializeAllUsers(r.Context())
	if err != nil {
		h.log.InternalError("admin.initialize_users: run failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"initialized": count})
}

// MigrateOrphanData backfills family references onto pre-family assets and
// transactions. Safe to call repeatedly.
func (h *Handlers) MigrateOrphanData(w http.ResponseWriter, r *http.Request) {
	count, err := h.Bootstrap.MigrateOrphanData(r.Context())
	if err != nil {
		h.log.InternalError("admin.migrate_orphans: run failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"migrated": count})
}

// MigrateMyData ensures the caller has a family and moves their own orphan
// rows into it.
func (h *Handlers) MigrateMyData(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Bootstrap.MigrateUserDataToFamily(r.Context(), user.ID); err != nil {
		h.log.InternalError("bootstrap.migrate_me: run failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"
)

func (h *Handlers) AssetStatistics(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	statistics, err := h.Assets.Statistics(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "statistics.summary", user.ID) {
			return
		}
		h.log.InternalError("statistics.summary: compute failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, statistics)
}

func (h *Handlers) AssetDistribution(w http.ResponseWriter, r *http.Request) {
	familyID, user, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	distribution, err := h.Assets.Distribution(r.Context(), familyID, user.ID)
	if err != nil {
		if h.writeAccessError(w, err, "statistics.distribution", user.ID) {
			return
		}
		h.log.InternalError("statistics.distribution: compute failed", err, "user_id", user.ID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, distribution)
}

package handler

import (
	"net/http"

	"fxconv/internal/settings"
)

// GetSettings godoc
// @Summary Display settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// PatchSettings godoc
// @Summary Update display settings
// @Description Apply the given fields. An invalid value rejects the whole patch
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body settings.Patch true "Fields to change"
// @Success 200 {object} domain.Settings
// @Failure 400 {object} errorResponse
// @Router /settings [patch]
func (h *Handler) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	updated, err := h.settings.Update(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ResetSettings godoc
// @Summary Reset display settings
// @Description Restore and persist the default settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Router /settings [delete]
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Reset(r.Context()))
}

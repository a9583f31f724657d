package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fxconv/internal/currency"
	"fxconv/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type HistoryResponse struct {
	Records []domain.HistoryRecord `json:"records"`
}

// GetHistory godoc
// @Summary Conversion history
// @Description List recent conversions, newest first
// @Tags History
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	records := h.history.List()
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Records: records})
}

// ClearHistory godoc
// @Summary Clear history
// @Tags History
// @Success 204
// @Router /history [delete]
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.history.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// RestoreHistory godoc
// @Summary Restore a history record
// @Description Put a record back on the board. Restoring may add up to two currencies and is refused when they do not fit
// @Tags History
// @Produce json
// @Param id path int true "History record ID"
// @Success 200 {object} converter.Board
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "too many currencies"
// @Failure 500 {object} errorResponse
// @Router /history/{id}/restore [post]
func (h *Handler) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}

	if err = h.board.Restore(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "history record not found")
		case errors.Is(err, currency.ErrTooManyTracked):
			writeError(w, http.StatusConflict, h.tip("tips.maxCurrencies", map[string]string{"max": itoa(currency.MaxTracked)}))
		default:
			msg := "ups, couldn't restore history this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "RestoreHistory", "id": id}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}
	h.writeBoard(w, http.StatusOK)
}

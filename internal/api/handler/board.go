package handler

import (
	"errors"
	"net/http"
	"strings"

	"fxconv/internal/converter"
	"fxconv/internal/currency"
	"fxconv/internal/money"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// maxAmountDecimals bounds the fractional digits accepted from input.
const maxAmountDecimals = 8

// GetBoard godoc
// @Summary Converter board
// @Description Return the tracked currencies with their formatted amounts
// @Tags Board
// @Produce json
// @Success 200 {object} converter.Board
// @Router /board [get]
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	h.writeBoard(w, http.StatusOK)
}

type AddCurrencyRequest struct {
	Code string `json:"code" example:"JPY"`
}

// AddCurrency godoc
// @Summary Track a currency
// @Tags Board
// @Accept json
// @Produce json
// @Param request body AddCurrencyRequest true "Currency to add"
// @Success 200 {object} converter.Board
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse "too many currencies"
// @Router /board/currencies [post]
func (h *Handler) AddCurrency(w http.ResponseWriter, r *http.Request) {
	var req AddCurrencyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := h.validator.ValidateCode(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	added, err := h.tracked.AddCurrencies(r.Context(), currency.MaxTracked, code)
	if errors.Is(err, currency.ErrTooManyTracked) {
		writeError(w, http.StatusConflict, h.tip("tips.maxCurrencies", map[string]string{"max": itoa(currency.MaxTracked)}))
		return
	}
	if added {
		h.board.Recalculate(r.Context())
	}
	h.writeBoard(w, http.StatusOK)
}

// RemoveCurrency godoc
// @Summary Stop tracking a currency
// @Tags Board
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {object} converter.Board
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "too few currencies"
// @Router /board/currencies/{code} [delete]
func (h *Handler) RemoveCurrency(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	removed, err := h.tracked.RemoveCurrencyKeeping(r.Context(), code, currency.MinTracked)
	if errors.Is(err, currency.ErrTooFewTracked) {
		writeError(w, http.StatusConflict, h.tip("tips.minCurrencies", map[string]string{"min": itoa(currency.MinTracked)}))
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "currency is not tracked")
		return
	}
	h.writeBoard(w, http.StatusOK)
}

type SetAmountRequest struct {
	Amount string `json:"amount" example:"100.5"`
}

// SetAmount godoc
// @Summary Enter an amount
// @Description Set the amount of one tracked currency and convert it into every other one
// @Tags Board
// @Accept json
// @Produce json
// @Param code path string true "Currency code"
// @Param request body SetAmountRequest true "Amount text"
// @Success 200 {object} converter.Board
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /board/amounts/{code} [put]
func (h *Handler) SetAmount(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	var req SetAmountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount := money.CleanAmount(strings.TrimSpace(req.Amount))
	if !money.ValidateAmount(amount, maxAmountDecimals) {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	if err := h.board.SetAmount(r.Context(), code, amount); err != nil {
		if errors.Is(err, converter.ErrNotTracked) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		msg := "ups, couldn't update amount this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "SetAmount", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	h.writeBoard(w, http.StatusOK)
}

// ClearAmounts godoc
// @Summary Clear every amount
// @Tags Board
// @Produce json
// @Success 200 {object} converter.Board
// @Router /board/amounts [delete]
func (h *Handler) ClearAmounts(w http.ResponseWriter, r *http.Request) {
	h.board.ClearAmounts(r.Context())
	h.writeBoard(w, http.StatusOK)
}

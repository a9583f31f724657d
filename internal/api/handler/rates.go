package handler

import (
	"errors"
	"net/http"
	"strings"

	"fxconv/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PairRate struct {
	From string          `json:"from" example:"USD"`
	To   string          `json:"to" example:"EUR"`
	Rate decimal.Decimal `json:"rate" swaggertype:"string" example:"0.9231"`
}

type RatesResponse struct {
	Base      string                     `json:"base" example:"USD"`
	Source    string                     `json:"source,omitempty" example:"primary"`
	Offline   bool                       `json:"offline" example:"false"`
	Loading   bool                       `json:"loading" example:"false"`
	HasRates  bool                       `json:"hasRates" example:"true"`
	UpdatedAt int64                      `json:"updatedAt,omitempty" example:"1704067200000"`
	Rates     map[string]decimal.Decimal `json:"rates" swaggertype:"object,string"`
	Pair      *PairRate                  `json:"pair,omitempty"`
}

// GetRates godoc
// @Summary Current exchange rates
// @Description Return the current rate set. With from and to it also returns the cross rate for that pair
// @Tags Rates
// @Produce json
// @Param from query string false "Base currency of the pair"
// @Param to query string false "Quote currency of the pair"
// @Success 200 {object} RatesResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse "rate not available"
// @Failure 500 {object} errorResponse
// @Router /rates [get]
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	snap := h.rates.Snapshot()
	res := RatesResponse{
		Base:     snap.Rates.Base,
		Source:   snap.Rates.Source,
		Offline:  snap.Offline,
		Loading:  snap.Loading,
		HasRates: h.rates.HasRates(),
		Rates:    snap.Rates.Rates,
	}
	if !snap.Rates.FetchedAt.IsZero() {
		res.UpdatedAt = snap.Rates.TimestampMillis()
	}
	if res.Rates == nil {
		res.Rates = map[string]decimal.Decimal{}
	}

	q := r.URL.Query()
	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if from != "" || to != "" {
		if err := h.validator.ValidateCodes(from, to); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		pr, err := h.rates.Rate(from, to)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidRate) {
				writeError(w, http.StatusNotFound, "rate not available")
				return
			}
			writeError(w, http.StatusInternalServerError, "ups, couldn't compute rate this time")
			return
		}
		res.Pair = &PairRate{From: from, To: to, Rate: pr}
	}

	writeJSON(w, http.StatusOK, res)
}

type RefreshRequest struct {
	Base string `json:"base" example:"EUR"`
}

type RefreshResponse struct {
	Live    bool   `json:"live" example:"true"`
	Offline bool   `json:"offline" example:"false"`
	Base    string `json:"base" example:"EUR"`
}

// RefreshRates godoc
// @Summary Refresh exchange rates
// @Description Trigger a live fetch. A failed fetch still answers 200 with live=false because offline data is served instead
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Base currency, defaults to the current one"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/refresh [post]
func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	base := strings.ToUpper(strings.TrimSpace(req.Base))
	if base == "" {
		base = h.rates.Snapshot().Rates.Base
	}
	if base != "" {
		if err := h.validator.ValidateCode(base); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	live, err := h.rates.Refresh(r.Context(), base)
	if err != nil {
		msg := "ups, couldn't refresh rates this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "RefreshRates", "base": base}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	snap := h.rates.Snapshot()
	writeJSON(w, http.StatusOK, RefreshResponse{Live: live, Offline: snap.Offline, Base: snap.Rates.Base})
}

package handler

import (
	"net/http"
	"strconv"

	"fxconv/internal/domain"
)

type CatalogResponse struct {
	Currencies []domain.Currency `json:"currencies"`
}

// GetCatalog godoc
// @Summary Currency catalog
// @Description List known currencies, filtered by q or limited to the popular ones
// @Tags Currencies
// @Produce json
// @Param q query string false "Code or name keyword"
// @Param popular query bool false "Only popular currencies"
// @Success 200 {object} CatalogResponse
// @Router /currencies/catalog [get]
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var list []domain.Currency
	if popular, _ := strconv.ParseBool(q.Get("popular")); popular {
		list = h.catalog.Popular()
	} else {
		list = h.catalog.Search(q.Get("q"))
	}
	if list == nil {
		list = []domain.Currency{}
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Currencies: list})
}

type GetSupportedCodesResponse struct {
	Codes []string `json:"codes" example:"USD,EUR,CNY"`
}

// GetSupportedCodes godoc
// @Summary List supported currencies
// @Description Retrieve all currency codes accepted by the converter
// @Tags Currencies
// @Produce json
// @Success 200 {object} GetSupportedCodesResponse
// @Router /currencies/supported [get]
func (h *Handler) GetSupportedCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetSupportedCodesResponse{Codes: h.validator.SupportedCodes()})
}

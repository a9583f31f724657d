package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"fxconv/internal/converter"
	"fxconv/internal/domain"
	"fxconv/internal/rate"
	"fxconv/internal/settings"

	"github.com/shopspring/decimal"
)

type RatesService interface {
	Snapshot() rate.Snapshot
	HasRates() bool
	Refresh(ctx context.Context, base string) (bool, error)
	Rate(from, to string) (decimal.Decimal, error)
}

type BoardService interface {
	SetAmount(ctx context.Context, code, text string) error
	ClearAmounts(ctx context.Context)
	Recalculate(ctx context.Context)
	Restore(ctx context.Context, id int64) error
	Board(s domain.Settings) converter.Board
}

// TrackedSet applies the tracked-currency bounds atomically.
type TrackedSet interface {
	AddCurrencies(ctx context.Context, limit int, codes ...string) (bool, error)
	RemoveCurrencyKeeping(ctx context.Context, code string, floor int) (bool, error)
}

type HistoryService interface {
	List() []domain.HistoryRecord
	Clear(ctx context.Context)
}

type SettingsService interface {
	Get() domain.Settings
	Update(ctx context.Context, p settings.Patch) (domain.Settings, error)
	Reset(ctx context.Context) domain.Settings
}

type CodeValidator interface {
	ValidateCode(code string) error
	ValidateCodes(base, quote string) error
	SupportedCodes() []string
}

type Catalog interface {
	Search(keyword string) []domain.Currency
	Popular() []domain.Currency
}

type Translator interface {
	T(key string, params map[string]string) string
	TFor(locale, key string, params map[string]string) string
}

type Deps struct {
	Rates      RatesService
	Board      BoardService
	Tracked    TrackedSet
	History    HistoryService
	Settings   SettingsService
	Validator  CodeValidator
	Catalog    Catalog
	Translator Translator
}

type Handler struct {
	rates      RatesService
	board      BoardService
	tracked    TrackedSet
	history    HistoryService
	settings   SettingsService
	validator  CodeValidator
	catalog    Catalog
	translator Translator
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		rates:      d.Rates,
		board:      d.Board,
		tracked:    d.Tracked,
		history:    d.History,
		settings:   d.Settings,
		validator:  d.Validator,
		catalog:    d.Catalog,
		translator: d.Translator,
	}
}

type errorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody reads a small JSON body into dst, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1024)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// tip renders a localized hint in the translator's current locale, which
// follows the locale setting.
func (h *Handler) tip(key string, params map[string]string) string {
	return h.translator.T(key, params)
}

func (h *Handler) writeBoard(w http.ResponseWriter, status int) {
	writeJSON(w, status, h.board.Board(h.settings.Get()))
}

func itoa(n int) string { return strconv.Itoa(n) }

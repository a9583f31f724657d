package handler

import (
	"net/http"

	"fxconv/internal/i18n"

	"github.com/go-chi/chi/v5"
)

type TranslationResponse struct {
	Key    string `json:"key" example:"home.title"`
	Locale string `json:"locale" example:"en-US"`
	Value  string `json:"value" example:"Currency Converter"`
}

// Translate godoc
// @Summary Translate a key
// @Description Resolve a dotted key. The locale comes from the locale parameter, then Accept-Language, then the user's setting. Every other query parameter fills the matching {param} placeholder
// @Tags I18n
// @Produce json
// @Param key path string true "Dotted translation key"
// @Param locale query string false "Locale, e.g. en-US"
// @Success 200 {object} TranslationResponse
// @Router /i18n/{key} [get]
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	q := r.URL.Query()

	locale := h.settings.Get().Locale
	if explicit, ok := i18n.Canonical(q.Get("locale")); ok {
		locale = explicit
	} else if accept := r.Header.Get("Accept-Language"); accept != "" {
		locale = i18n.Match(accept, locale)
	}

	params := make(map[string]string, len(q))
	for name, values := range q {
		if name == "locale" || len(values) == 0 {
			continue
		}
		params[name] = values[0]
	}

	writeJSON(w, http.StatusOK, TranslationResponse{
		Key:    key,
		Locale: locale,
		Value:  h.translator.TFor(locale, key, params),
	})
}

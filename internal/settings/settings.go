// Package settings manages the user's display preferences. Every change is
// validated and persisted right away under the "settings" key.
package settings

import (
	"context"
	"fmt"
	"sync"

	"fxconv/internal/domain"
	"fxconv/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var allowedSeparators = map[string]struct{}{",": {}, ".": {}, " ": {}, "": {}}

// Patch carries the fields to change. Nil fields are left as they are.
type Patch struct {
	Locale            *string       `json:"locale,omitempty"`
	DecimalPlaces     *int          `json:"decimalPlaces,omitempty"`
	ThousandSeparator *string       `json:"thousandSeparator,omitempty"`
	Theme             *domain.Theme `json:"theme,omitempty"`
	AutoUpdate        *bool         `json:"autoUpdate,omitempty"`
}

type ChangeFunc func(prev, next domain.Settings)

type Manager struct {
	prefs    *storage.Prefs
	validate *validator.Validate

	mu        sync.RWMutex
	current   domain.Settings
	listeners []ChangeFunc
}

// Load restores persisted settings. Missing or invalid fields keep their
// defaults; a malformed document is ignored as a whole.
func (m *Manager) Load(ctx context.Context) domain.Settings {
	var stored Patch
	loaded := domain.DefaultSettings()
	if m.prefs.Load(ctx, storage.KeySettings, &stored) {
		for field, apply := range stored.appliers() {
			candidate := loaded
			apply(&candidate)
			if err := m.validate.StructPartial(candidate, field); err != nil {
				logrus.WithError(err).WithField("field", field).Warn("ignoring invalid stored setting")
				continue
			}
			loaded = candidate
		}
	}

	m.mu.Lock()
	m.current = loaded
	m.mu.Unlock()
	return loaded
}

func (m *Manager) Get() domain.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update validates the patched settings as a whole and persists them. On a
// validation error nothing changes.
func (m *Manager) Update(ctx context.Context, p Patch) (domain.Settings, error) {
	m.mu.Lock()
	prev := m.current
	next := prev
	for _, apply := range p.appliers() {
		apply(&next)
	}
	if err := m.validate.Struct(next); err != nil {
		m.mu.Unlock()
		return prev, fmt.Errorf("invalid settings: %w", err)
	}
	m.current = next
	listeners := append([]ChangeFunc(nil), m.listeners...)
	m.mu.Unlock()

	_ = m.prefs.Save(ctx, storage.KeySettings, next)
	if prev != next {
		for _, fn := range listeners {
			fn(prev, next)
		}
	}
	return next, nil
}

// AutoUpdate is a convenience accessor for the rate scheduler.
func (m *Manager) AutoUpdate() bool {
	return m.Get().AutoUpdate
}

// Reset restores the defaults and persists them.
func (m *Manager) Reset(ctx context.Context) domain.Settings {
	d := domain.DefaultSettings()
	s, _ := m.Update(ctx, Patch{
		Locale:            &d.Locale,
		DecimalPlaces:     &d.DecimalPlaces,
		ThousandSeparator: &d.ThousandSeparator,
		Theme:             &d.Theme,
		AutoUpdate:        &d.AutoUpdate,
	})
	return s
}

// OnChange registers fn to run after every effective change.
func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// appliers maps struct field names to setters for the non-nil fields.
func (p Patch) appliers() map[string]func(*domain.Settings) {
	out := make(map[string]func(*domain.Settings), 5)
	if p.Locale != nil {
		v := *p.Locale
		out["Locale"] = func(s *domain.Settings) { s.Locale = v }
	}
	if p.DecimalPlaces != nil {
		v := *p.DecimalPlaces
		out["DecimalPlaces"] = func(s *domain.Settings) { s.DecimalPlaces = v }
	}
	if p.ThousandSeparator != nil {
		v := *p.ThousandSeparator
		out["ThousandSeparator"] = func(s *domain.Settings) { s.ThousandSeparator = v }
	}
	if p.Theme != nil {
		v := *p.Theme
		out["Theme"] = func(s *domain.Settings) { s.Theme = v }
	}
	if p.AutoUpdate != nil {
		v := *p.AutoUpdate
		out["AutoUpdate"] = func(s *domain.Settings) { s.AutoUpdate = v }
	}
	return out
}

// NewValidator returns a validator that knows the "thousand_sep" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("thousand_sep", func(fl validator.FieldLevel) bool {
		_, ok := allowedSeparators[fl.Field().String()]
		return ok
	})
	return v
}

func NewManager(prefs *storage.Prefs) *Manager {
	return &Manager{prefs: prefs, validate: NewValidator(), current: domain.DefaultSettings()}
}

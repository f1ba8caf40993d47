package panel

import (
	"github.com/muurk/smartap-inspector/internal/layout"
	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/metrics"
)

// Services is what a mounted group or entry may reach of its panel.
// A panel builds one Services value per mount and never modifies it;
// selecting a different element produces a new value.
//
// The methods are safe on a nil *Services, which lets entries be used
// and tested outside a panel.
type Services struct {
	// PanelID names the panel in logs.
	PanelID string
	// Element is the selection the entries are bound to.
	Element Element

	layout       *layout.Store
	descriptions *Descriptions
	errors       *ErrorStore
	metrics      *metrics.Panel
	fire         func(event string, payload any)
	reveal       func(entryID string)
}

// ServicesConfig carries the stores a Services value exposes.
type ServicesConfig struct {
	PanelID      string
	Element      Element
	Layout       *layout.Store
	Descriptions *Descriptions
	Errors       *ErrorStore
	Metrics      *metrics.Panel
	Fire         func(event string, payload any)
	// Reveal asks the panel to show and focus an entry.
	Reveal func(entryID string)
}

// NewServices builds a Services value. Panels do this on every mount;
// tests and hosts embedding single entries can do it directly.
func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		PanelID:      cfg.PanelID,
		Element:      cfg.Element,
		layout:       cfg.Layout,
		descriptions: cfg.Descriptions,
		errors:       cfg.Errors,
		metrics:      cfg.Metrics,
		fire:         cfg.Fire,
		reveal:       cfg.Reveal,
	}
}

// Error returns the global error for an entry id.
func (s *Services) Error(id string) string {
	if s == nil {
		return ""
	}
	return s.errors.Get(id)
}

// Description resolves the configured description for id against the
// current element.
func (s *Services) Description(id string) string {
	if s == nil {
		return ""
	}
	return s.descriptions.Resolve(id, s.Element)
}

// LayoutBool reads a boolean layout flag.
func (s *Services) LayoutBool(path layout.Path, def bool) bool {
	if s == nil || s.layout == nil {
		return def
	}
	return s.layout.GetBool(path, def)
}

// SetLayout writes a layout value.
func (s *Services) SetLayout(path layout.Path, value any) {
	if s == nil || s.layout == nil {
		return
	}
	logging.LogLayoutChange(s.PanelID, path.String(), value)
	s.layout.Set(path, value)
}

// Fire publishes an event on the panel's bus. Without a bus it does nothing.
func (s *Services) Fire(event string, payload any) {
	if s == nil || s.fire == nil {
		return
	}
	s.fire(event, payload)
}

// Reveal asks the panel to open the sections around an entry and move
// focus to it.
func (s *Services) Reveal(entryID string) {
	if s == nil || s.reveal == nil {
		return
	}
	s.reveal(entryID)
}

// Committed records a value an entry passed to its setter.
func (s *Services) Committed(entryID string, value any) {
	logging.LogCommit(entryID, value)
	if s != nil {
		s.metrics.Commit(entryID)
	}
}

// Rejected records a value an entry's validator refused.
func (s *Services) Rejected(entryID, value, reason string) {
	logging.LogRejected(entryID, value, reason)
	if s != nil {
		s.metrics.Rejection(entryID)
	}
}

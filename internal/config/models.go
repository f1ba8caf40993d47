package config

import (
	"fmt"
	"time"

	"github.com/muurk/smartap-inspector/internal/layout"
)

// Registry is the root configuration structure stored in config.yaml.
type Registry struct {
	Version     int                    `yaml:"version"`
	Preferences *Preferences           `yaml:"preferences"`
	Devices     map[string]*Device     `yaml:"devices,omitempty"`
	Layouts     map[string]layout.Tree `yaml:"layouts,omitempty"`
}

// Device stores user-defined labels for a device, keyed by serial number.
type Device struct {
	Nickname string         `yaml:"nickname,omitempty"`
	LastIP   string         `yaml:"last_ip,omitempty"`
	LastSeen time.Time      `yaml:"last_seen,omitempty"`
	Outlets  map[int]string `yaml:"outlets,omitempty"` // outlet number -> label
}

// Preferences holds application-wide settings.
type Preferences struct {
	// Debounce is the delay before typed text is committed.
	Debounce time.Duration `yaml:"debounce"`
	// DiscoverTimeout is the mDNS scan duration in seconds.
	DiscoverTimeout int `yaml:"discover_timeout"`
	// ErrFeedAddr is the listen address of the error feed, empty to disable it.
	ErrFeedAddr string `yaml:"errfeed_addr,omitempty"`
	// Rules is an optional validation rules file.
	Rules string `yaml:"rules,omitempty"`
}

// DefaultDebounce is used when no debounce is configured.
const DefaultDebounce = 300 * time.Millisecond

// NewRegistry creates a new empty registry with default preferences.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Preferences: DefaultPreferences(),
		Devices:     make(map[string]*Device),
		Layouts:     make(map[string]layout.Tree),
	}
}

// DefaultPreferences returns the preferences used for a fresh config file.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Debounce:        DefaultDebounce,
		DiscoverTimeout: 10,
	}
}

// GetDevice retrieves device metadata by serial number.
// Returns nil if the device is not in the registry.
func (r *Registry) GetDevice(serial string) *Device {
	return r.Devices[serial]
}

// EnsureDevice returns the device entry for serial, creating it if needed.
func (r *Registry) EnsureDevice(serial string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	d, ok := r.Devices[serial]
	if !ok {
		d = &Device{}
		r.Devices[serial] = d
	}
	return d
}

// RecordSeen updates the last known address of a device.
func (r *Registry) RecordSeen(serial, ip string, at time.Time) {
	d := r.EnsureDevice(serial)
	d.LastIP = ip
	d.LastSeen = at
}

// SetDeviceNickname sets the user-defined name of a device.
func (r *Registry) SetDeviceNickname(serial, nickname string) {
	r.EnsureDevice(serial).Nickname = nickname
}

// SetOutletLabel sets the user-defined label of one outlet.
func (r *Registry) SetOutletLabel(serial string, outlet int, label string) {
	d := r.EnsureDevice(serial)
	if d.Outlets == nil {
		d.Outlets = make(map[int]string)
	}
	d.Outlets[outlet] = label
}

// DisplayName returns the device's nickname, falling back to its serial.
func (r *Registry) DisplayName(serial string) string {
	if d := r.GetDevice(serial); d != nil && d.Nickname != "" {
		return d.Nickname
	}
	return serial
}

// OutletLabel returns the user's label for an outlet, or "Outlet N".
func (d *Device) OutletLabel(outlet int) string {
	if d != nil {
		if label := d.Outlets[outlet]; label != "" {
			return label
		}
	}
	return fmt.Sprintf("Outlet %d", outlet)
}

// Layout returns the saved layout snapshot for a panel, or nil.
func (r *Registry) Layout(panelID string) layout.Tree {
	return r.Layouts[panelID]
}

// SetLayout stores a layout snapshot for a panel.
func (r *Registry) SetLayout(panelID string, tree layout.Tree) {
	if r.Layouts == nil {
		r.Layouts = make(map[string]layout.Tree)
	}
	r.Layouts[panelID] = tree
}

// ResetLayouts forgets every saved layout and returns how many there were.
func (r *Registry) ResetLayouts() int {
	n := len(r.Layouts)
	r.Layouts = make(map[string]layout.Tree)
	return n
}

// EffectiveDebounce returns the configured debounce, or DefaultDebounce.
func (p *Preferences) EffectiveDebounce() time.Duration {
	if p == nil || p.Debounce < 0 {
		return DefaultDebounce
	}
	return p.Debounce
}

package inspector

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/muurk/smartap-inspector/internal/deviceconfig"
	"github.com/muurk/smartap-inspector/internal/discovery"
)

var errNotLoaded = errors.New("configuration not loaded")

// Target is one configuration the inspector can show: a device reached
// over HTTP, or a JSON file saved from one.
type Target struct {
	// Name is shown in the device list until the configuration loads.
	Name string
	// Source is the device URL or the file path.
	Source string

	client *deviceconfig.Client
	path   string
	device *discovery.Device

	Draft   *deviceconfig.Draft
	Err     error
	Loading bool
}

// DeviceTarget targets a device by address ("192.168.4.16",
// "192.168.4.16:8080" or a full URL).
func DeviceTarget(addr string) *Target {
	baseURL := addr
	if !strings.Contains(addr, "://") {
		baseURL = "http://" + addr
	}
	return &Target{
		Name:   addr,
		Source: baseURL,
		client: deviceconfig.NewClient(baseURL),
	}
}

// FileTarget targets a saved configuration. Applying writes the file.
func FileTarget(path string) *Target {
	return &Target{
		Name:   filepath.Base(path),
		Source: path,
		path:   path,
	}
}

// DiscoveredTarget targets a device found by an mDNS scan.
func DiscoveredTarget(d *discovery.Device) *Target {
	t := DeviceTarget(d.Address())
	t.Name = "eValve" + d.Serial
	t.device = d
	return t
}

// Serial returns the device serial number, once known.
func (t *Target) Serial() string {
	switch {
	case t.Draft != nil:
		return t.Draft.Original.Serial
	case t.device != nil:
		return t.device.Serial
	}
	return ""
}

// IsFile reports whether the target is a saved configuration file.
func (t *Target) IsFile() bool {
	return t.path != ""
}

// Host returns the device address for the config registry, or "".
func (t *Target) Host() string {
	if t.device != nil {
		return t.device.IP
	}
	if t.client != nil {
		return strings.TrimPrefix(strings.TrimPrefix(t.Source, "http://"), "https://")
	}
	return ""
}

// Modified reports whether the draft holds unapplied edits.
func (t *Target) Modified() bool {
	return t.Draft != nil && t.Draft.HasChanges()
}

// load reads the configuration. It runs in a command goroutine and
// must not touch the target's fields.
func (t *Target) load(ctx context.Context) (*deviceconfig.DeviceConfig, error) {
	if t.IsFile() {
		return deviceconfig.LoadFile(t.path)
	}
	return t.client.GetConfiguration(ctx)
}

// apply sends update to the device, or writes result to the file.
// Like load it runs in a command goroutine.
func (t *Target) apply(ctx context.Context, update *deviceconfig.ConfigUpdate, result *deviceconfig.DeviceConfig) error {
	if t.IsFile() {
		return result.WriteFile(t.path)
	}
	if t.client == nil {
		return errNotLoaded
	}
	return t.client.UpdateConfiguration(ctx, update)
}

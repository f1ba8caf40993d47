package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muurk/smartap-inspector/internal/layout"
)

// useTempConfig points the registry at a fresh directory for one test.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	SetConfigDir("")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if !strings.Contains(configDir, "smartap-inspect") {
		t.Errorf("GetConfigDir() = %v, should contain 'smartap-inspect'", configDir)
	}
}

func TestSetConfigDir(t *testing.T) {
	dir := useTempConfig(t)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if want := filepath.Join(dir, "config.yaml"); got != want {
		t.Errorf("GetConfigPath() = %v, want %v", got, want)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil || reg.Layouts == nil {
		t.Error("NewRegistry() maps should not be nil")
	}
	if reg.Preferences.Debounce != DefaultDebounce {
		t.Errorf("Preferences.Debounce = %v, want %v", reg.Preferences.Debounce, DefaultDebounce)
	}
	if reg.Preferences.DiscoverTimeout != 10 {
		t.Errorf("Preferences.DiscoverTimeout = %v, want 10", reg.Preferences.DiscoverTimeout)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("123456")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}
	if device2 := reg.EnsureDevice("123456"); device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same serial")
	}
	if device3 := reg.EnsureDevice("789012"); device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different serial")
	}
}

func TestRegistryRecordSeen(t *testing.T) {
	reg := NewRegistry()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	reg.RecordSeen("123456", "192.168.1.100", at)

	device := reg.GetDevice("123456")
	if device == nil {
		t.Fatal("Device should exist after RecordSeen()")
	}
	if device.LastIP != "192.168.1.100" {
		t.Errorf("LastIP = %v, want 192.168.1.100", device.LastIP)
	}
	if !device.LastSeen.Equal(at) {
		t.Errorf("LastSeen = %v, want %v", device.LastSeen, at)
	}
}

func TestDisplayNameAndOutletLabel(t *testing.T) {
	reg := NewRegistry()
	reg.SetDeviceNickname("123456", "Master Bathroom")
	reg.SetOutletLabel("123456", 2, "Body Jets")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"nickname", reg.DisplayName("123456"), "Master Bathroom"},
		{"unknown serial", reg.DisplayName("999"), "999"},
		{"labelled outlet", reg.GetDevice("123456").OutletLabel(2), "Body Jets"},
		{"unlabelled outlet", reg.GetDevice("123456").OutletLabel(1), "Outlet 1"},
		{"nil device", reg.GetDevice("999").OutletLabel(3), "Outlet 3"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLayouts(t *testing.T) {
	reg := NewRegistry()
	tree := layout.New(nil).Set(layout.Path{"groups", "server", "open"}, true)

	reg.SetLayout("device", tree)
	reg.SetLayout("other", layout.New(nil))

	if got := reg.Layout("device"); !layout.Equal(got, tree) {
		t.Errorf("Layout() = %v, want %v", got, tree)
	}
	if reg.Layout("missing") != nil {
		t.Error("Layout(missing) should be nil")
	}
	if n := reg.ResetLayouts(); n != 2 {
		t.Errorf("ResetLayouts() = %d, want 2", n)
	}
	if len(reg.Layouts) != 0 {
		t.Errorf("Layouts after reset = %v", reg.Layouts)
	}
}

func TestEffectiveDebounce(t *testing.T) {
	tests := []struct {
		name  string
		prefs *Preferences
		want  time.Duration
	}{
		{"nil", nil, DefaultDebounce},
		{"negative", &Preferences{Debounce: -1}, DefaultDebounce},
		{"zero commits immediately", &Preferences{}, 0},
		{"configured", &Preferences{Debounce: time.Second}, time.Second},
	}

	for _, tt := range tests {
		if got := tt.prefs.EffectiveDebounce(); got != tt.want {
			t.Errorf("%s: EffectiveDebounce() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadRegistry_Missing(t *testing.T) {
	useTempConfig(t)

	reg, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if reg.Version != 1 || reg.Preferences == nil {
		t.Errorf("LoadRegistry() = %+v, want defaults", reg)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	dir := useTempConfig(t)

	reg, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	reg.SetDeviceNickname("123456", "Test Device")
	reg.SetOutletLabel("123456", 1, "Rain Head")
	reg.Preferences.Debounce = 150 * time.Millisecond
	reg.SetLayout("device", layout.New(nil).
		Set(layout.Path{"groups", "server", "open"}, true).
		Set(layout.Path{"groups", "presets", "items", "p1", "open"}, false))

	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "debounce: 150ms") {
		t.Errorf("config file should store debounce as a duration string:\n%s", data)
	}

	loaded, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	if loaded == reg {
		t.Fatal("ReloadRegistry() returned the in-memory instance")
	}

	if got := loaded.DisplayName("123456"); got != "Test Device" {
		t.Errorf("loaded nickname = %v, want 'Test Device'", got)
	}
	if got := loaded.GetDevice("123456").OutletLabel(1); got != "Rain Head" {
		t.Errorf("loaded outlet label = %v, want 'Rain Head'", got)
	}
	if loaded.Preferences.Debounce != 150*time.Millisecond {
		t.Errorf("loaded debounce = %v, want 150ms", loaded.Preferences.Debounce)
	}

	tree := loaded.Layout("device")
	if got := tree.Get(layout.Path{"groups", "server", "open"}, false); got != true {
		t.Errorf("loaded layout server open = %v, want true", got)
	}
	if got := tree.Get(layout.Path{"groups", "presets", "items", "p1", "open"}, true); got != false {
		t.Errorf("loaded layout item open = %v, want false", got)
	}
	if got := tree.Get(layout.Path{"open"}, false); got != true {
		t.Errorf("loaded layout root open = %v, want true", got)
	}
}

func TestSaveLayout(t *testing.T) {
	useTempConfig(t)

	tree := layout.New(layout.Tree{"open": false})
	if err := SaveLayout("device", tree); err != nil {
		t.Fatalf("SaveLayout() error = %v", err)
	}

	loaded, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	if got := loaded.Layout("device").Get(layout.Path{"open"}, true); got != false {
		t.Errorf("saved root open = %v, want false", got)
	}
}

func TestLoadRegistry_UnsupportedVersion(t *testing.T) {
	dir := useTempConfig(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("version: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRegistry(); err == nil {
		t.Error("LoadRegistry() error = nil, want unsupported version")
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("123456")
	}
}

package deviceconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// DeviceConfig represents the complete device configuration returned by GET /
// This matches the JSON structure returned by the Smartap device API.
//
// Note: The device returns malformed JSON with trailing HTML data. Callers should
// use CleanJSONResponse() to extract valid JSON before unmarshaling.
type DeviceConfig struct {
	// Network configuration
	SSIDList []string `json:"ssidList"` // List of WiFi networks device knows

	// Device settings
	LowPowerMode bool   `json:"lowPowerMode"` // Low power mode status
	Serial       string `json:"serial"`       // Device serial number
	DNS          string `json:"dns"`          // Server hostname
	Port         int    `json:"port"`         // Server port

	// Diverter button configuration (3-bit bitmasks)
	// These control which outlets open for each button press.
	// Bit 0 (1): Outlet 1, Bit 1 (2): Outlet 2, Bit 2 (4): Outlet 3
	Outlet1 int `json:"outlet1"` // First button press bitmask (0-7)
	Outlet2 int `json:"outlet2"` // Second button press bitmask (0-7)
	Outlet3 int `json:"outlet3"` // Third button press bitmask (0-7)

	// Third knob separation mode
	// When true, knob 3 controls a separate outlet independently
	// When false, knob 3 follows the normal button press sequence
	K3Outlet bool `json:"k3Outlet"`

	// Firmware versions
	SWVer  string `json:"swVer"`  // Software version (e.g., "0x355")
	WNPVer string `json:"wnpVer"` // WiFi network processor version

	// Hardware identifier
	MAC string `json:"mac"` // MAC address
}

// DiverterConfig represents configuration updates for the diverter button behavior.
// This is used to construct POST requests to update outlet configuration.
type DiverterConfig struct {
	// Button press configurations (3-bit bitmasks: 0-7)
	// Each value controls which outlets open when button is pressed N times
	FirstPress  int // Maps to __SL_P_OU1
	SecondPress int // Maps to __SL_P_OU2
	ThirdPress  int // Maps to __SL_P_OU3

	// Third knob separation mode
	K3Mode bool // Maps to __SL_P_K3O ("checked" or "no")
}

// WiFiConfig represents WiFi network configuration updates.
// This is used to construct POST requests to configure WiFi connectivity.
type WiFiConfig struct {
	SSID         string // Maps to __SL_P_USD
	Password     string // Maps to __SL_P_PSD (only for WPA2)
	SecurityType string // Maps to __SL_P_ENC ("WPA2" or "OPEN")
}

// ServerConfig represents server endpoint configuration updates.
type ServerConfig struct {
	DNS  string // Maps to __SL_P_DNS
	Port int    // Maps to __SL_P_PRT
}

// ConfigUpdate represents a complete configuration update.
// Fields are optional - only non-nil fields will be included in POST.
type ConfigUpdate struct {
	Diverter *DiverterConfig
	WiFi     *WiFiConfig
	Server   *ServerConfig
}

// CleanJSONResponse extracts the JSON object from the device's response,
// which carries trailing HTML after the object:
//
//	{"ssidList":...,"mac":"C4:BE:84:74:86:37"}"oldAppVer":"pkey:0000,315260240</div>"
func CleanJSONResponse(data []byte) ([]byte, error) {
	start := bytes.IndexByte(data, '{')
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	// A decoder stops after the first complete value.
	var obj json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(data[start:])).Decode(&obj); err != nil {
		return nil, fmt.Errorf("unclosed JSON object in response: %w", err)
	}
	return obj, nil
}

// ParseDeviceConfig parses the raw GET / response.
func ParseDeviceConfig(data []byte) (*DeviceConfig, error) {
	cleanData, err := CleanJSONResponse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to clean JSON response: %w", err)
	}

	var config DeviceConfig
	if err := json.Unmarshal(cleanData, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device config: %w", err)
	}
	return &config, nil
}

// ToFormData converts DiverterConfig to URL-encoded form data for POST requests.
func (dc *DiverterConfig) ToFormData() url.Values {
	data := url.Values{}
	data.Set("__SL_P_OU1", strconv.Itoa(dc.FirstPress))
	data.Set("__SL_P_OU2", strconv.Itoa(dc.SecondPress))
	data.Set("__SL_P_OU3", strconv.Itoa(dc.ThirdPress))

	if dc.K3Mode {
		data.Set("__SL_P_K3O", "checked")
	} else {
		data.Set("__SL_P_K3O", "no")
	}

	return data
}

// ToFormData converts WiFiConfig to URL-encoded form data for POST requests.
func (wc *WiFiConfig) ToFormData() url.Values {
	data := url.Values{}
	data.Set("__SL_P_USD", wc.SSID)
	data.Set("__SL_P_ENC", wc.SecurityType)

	// Only include password for WPA2 networks
	if wc.SecurityType == "WPA2" && wc.Password != "" {
		data.Set("__SL_P_PSD", wc.Password)
	}

	// Trigger connection attempt
	data.Set("__SL_P_CON", "connect")

	return data
}

// ToFormData converts ServerConfig to URL-encoded form data for POST requests.
func (sc *ServerConfig) ToFormData() url.Values {
	data := url.Values{}
	data.Set("__SL_P_DNS", sc.DNS)
	data.Set("__SL_P_PRT", strconv.Itoa(sc.Port))
	return data
}

// ToFormData merges the form data of every non-nil section.
func (cu *ConfigUpdate) ToFormData() url.Values {
	data := url.Values{}
	var parts []url.Values
	if cu.Diverter != nil {
		parts = append(parts, cu.Diverter.ToFormData())
	}
	if cu.WiFi != nil {
		parts = append(parts, cu.WiFi.ToFormData())
	}
	if cu.Server != nil {
		parts = append(parts, cu.Server.ToFormData())
	}
	for _, p := range parts {
		for k, v := range p {
			data[k] = v
		}
	}
	return data
}

// IsEmpty reports whether the update changes nothing.
func (cu *ConfigUpdate) IsEmpty() bool {
	return cu == nil || (cu.Diverter == nil && cu.WiFi == nil && cu.Server == nil)
}

// FormatBitmask returns a human-readable string for a bitmask.
// Example: 5 -> "Outlets 1+3"
func FormatBitmask(bitmask int) string {
	var parts []string
	for i := 0; i < 3; i++ {
		if bitmask&(1<<i) != 0 {
			parts = append(parts, strconv.Itoa(i+1))
		}
	}
	switch len(parts) {
	case 0:
		return "No outlets"
	case 1:
		return "Outlet " + parts[0]
	}
	return "Outlets " + strings.Join(parts, "+")
}

// Outlets returns the bitmask for a button press (1-3), or 0.
func (dc *DeviceConfig) Outlets(press int) int {
	switch press {
	case 1:
		return dc.Outlet1
	case 2:
		return dc.Outlet2
	case 3:
		return dc.Outlet3
	}
	return 0
}

// OutletOn reports whether outlet opens on the given press.
func (dc *DeviceConfig) OutletOn(press, outlet int) bool {
	if outlet < 1 || outlet > 3 {
		return false
	}
	return dc.Outlets(press)&(1<<(outlet-1)) != 0
}

// SetOutlet sets or clears one outlet in a press bitmask.
func (dc *DeviceConfig) SetOutlet(press, outlet int, on bool) {
	if outlet < 1 || outlet > 3 {
		return
	}
	mask := dc.Outlets(press)
	if on {
		mask |= 1 << (outlet - 1)
	} else {
		mask &^= 1 << (outlet - 1)
	}
	switch press {
	case 1:
		dc.Outlet1 = mask
	case 2:
		dc.Outlet2 = mask
	case 3:
		dc.Outlet3 = mask
	}
}

// Clone returns a deep copy.
func (dc *DeviceConfig) Clone() *DeviceConfig {
	c := *dc
	c.SSIDList = append([]string(nil), dc.SSIDList...)
	return &c
}

// LoadFile reads a configuration saved from a device's GET / response.
func LoadFile(path string) (*DeviceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device config: %w", err)
	}
	return ParseDeviceConfig(data)
}

// WriteFile saves the configuration as JSON that LoadFile can read back.
func (dc *DeviceConfig) WriteFile(path string) error {
	data, err := json.MarshalIndent(dc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode device config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write device config: %w", err)
	}
	return nil
}

// String returns a one-line summary of the device configuration.
func (dc *DeviceConfig) String() string {
	return fmt.Sprintf("Smartap Device %s (MAC: %s, FW: %s) server %s:%d, presses %s / %s / %s",
		dc.Serial, dc.MAC, dc.SWVer,
		dc.DNS, dc.Port,
		FormatBitmask(dc.Outlet1),
		FormatBitmask(dc.Outlet2),
		FormatBitmask(dc.Outlet3))
}

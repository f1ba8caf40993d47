package deviceconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Field validators take the text shown in an inspector entry and return a
// message, or "" when the value is acceptable.

// CheckDNS validates a server hostname or IP address.
func CheckDNS(dns string) string {
	switch {
	case dns == "":
		return "Server hostname is required"
	case len(dns) > 253:
		return fmt.Sprintf("Server hostname is too long (%d of 253 characters)", len(dns))
	case strings.ContainsAny(dns, " \t\n\r"):
		return "Server hostname must not contain spaces"
	}
	return ""
}

// CheckPort validates a server port typed as text.
func CheckPort(port string) string {
	n, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return "Port must be a number"
	}
	if n <= 0 || n > 65535 {
		return "Port must be between 1 and 65535"
	}
	return ""
}

// CheckSSID validates a WiFi network name.
func CheckSSID(ssid string) string {
	switch {
	case ssid == "":
		return "Network name is required"
	case len(ssid) > 32:
		return fmt.Sprintf("Network name is too long (%d of 32 characters)", len(ssid))
	}
	return ""
}

// CheckPassword validates a WiFi password for the given security type.
func CheckPassword(password, securityType string) string {
	switch securityType {
	case SecurityWPA2:
		if len(password) < 8 {
			return "WPA2 passwords need at least 8 characters"
		}
		if len(password) > 63 {
			return "WPA2 passwords are at most 63 characters"
		}
	case SecurityOpen:
		if password != "" {
			return "Open networks have no password"
		}
	default:
		return fmt.Sprintf("Unsupported security type %q", securityType)
	}
	return ""
}

// CheckBitmask validates a diverter press bitmask (0-7).
func CheckBitmask(mask int) string {
	if mask < 0 || mask > 7 {
		return fmt.Sprintf("Outlet mask must be 0-7, got %d", mask)
	}
	return ""
}

// ValidateConfigUpdate checks every section of an update before it is
// sent and returns the problems found as validation errors.
func ValidateConfigUpdate(update *ConfigUpdate) []error {
	var errs []error
	add := func(section, msg string) {
		if msg != "" {
			errs = append(errs, NewValidationError(section+": "+msg))
		}
	}

	if d := update.Diverter; d != nil {
		add("first press", CheckBitmask(d.FirstPress))
		add("second press", CheckBitmask(d.SecondPress))
		add("third press", CheckBitmask(d.ThirdPress))
		if d.FirstPress == 0 && d.SecondPress == 0 && d.ThirdPress == 0 {
			add("diverter", "no outlet opens on any press")
		}
	}
	if w := update.WiFi; w != nil {
		add("wifi", CheckSSID(w.SSID))
		add("wifi", CheckPassword(w.Password, w.SecurityType))
	}
	if s := update.Server; s != nil {
		add("server", CheckDNS(s.DNS))
		add("server", CheckPort(strconv.Itoa(s.Port)))
	}

	return errs
}

package deviceconfig

import (
	"strings"
	"testing"
)

func TestFieldChecks(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) string
		value string
		want  string
	}{
		{"dns ok", CheckDNS, "lb.smartap-tech.com", ""},
		{"dns empty", CheckDNS, "", "Server hostname is required"},
		{"dns spaces", CheckDNS, "my host", "Server hostname must not contain spaces"},
		{"dns too long", CheckDNS, strings.Repeat("a", 254), "Server hostname is too long (254 of 253 characters)"},
		{"port ok", CheckPort, "443", ""},
		{"port padded", CheckPort, " 80 ", ""},
		{"port text", CheckPort, "http", "Port must be a number"},
		{"port zero", CheckPort, "0", "Port must be between 1 and 65535"},
		{"port high", CheckPort, "65536", "Port must be between 1 and 65535"},
		{"ssid ok", CheckSSID, "NETGEAR89", ""},
		{"ssid empty", CheckSSID, "", "Network name is required"},
		{"ssid long", CheckSSID, strings.Repeat("n", 33), "Network name is too long (33 of 32 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.value); got != tt.want {
				t.Errorf("check(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		password string
		security string
		wantErr  bool
	}{
		{"password1", SecurityWPA2, false},
		{"short", SecurityWPA2, true},
		{strings.Repeat("p", 64), SecurityWPA2, true},
		{"", SecurityOpen, false},
		{"anything", SecurityOpen, true},
		{"password1", "WEP", true},
	}

	for _, tt := range tests {
		if got := CheckPassword(tt.password, tt.security); (got != "") != tt.wantErr {
			t.Errorf("CheckPassword(%q, %s) = %q, wantErr %v", tt.password, tt.security, got, tt.wantErr)
		}
	}
}

func TestValidateConfigUpdate(t *testing.T) {
	tests := []struct {
		name      string
		update    *ConfigUpdate
		wantCount int
	}{
		{
			name: "valid",
			update: &ConfigUpdate{
				Diverter: &DiverterConfig{FirstPress: 1, SecondPress: 2, ThirdPress: 4},
				Server:   &ServerConfig{DNS: "example.com", Port: 80},
				WiFi:     &WiFiConfig{SSID: "Home", Password: "password1", SecurityType: SecurityWPA2},
			},
		},
		{
			name:      "bad bitmask",
			update:    &ConfigUpdate{Diverter: &DiverterConfig{FirstPress: 8, SecondPress: 1}},
			wantCount: 1,
		},
		{
			name:      "no outlet on any press",
			update:    &ConfigUpdate{Diverter: &DiverterConfig{}},
			wantCount: 1,
		},
		{
			name:      "bad server",
			update:    &ConfigUpdate{Server: &ServerConfig{DNS: "", Port: 0}},
			wantCount: 2,
		},
		{
			name:      "bad wifi",
			update:    &ConfigUpdate{WiFi: &WiFiConfig{SSID: "", Password: "x", SecurityType: SecurityWPA2}},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfigUpdate(tt.update)
			if len(errs) != tt.wantCount {
				t.Errorf("ValidateConfigUpdate() = %v, want %d errors", errs, tt.wantCount)
			}
			for _, err := range errs {
				if !IsValidationError(err) {
					t.Errorf("error %v is not a validation error", err)
				}
			}
		})
	}
}

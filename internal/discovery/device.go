package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device is a Smartap device that answered an mDNS query.
type Device struct {
	Serial   string // from the eValve<serial>.local hostname
	Hostname string
	IP       string // IPv4 when advertised, otherwise IPv6
	Port     int

	// Metadata holds the TXT records, e.g. "path" and "srcvers".
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Smartap Device %s (%s) at %s", d.Serial, d.Hostname, d.Address())
}

// Address returns host:port, bracketing IPv6 addresses.
func (d *Device) Address() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// Firmware returns the advertised firmware build, or "".
func (d *Device) Firmware() string {
	return d.GetMetadata("srcvers")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	return d.Metadata[key]
}

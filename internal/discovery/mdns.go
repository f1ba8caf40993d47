package discovery

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/logging"
)

const (
	// ServiceType is the mDNS service type Smartap devices advertise.
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain.
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for Smartap devices
	DefaultPort = 80
)

// serialPattern matches Smartap device hostnames (e.g., "eValve315260240.local")
var serialPattern = regexp.MustCompile(`^eValve(\d+)\.local\.?$`)

// Browser is the part of zeroconf.Resolver the scanner uses. Browse must
// close entries once ctx is done.
type Browser interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	newBrowser func() (Browser, error)
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		newBrowser: func() (Browser, error) {
			return zeroconf.NewResolver(nil)
		},
	}
}

// Scan browses for devices until the timeout or ctx ends, calling found
// once per serial number as devices answer. found runs on the scanner's
// goroutine; hosts running a Bubble Tea program forward it with Send.
func (s *Scanner) Scan(ctx context.Context, found func(*Device)) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	browser, err := s.newBrowser()
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for entry := range entries {
			device := parseServiceEntry(entry)
			if device == nil || seen[device.Serial] {
				continue
			}
			seen[device.Serial] = true
			logging.Debug("Discovered device",
				zap.String("serial", device.Serial),
				zap.String("ip", device.IP))
			if found != nil {
				found(device)
			}
		}
	}()

	if err := browser.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// ScanForDevices collects every device found before the timeout, ordered
// by serial number.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	var devices []*Device
	err := s.Scan(ctx, func(d *Device) {
		devices = append(devices, d)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Serial < devices[j].Serial
	})
	return devices, nil
}

// WaitForDevice returns as soon as the device with serial answers.
func (s *Scanner) WaitForDevice(ctx context.Context, serial string) (*Device, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var match *Device
	err := s.Scan(ctx, func(d *Device) {
		if match == nil && d.Serial == serial {
			match = d
			cancel()
		}
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, fmt.Errorf("device with serial %s not found within timeout", serial)
	}
	return match, nil
}

// parseServiceEntry converts a zeroconf service entry to a Device
// Returns nil if the entry is not a Smartap device
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil || entry.HostName == "" {
		return nil
	}

	matches := serialPattern.FindStringSubmatch(entry.HostName)
	if len(matches) < 2 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are "key=value" or a bare key
	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Device{
		Serial:       matches[1],
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/smartap-inspector/internal/config"
	"github.com/muurk/smartap-inspector/internal/discovery"
	"github.com/muurk/smartap-inspector/internal/errfeed"
	"github.com/muurk/smartap-inspector/internal/inspector"
	"github.com/muurk/smartap-inspector/internal/layout"
	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/metrics"
	"github.com/muurk/smartap-inspector/internal/panel/rules"
	"github.com/muurk/smartap-inspector/internal/urls"
)

// Command flags
var (
	deviceAddrs []string
	configFiles []string
	feedAddr    string
	debounce    time.Duration
	rulesFile   string
	scanTimeout int
	serveAddr   string
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(serveErrorsCmd)

	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutResetCmd)

	// The root command runs the inspector too
	for _, cmd := range []*cobra.Command{rootCmd, inspectCmd} {
		cmd.Flags().StringArrayVar(&deviceAddrs, "device", nil, "Device address, host or host:port (repeatable, skips discovery)")
		cmd.Flags().StringArrayVar(&configFiles, "file", nil, "Saved configuration JSON file (repeatable)")
		cmd.Flags().StringVar(&feedAddr, "errfeed", "", "Serve the error feed on this address (default from config)")
		cmd.Flags().DurationVar(&debounce, "debounce", -1, "Delay before typed text is committed (default from config)")
		cmd.Flags().StringVar(&rulesFile, "rules", "", "Validation rules file (default from config)")
	}
}

// inspectCmd runs the terminal inspector
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect and edit device configuration",
	Long: `Launch the terminal inspector.

Devices given with --device and files given with --file are listed and
loaded. With neither, the inspector scans the network for devices.

Move through the list with the arrow keys, press enter to edit the
selected device, ctrl+s to apply the edits and ctrl+r to discard them.
Mark several devices with space to compare selections.`,
	Example: `  # Scan for devices and inspect them
  smartap-inspect inspect

  # Inspect a known device
  smartap-inspect inspect --device 192.168.4.16

  # Edit a saved configuration file
  smartap-inspect inspect --file bathroom.json

  # Let an external validator push errors over websocket
  smartap-inspect inspect --device 192.168.4.16 --errfeed 127.0.0.1:8089`,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	prefs := registry.Preferences

	opts := inspector.Options{
		Registry: registry,
		Debounce: prefs.EffectiveDebounce(),
		Metrics:  metrics.New(),
		LayoutChanged: func(tree layout.Tree) {
			if err := config.SaveLayout(inspector.PanelID, tree); err != nil {
				logging.Warn("Failed to save layout", zap.Error(err))
			}
		},
	}
	if debounce >= 0 {
		opts.Debounce = debounce
	}

	path := rulesFile
	if path == "" && prefs != nil {
		path = prefs.Rules
	}
	if path != "" {
		set, err := rules.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		opts.Rules = set
		logging.Info("Rules loaded", zap.String("path", path), zap.Strings("entries", set.Entries()))
	}

	for _, addr := range deviceAddrs {
		opts.Targets = append(opts.Targets, inspector.DeviceTarget(addr))
	}
	for _, file := range configFiles {
		opts.Targets = append(opts.Targets, inspector.FileTarget(file))
	}

	scanner := discovery.NewScanner()
	if prefs != nil && prefs.DiscoverTimeout > 0 {
		scanner.Timeout = time.Duration(prefs.DiscoverTimeout) * time.Second
	}
	opts.Discoverer = scanner
	opts.Scan = len(opts.Targets) == 0

	addr := feedAddr
	if addr == "" && prefs != nil {
		addr = prefs.ErrFeedAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := inspector.Run(ctx, opts, addr)

	// Devices seen during the session
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
	return runErr
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Smartap devices on the network",
	Long: `Scan for Smartap devices using mDNS/DNS-SD discovery.

Found devices are listed and remembered in the config file, so the
inspector can show their nicknames and last known address.`,
	Example: `  # Scan for 10 seconds (default)
  smartap-inspect scan

  # Quick 3-second scan
  smartap-inspect scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Smartap devices (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed (see %s): %w", urls.TroubleshootingGuide, err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure device is powered on and in pairing mode")
		fmt.Println("  - Verify your computer is connected to the device's WiFi")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use 'smartap-inspect inspect --device <ip>' if discovery fails")
		fmt.Printf("\nSee: %s\n", urls.GettingStarted)
		return nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))

	for i, device := range devices {
		registry.RecordSeen(device.Serial, device.IP, device.DiscoveredAt)

		fmt.Printf("%d. %s\n", i+1, registry.DisplayName(device.Serial))
		fmt.Printf("   Serial:  %s\n", device.Serial)
		fmt.Printf("   IP:      %s\n", device.Address())
		if fw := device.Firmware(); fw != "" {
			fmt.Printf("   Firmware: %s\n", fw)
		}
		fmt.Println()
	}

	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("Use 'smartap-inspect inspect --device <ip>' to edit a device")
	return nil
}

// layoutCmd groups the saved layout commands
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Show or reset saved panel layouts",
	Long: `Panel layouts remember which groups and items are open. They are
saved in the config file whenever you open or close a section.`,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print saved layouts as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if len(registry.Layouts) == 0 {
			fmt.Println("No saved layouts.")
			return nil
		}

		data, err := yaml.Marshal(registry.Layouts)
		if err != nil {
			return fmt.Errorf("failed to encode layouts: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var layoutResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget saved layouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		n := registry.ResetLayouts()
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Removed %d saved layout(s).\n", n)
		return nil
	},
}

// serveErrorsCmd runs the error feed without a terminal
var serveErrorsCmd = &cobra.Command{
	Use:   "serve-errors",
	Short: "Run a standalone error feed server",
	Long: `Run the error feed server on its own and log every signal it receives.

Useful for developing validators: connect to ws://<addr>/ws and send
setErrors or showEntry messages to see how they are decoded. Prometheus
metrics are served on /metrics.`,
	Example: `  # Listen on the default address
  smartap-inspect serve-errors --log-level info

  # Listen on all interfaces
  smartap-inspect serve-errors --addr :8089 --log-level debug`,
	RunE: runServeErrors,
}

func init() {
	serveErrorsCmd.Flags().StringVar(&serveAddr, "addr", errfeed.DefaultAddr, "Listen address")
}

func runServeErrors(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := errfeed.New(errfeed.Config{Addr: serveAddr, Metrics: metrics.New()}, func(s errfeed.Signal) {
		logging.Info("Signal received", zap.String("event", s.Event), zap.Any("payload", s.Payload))
	})

	fmt.Printf("Error feed listening on %s (ctrl+c to stop)\n", serveAddr)
	if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("error feed: %w", err)
	}
	return nil
}

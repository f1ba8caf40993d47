// Smartap-inspect is a terminal inspector for Smartap device configuration.
//
// It lists devices found on the network, or given on the command line,
// beside a properties panel for the selected one. Edits are validated as
// they are typed and applied to the device over HTTP. Saved configuration
// files can be inspected and edited the same way.
//
// Usage:
//
//	smartap-inspect [command] [flags]
//
// Running without arguments launches the inspector and scans for devices.
// See 'smartap-inspect --help' for available commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/muurk/smartap-inspector/internal/config"
	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/urls"
	"github.com/muurk/smartap-inspector/internal/version"
)

// Global flags
var (
	logLevel  string
	logFile   string
	configDir string
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smartap-inspect",
	Short: "Smartap Device Inspector",
	Long: `A terminal inspector for Smartap IoT devices.

Lists devices on the network beside a properties panel for the selected
device. Values are validated while you type and applied with ctrl+s.

If no command is specified, the inspector launches and scans for devices.

Documentation: ` + urls.Documentation,
	Version:      version.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the inspector when no subcommand provided
		return runInspect(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (the inspector logs to the config directory by default)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Configuration directory")

	rootCmd.AddCommand(versionCmd)
}

// setup applies the global flags before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if configDir != "" {
		config.SetConfigDir(configDir)
	}

	output := logFile
	if output == "" && isTUI(cmd) {
		// The terminal belongs to the renderer
		if dir, err := config.GetConfigDir(); err == nil {
			if err := os.MkdirAll(dir, 0o700); err == nil {
				output = filepath.Join(dir, "smartap-inspect.log")
			}
		}
	}
	return logging.Initialize(logLevel, output)
}

func isTUI(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == inspectCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Printf("smartap-inspect %s (commit: %s, %s)\n", info.Version, info.Commit, info.GoVersion)
	},
}

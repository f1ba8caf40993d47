// Package config provides user configuration management for smartap-inspect.
//
// The configuration is a single YAML file holding application preferences,
// device nicknames and outlet labels, and the saved layout of each
// inspector panel (which groups were open). The panel never writes layout
// itself; the host passes SaveLayout, or its own callback built on
// Registry.SetLayout, as the panel's LayoutChanged function.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/smartap-inspect/config.yaml or $HOME/.config/smartap-inspect/config.yaml
//   - macOS: $HOME/.config/smartap-inspect/config.yaml
//   - Windows: %LOCALAPPDATA%\smartap-inspect\config.yaml
//
// SetConfigDir overrides the directory (the --config flag).
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	props.LayoutConfig = registry.Layout("device")
//	props.LayoutChanged = func(tree layout.Tree) {
//	    _ = config.SaveLayout("device", tree)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config

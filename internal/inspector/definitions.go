package inspector

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/deviceconfig"
	"github.com/muurk/smartap-inspector/internal/layout"
	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/panel"
	"github.com/muurk/smartap-inspector/internal/panel/entry"
)

// PanelID keys the inspector's layout in the config registry.
const PanelID = "device"

// Group ids.
const (
	GroupDevice   = "device"
	GroupServer   = "server"
	GroupDiverter = "diverter"
	GroupNetworks = "networks"
)

// Rule keys for network entries, whose ids change per network.
const (
	RuleSSID     = "wifi.ssid"
	RulePassword = "wifi.password"
)

// DefaultLayout opens the diverter group for first-time users.
func DefaultLayout() layout.Tree {
	return layout.Tree{
		"groups": map[string]any{
			GroupDiverter: map[string]any{"open": true},
		},
	}
}

// definitions builds the groups for a loaded target. Entries read the
// configuration through the panel element; setters edit t's draft and
// report the change to the app.
func (a *App) definitions(t *Target) []panel.Definition {
	if t.Draft == nil {
		return nil
	}
	return []panel.Definition{
		a.deviceGroup(),
		a.serverGroup(t),
		a.diverterGroup(t),
		a.networkGroup(t),
	}
}

func (a *App) deviceGroup() panel.GroupDefinition {
	readOnly := func(id, label string, get func(*deviceconfig.DeviceConfig) string) panel.EntryDefinition {
		return panel.EntryDefinition{
			ID: id,
			Component: entry.NewTextField(entry.TextFieldProps{
				ID:       id,
				Label:    label,
				Disabled: true,
				GetValue: func(el panel.Element) string { return get(originalOf(el)) },
			}),
		}
	}

	return panel.GroupDefinition{
		ID:    GroupDevice,
		Label: "Device",
		Entries: []panel.EntryDefinition{
			readOnly(deviceconfig.FieldSerial, "Serial", func(c *deviceconfig.DeviceConfig) string { return c.Serial }),
			readOnly(deviceconfig.FieldMAC, "MAC address", func(c *deviceconfig.DeviceConfig) string { return c.MAC }),
			readOnly(deviceconfig.FieldFirmware, "Firmware", func(c *deviceconfig.DeviceConfig) string { return c.SWVer }),
			{
				ID: deviceconfig.FieldLowPower,
				Component: entry.NewCheckbox(entry.CheckboxProps{
					ID:       deviceconfig.FieldLowPower,
					Label:    "Low power mode",
					Disabled: true,
					GetValue: func(el panel.Element) bool { return originalOf(el).LowPowerMode },
				}),
			},
		},
	}
}

func (a *App) serverGroup(t *Target) panel.GroupDefinition {
	return panel.GroupDefinition{
		ID:    GroupServer,
		Label: "Server",
		Entries: []panel.EntryDefinition{
			{
				ID: deviceconfig.FieldDNS,
				Component: entry.NewTextField(entry.TextFieldProps{
					ID:          deviceconfig.FieldDNS,
					Label:       "Hostname",
					Debounce:    a.debounce,
					Placeholder: "lb.smartap-tech.com",
					CharLimit:   253,
					GetValue:    func(el panel.Element) string { return configOf(el).DNS },
					SetValue: func(v string) {
						a.edit(t, deviceconfig.FieldDNS, v, func(d *deviceconfig.Draft) {
							d.Config.DNS = strings.TrimSpace(v)
						})
					},
					Validate: a.rules.Chain(deviceconfig.FieldDNS, deviceconfig.CheckDNS),
				}),
				IsEdited: func(s panel.InputState) bool { return s.Value != t.Draft.Original.DNS },
			},
			{
				ID: deviceconfig.FieldPort,
				Component: entry.NewTextField(entry.TextFieldProps{
					ID:        deviceconfig.FieldPort,
					Label:     "Port",
					Debounce:  a.debounce,
					CharLimit: 5,
					GetValue:  func(el panel.Element) string { return strconv.Itoa(configOf(el).Port) },
					SetValue: func(v string) {
						port, err := strconv.Atoi(strings.TrimSpace(v))
						if err != nil {
							return
						}
						a.edit(t, deviceconfig.FieldPort, port, func(d *deviceconfig.Draft) {
							d.Config.Port = port
						})
					},
					Validate: a.rules.Chain(deviceconfig.FieldPort, deviceconfig.CheckPort),
				}),
				IsEdited: func(s panel.InputState) bool { return s.Value != strconv.Itoa(t.Draft.Original.Port) },
			},
		},
	}
}

func (a *App) diverterGroup(t *Target) panel.GroupDefinition {
	var entries []panel.EntryDefinition
	for press := 1; press <= 3; press++ {
		for outlet := 1; outlet <= 3; outlet++ {
			id := deviceconfig.OutletField(press, outlet)
			entries = append(entries, panel.EntryDefinition{
				ID: id,
				Component: entry.NewCheckbox(entry.CheckboxProps{
					ID:       id,
					Label:    fmt.Sprintf("Press %d · %s", press, a.outletLabel(t, outlet)),
					GetValue: func(el panel.Element) bool { return configOf(el).OutletOn(press, outlet) },
					SetValue: func(on bool) {
						a.edit(t, id, on, func(d *deviceconfig.Draft) {
							d.Config.SetOutlet(press, outlet, on)
						})
					},
				}),
				IsEdited: func(s panel.InputState) bool { return s.Checked != t.Draft.Original.OutletOn(press, outlet) },
			})
		}
	}

	entries = append(entries, panel.EntryDefinition{
		ID: deviceconfig.FieldK3Outlet,
		Component: entry.NewCheckbox(entry.CheckboxProps{
			ID:       deviceconfig.FieldK3Outlet,
			Label:    "Knob 3 separate outlet",
			GetValue: func(el panel.Element) bool { return configOf(el).K3Outlet },
			SetValue: func(on bool) {
				a.edit(t, deviceconfig.FieldK3Outlet, on, func(d *deviceconfig.Draft) {
					d.Config.K3Outlet = on
				})
			},
		}),
		IsEdited: func(s panel.InputState) bool { return s.Checked != t.Draft.Original.K3Outlet },
	})

	return panel.GroupDefinition{
		ID:      GroupDiverter,
		Label:   "Diverter",
		Entries: entries,
	}
}

func (a *App) networkGroup(t *Target) panel.ListGroupDefinition {
	items := make([]panel.ListItemDefinition, 0, len(t.Draft.Networks))
	for _, n := range t.Draft.Networks {
		items = append(items, a.networkItem(t, n))
	}

	return panel.ListGroupDefinition{
		ID:         GroupNetworks,
		Label:      "WiFi networks",
		Items:      items,
		ShouldSort: true,
		Add: func() {
			n := t.Draft.AddNetwork()
			logging.Debug("Network added", zap.String("network", n.ID))
			a.touch()
		},
	}
}

func (a *App) networkItem(t *Target, n *deviceconfig.Network) panel.ListItemDefinition {
	id := n.ID
	ssidID := deviceconfig.NetworkField(id, deviceconfig.NetworkSSID)
	passwordID := deviceconfig.NetworkField(id, deviceconfig.NetworkPassword)
	openID := deviceconfig.NetworkField(id, deviceconfig.NetworkOpen)
	connectID := deviceconfig.NetworkField(id, deviceconfig.NetworkConnect)

	label := n.SSID
	if label == "" {
		label = "New network"
	}
	if n.Known {
		label += " (saved)"
	}
	if t.Draft.Connect == id {
		label += " · connect"
	}

	item := panel.ListItemDefinition{
		ID:       id,
		Label:    label,
		AutoOpen: !n.Known,
		Entries: []panel.EntryDefinition{
			{
				ID: ssidID,
				Component: entry.NewTextField(entry.TextFieldProps{
					ID:        ssidID,
					Label:     "Network name",
					Debounce:  a.debounce,
					Disabled:  n.Known,
					CharLimit: 32,
					GetValue:  func(el panel.Element) string { return networkOf(el, id).SSID },
					SetValue: func(v string) {
						a.edit(t, ssidID, v, func(d *deviceconfig.Draft) {
							if n := d.Network(id); n != nil {
								n.SSID = v
							}
						})
					},
					Validate: a.rules.Chain(RuleSSID, deviceconfig.CheckSSID),
				}),
			},
			{
				ID: passwordID,
				Component: entry.NewTextField(entry.TextFieldProps{
					ID:        passwordID,
					Label:     "Password",
					Debounce:  a.debounce,
					Disabled:  n.Open,
					Secret:    true,
					CharLimit: 63,
					GetValue:  func(el panel.Element) string { return networkOf(el, id).Password },
					SetValue: func(v string) {
						a.edit(t, passwordID, "***", func(d *deviceconfig.Draft) {
							if n := d.Network(id); n != nil {
								n.Password = v
							}
						})
					},
					Validate: a.rules.Validator(RulePassword),
				}),
			},
			{
				ID: openID,
				Component: entry.NewCheckbox(entry.CheckboxProps{
					ID:       openID,
					Label:    "Open network (no password)",
					GetValue: func(el panel.Element) bool { return networkOf(el, id).Open },
					SetValue: func(on bool) {
						a.edit(t, openID, on, func(d *deviceconfig.Draft) {
							if n := d.Network(id); n != nil {
								n.Open = on
								if on {
									n.Password = ""
								}
							}
						})
					},
				}),
			},
			{
				ID: connectID,
				Component: entry.NewCheckbox(entry.CheckboxProps{
					ID:       connectID,
					Label:    "Connect on apply",
					GetValue: func(el panel.Element) bool { return configConnect(el) == id },
					SetValue: func(on bool) {
						a.edit(t, connectID, on, func(d *deviceconfig.Draft) {
							switch {
							case on:
								d.Connect = id
							case d.Connect == id:
								d.Connect = ""
							}
						})
					},
				}),
			},
		},
	}

	if !n.Known {
		item.AutoFocusEntry = ssidID
		item.Remove = func() {
			t.Draft.RemoveNetwork(id)
			a.touch()
		}
	}
	return item
}

func configConnect(el panel.Element) string {
	if t, ok := el.(*Target); ok && t.Draft != nil {
		return t.Draft.Connect
	}
	return ""
}

func (a *App) outletLabel(t *Target, outlet int) string {
	if a.registry == nil {
		return fmt.Sprintf("Outlet %d", outlet)
	}
	return a.registry.GetDevice(t.Serial()).OutletLabel(outlet)
}

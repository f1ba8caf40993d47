package inspector

import (
	"fmt"
	"strconv"

	"github.com/muurk/smartap-inspector/internal/config"
	"github.com/muurk/smartap-inspector/internal/deviceconfig"
	"github.com/muurk/smartap-inspector/internal/panel"
)

// deviceHeader names the selected target in the panel header.
type deviceHeader struct {
	registry *config.Registry
}

func (h deviceHeader) ElementLabel(el panel.Element) string {
	t, ok := el.(*Target)
	if !ok {
		return ""
	}
	serial := t.Serial()
	if serial == "" {
		return t.Name
	}
	if h.registry == nil {
		return "eValve" + serial
	}
	if name := h.registry.DisplayName(serial); name != serial {
		return name + " (" + serial + ")"
	}
	return "eValve" + serial
}

func (h deviceHeader) TypeLabel(el panel.Element) string {
	t, ok := el.(*Target)
	if !ok {
		return ""
	}
	kind := "Smartap device"
	if t.IsFile() {
		kind = "Saved configuration"
	}
	switch {
	case t.Loading:
		return kind + " · loading"
	case t.Err != nil:
		return kind + " · " + deviceconfig.ShortMessage(t.Err)
	case t.Draft == nil:
		return kind
	case t.Modified():
		return kind + " · firmware " + t.Draft.Original.SWVer + " · modified"
	}
	return kind + " · firmware " + t.Draft.Original.SWVer
}

// DocumentationRef shows where the configuration came from.
func (h deviceHeader) DocumentationRef(el panel.Element) string {
	if t, ok := el.(*Target); ok {
		return t.Source
	}
	return ""
}

type placeholders struct{}

func (placeholders) GetEmpty(panel.Element) panel.Placeholder {
	return panel.Placeholder{Icon: "○", Text: "No device selected. Pick one from the list, or press r to scan."}
}

func (placeholders) GetMultiple(el panel.Element) panel.Placeholder {
	n := 0
	if targets, ok := el.([]*Target); ok {
		n = len(targets)
	}
	return panel.Placeholder{Icon: "◎", Text: fmt.Sprintf("%d devices selected. Unmark all but one to edit.", n)}
}

func configOf(el panel.Element) *deviceconfig.DeviceConfig {
	if t, ok := el.(*Target); ok && t.Draft != nil {
		return t.Draft.Config
	}
	return &deviceconfig.DeviceConfig{}
}

func originalOf(el panel.Element) *deviceconfig.DeviceConfig {
	if t, ok := el.(*Target); ok && t.Draft != nil {
		return t.Draft.Original
	}
	return &deviceconfig.DeviceConfig{}
}

func networkOf(el panel.Element, id string) *deviceconfig.Network {
	if t, ok := el.(*Target); ok && t.Draft != nil {
		if n := t.Draft.Network(id); n != nil {
			return n
		}
	}
	return &deviceconfig.Network{}
}

// descriptions returns the help text shown under device entries. The map
// is built once so the panel keeps its descriptions across selections.
func descriptions() panel.DescriptionMap {
	m := panel.DescriptionMap{
		deviceconfig.FieldDNS: func(el panel.Element) string {
			return "Server the device reports to. On the device: " + originalOf(el).DNS
		},
		deviceconfig.FieldPort: func(el panel.Element) string {
			return "On the device: " + strconv.Itoa(originalOf(el).Port)
		},
		deviceconfig.FieldK3Outlet: func(panel.Element) string {
			return "Knob 3 opens its own outlet instead of following the press sequence."
		},
		deviceconfig.FieldLowPower: func(panel.Element) string {
			return "Reported by the device. It cannot be changed over HTTP."
		},
		deviceconfig.FieldFirmware: func(el panel.Element) string {
			if wnp := originalOf(el).WNPVer; wnp != "" {
				return "Network processor " + wnp
			}
			return ""
		},
	}
	for press := 1; press <= 3; press++ {
		m[deviceconfig.OutletField(press, 1)] = func(el panel.Element) string {
			now := deviceconfig.FormatBitmask(configOf(el).Outlets(press))
			was := deviceconfig.FormatBitmask(originalOf(el).Outlets(press))
			if now == was {
				return "Press " + strconv.Itoa(press) + " opens " + now
			}
			return "Press " + strconv.Itoa(press) + " opens " + now + " (device: " + was + ")"
		}
	}
	return m
}

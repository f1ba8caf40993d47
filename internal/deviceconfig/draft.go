package deviceconfig

import (
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
)

// WiFi security types accepted by the device.
const (
	SecurityWPA2 = "WPA2"
	SecurityOpen = "OPEN"
)

// Entry ids used by the inspector for device fields. Network entries are
// built with NetworkField and press entries with OutletField.
const (
	FieldDNS          = "server.dns"
	FieldPort         = "server.port"
	FieldK3Outlet     = "diverter.k3"
	FieldLowPower     = "device.lowPower"
	FieldSerial       = "device.serial"
	FieldMAC          = "device.mac"
	FieldFirmware     = "device.firmware"
	NetworkSSID       = "ssid"
	NetworkPassword   = "password"
	NetworkOpen       = "open"
	NetworkConnect    = "connect"
	networkFieldScope = "wifi"
)

// OutletField returns the entry id of one outlet checkbox of a press.
func OutletField(press, outlet int) string {
	return fmt.Sprintf("diverter.press%d.outlet%d", press, outlet)
}

// NetworkField returns the entry id of a network's field.
func NetworkField(networkID, field string) string {
	return networkFieldScope + "." + networkID + "." + field
}

// Network is a WiFi network in the inspector's list. Known networks come
// from the device's ssidList and cannot be renamed or removed.
type Network struct {
	ID       string
	SSID     string
	Password string
	Open     bool
	Known    bool
}

// SecurityType returns the device security type for the network.
func (n *Network) SecurityType() string {
	if n.Open {
		return SecurityOpen
	}
	return SecurityWPA2
}

// Draft holds the edits made to one device's configuration. Original is
// what the device reported; Config starts as a copy and is changed by the
// inspector's entries.
type Draft struct {
	Original *DeviceConfig
	Config   *DeviceConfig
	Networks []*Network
	// Connect is the id of the network to join on apply, or "".
	Connect string
}

// NewDraft starts editing current.
func NewDraft(current *DeviceConfig) *Draft {
	d := &Draft{Original: current}
	d.Reset()
	return d
}

// Reset discards every edit.
func (d *Draft) Reset() {
	d.Config = d.Original.Clone()
	d.Networks = nil
	for i, ssid := range d.Original.SSIDList {
		d.Networks = append(d.Networks, &Network{ID: fmt.Sprintf("known%d", i), SSID: ssid, Known: true})
	}
	d.Connect = ""
}

// AddNetwork appends an empty, unsaved network and returns it.
func (d *Draft) AddNetwork() *Network {
	n := &Network{ID: ulid.Make().String()}
	d.Networks = append(d.Networks, n)
	return n
}

// RemoveNetwork drops an added network. Known networks stay.
func (d *Draft) RemoveNetwork(id string) bool {
	for i, n := range d.Networks {
		if n.ID == id && !n.Known {
			d.Networks = append(d.Networks[:i], d.Networks[i+1:]...)
			if d.Connect == id {
				d.Connect = ""
			}
			return true
		}
	}
	return false
}

// Network looks up a network by id.
func (d *Draft) Network(id string) *Network {
	for _, n := range d.Networks {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FieldErrors validates the draft and maps each problem to the entry id
// that shows it.
func (d *Draft) FieldErrors() map[string]string {
	errs := map[string]string{}
	set := func(id, msg string) {
		if msg != "" {
			errs[id] = msg
		}
	}

	set(FieldDNS, CheckDNS(d.Config.DNS))
	set(FieldPort, CheckPort(strconv.Itoa(d.Config.Port)))

	if d.Config.Outlet1 == 0 && d.Config.Outlet2 == 0 && d.Config.Outlet3 == 0 {
		set(OutletField(1, 1), "No outlet opens on any press")
	}

	seen := map[string]string{}
	for _, n := range d.Networks {
		if n.Known {
			seen[n.SSID] = n.ID
			continue
		}
		set(NetworkField(n.ID, NetworkSSID), CheckSSID(n.SSID))
		if other, dup := seen[n.SSID]; dup && n.SSID != "" && other != n.ID {
			set(NetworkField(n.ID, NetworkSSID), "Network "+n.SSID+" is already listed")
		}
		seen[n.SSID] = n.ID
	}

	if n := d.Network(d.Connect); n != nil {
		set(NetworkField(n.ID, NetworkPassword), CheckPassword(n.Password, n.SecurityType()))
	}

	return errs
}

// HasChanges reports whether applying the draft would change the device.
func (d *Draft) HasChanges() bool {
	return !d.Update().IsEmpty()
}

// Update builds the configuration update for the sections that changed.
func (d *Draft) Update() *ConfigUpdate {
	update := &ConfigUpdate{}
	o, c := d.Original, d.Config

	if o.Outlet1 != c.Outlet1 || o.Outlet2 != c.Outlet2 || o.Outlet3 != c.Outlet3 || o.K3Outlet != c.K3Outlet {
		update.Diverter = &DiverterConfig{
			FirstPress:  c.Outlet1,
			SecondPress: c.Outlet2,
			ThirdPress:  c.Outlet3,
			K3Mode:      c.K3Outlet,
		}
	}
	if o.DNS != c.DNS || o.Port != c.Port {
		update.Server = &ServerConfig{DNS: c.DNS, Port: c.Port}
	}
	if n := d.Network(d.Connect); n != nil {
		update.WiFi = &WiFiConfig{
			SSID:         n.SSID,
			Password:     n.Password,
			SecurityType: n.SecurityType(),
		}
	}
	return update
}

// Build validates the draft and returns the update to send.
func (d *Draft) Build() (*ConfigUpdate, error) {
	if errs := d.FieldErrors(); len(errs) > 0 {
		return nil, NewValidationError(fmt.Sprintf("%d field(s) need attention", len(errs)))
	}
	update := d.Update()
	if errs := ValidateConfigUpdate(update); len(errs) > 0 {
		return nil, errs[0]
	}
	return update, nil
}

// Result returns the configuration the device will report once the
// draft is applied. A newly joined network is added to its ssidList.
func (d *Draft) Result() *DeviceConfig {
	next := d.Config.Clone()
	if n := d.Network(d.Connect); n != nil && !n.Known {
		next.SSIDList = append(next.SSIDList, n.SSID)
	}
	return next
}

// Applied records that the device accepted the draft: the edited
// configuration becomes the original.
func (d *Draft) Applied() {
	d.Original = d.Result()
	d.Reset()
}

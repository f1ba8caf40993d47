package deviceconfig

import (
	"testing"
)

func newTestDraft(t *testing.T) *Draft {
	t.Helper()
	dc, err := ParseDeviceConfig([]byte(validDeviceResponse))
	if err != nil {
		t.Fatal(err)
	}
	return NewDraft(dc)
}

func TestDraft_NoChanges(t *testing.T) {
	d := newTestDraft(t)

	if d.HasChanges() {
		t.Error("HasChanges() = true for a fresh draft")
	}
	if len(d.Networks) != 1 || !d.Networks[0].Known || d.Networks[0].SSID != "NETGEAR89" {
		t.Errorf("Networks = %+v, want the known NETGEAR89", d.Networks)
	}
	if errs := d.FieldErrors(); len(errs) != 0 {
		t.Errorf("FieldErrors() = %v, want none", errs)
	}
}

func TestDraft_Update(t *testing.T) {
	d := newTestDraft(t)
	d.Config.SetOutlet(1, 2, true)
	d.Config.Port = 443

	update := d.Update()
	if update.Diverter == nil || update.Diverter.FirstPress != 3 || !update.Diverter.K3Mode {
		t.Errorf("Update().Diverter = %+v, want first press 3 with K3", update.Diverter)
	}
	if update.Server == nil || update.Server.Port != 443 || update.Server.DNS != "lb.smartap-tech.com" {
		t.Errorf("Update().Server = %+v", update.Server)
	}
	if update.WiFi != nil {
		t.Errorf("Update().WiFi = %+v, want nil without a network to join", update.WiFi)
	}
	if d.Original.Outlet1 != 1 {
		t.Error("editing the draft changed the original")
	}

	d.Reset()
	if d.HasChanges() {
		t.Error("HasChanges() = true after Reset()")
	}
}

func TestDraft_Networks(t *testing.T) {
	d := newTestDraft(t)

	n := d.AddNetwork()
	if n.ID == "" || n.Known {
		t.Fatalf("AddNetwork() = %+v", n)
	}

	errs := d.FieldErrors()
	if errs[NetworkField(n.ID, NetworkSSID)] != "Network name is required" {
		t.Errorf("FieldErrors() = %v, want ssid required", errs)
	}

	n.SSID = "NETGEAR89"
	if got := d.FieldErrors()[NetworkField(n.ID, NetworkSSID)]; got != "Network NETGEAR89 is already listed" {
		t.Errorf("duplicate ssid error = %q", got)
	}

	n.SSID = "Cafe"
	d.Connect = n.ID
	if got := d.FieldErrors()[NetworkField(n.ID, NetworkPassword)]; got == "" {
		t.Error("joining a WPA2 network without a password should be an error")
	}

	n.Open = true
	if errs := d.FieldErrors(); len(errs) != 0 {
		t.Errorf("FieldErrors() = %v, want none", errs)
	}
	update := d.Update()
	if update.WiFi == nil || update.WiFi.SSID != "Cafe" || update.WiFi.SecurityType != SecurityOpen {
		t.Errorf("Update().WiFi = %+v", update.WiFi)
	}

	if d.RemoveNetwork(d.Networks[0].ID) {
		t.Error("RemoveNetwork() removed a known network")
	}
	if !d.RemoveNetwork(n.ID) || d.Connect != "" || d.Network(n.ID) != nil {
		t.Error("RemoveNetwork() should drop the network and the join request")
	}
}

func TestDraft_Build(t *testing.T) {
	d := newTestDraft(t)
	d.Config.Outlet1, d.Config.Outlet2, d.Config.Outlet3 = 0, 0, 0

	if _, err := d.Build(); !IsValidationError(err) {
		t.Errorf("Build() error = %v, want validation error", err)
	}
	if d.FieldErrors()[OutletField(1, 1)] == "" {
		t.Error("empty diverter should be reported on the first outlet entry")
	}

	d.Config.Outlet1 = 7
	update, err := d.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if update.Diverter == nil || update.Diverter.FirstPress != 7 {
		t.Errorf("Build() = %+v", update.Diverter)
	}
}

func TestDraft_Applied(t *testing.T) {
	d := newTestDraft(t)
	n := d.AddNetwork()
	n.SSID, n.Password = "Home", "password1"
	d.Connect = n.ID
	d.Config.DNS = "local.example"

	d.Applied()

	if d.Original.DNS != "local.example" {
		t.Errorf("Original.DNS = %v, want applied value", d.Original.DNS)
	}
	if d.HasChanges() {
		t.Error("HasChanges() = true after Applied()")
	}
	if len(d.Networks) != 2 || !d.Networks[1].Known || d.Networks[1].SSID != "Home" {
		t.Errorf("Networks after apply = %+v, want Home as known", d.Networks)
	}
}

func TestDraft_ResultLeavesDraftAlone(t *testing.T) {
	d := newTestDraft(t)
	n := d.AddNetwork()
	n.SSID = "Cabin"
	d.Connect = n.ID

	got := d.Result()
	if last := got.SSIDList[len(got.SSIDList)-1]; last != "Cabin" {
		t.Errorf("Result().SSIDList = %v, want Cabin appended", got.SSIDList)
	}
	if len(d.Config.SSIDList) != len(d.Original.SSIDList) {
		t.Errorf("Config.SSIDList = %v, want it unchanged", d.Config.SSIDList)
	}
}

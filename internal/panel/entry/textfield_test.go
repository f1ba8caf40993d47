package entry

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartap-inspector/internal/panel"
)

type server struct {
	host string
	port string
}

type setterSpy struct {
	calls  int
	values []string
}

func (s *setterSpy) set(target *string) func(string) {
	return func(v string) {
		s.calls++
		s.values = append(s.values, v)
		*target = v
	}
}

func notBlank(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Host must not be empty"
	}
	return ""
}

func newServices(el panel.Element, errors *panel.ErrorStore) *panel.Services {
	return panel.NewServices(panel.ServicesConfig{
		PanelID: "test",
		Element: el,
		Errors:  errors,
	})
}

func hostField(srv *server, spy *setterSpy, debounce time.Duration, validate func(string) string) *TextField {
	return NewTextField(TextFieldProps{
		ID:       "server.host",
		Label:    "Host",
		Debounce: debounce,
		GetValue: func(el panel.Element) string { return el.(*server).host },
		SetValue: spy.set(&srv.host),
		Validate: validate,
	})
}

func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestTextField_RejectedValueStaysVisible(t *testing.T) {
	srv := &server{host: "lwdb.smartap-tech.com"}
	spy := &setterSpy{}
	tf := hostField(srv, spy, 0, notBlank)
	tf.Mount(newServices(srv, panel.NewErrorStore()))

	tf.SetDraft("   ")
	tf.Sync()

	if spy.calls != 0 {
		t.Errorf("setter called %d times, want 0", spy.calls)
	}
	if got := tf.Value(); got != "   " {
		t.Errorf("Value() = %q, want rejected input %q", got, "   ")
	}
	if got := tf.LocalError(); got != "Host must not be empty" {
		t.Errorf("LocalError() = %q", got)
	}
	if srv.host != "lwdb.smartap-tech.com" {
		t.Errorf("model changed to %q", srv.host)
	}

	// Further syncs with the model untouched keep showing the rejected text.
	tf.Sync()
	if got := tf.Value(); got != "   " {
		t.Errorf("Value() after second Sync = %q, want %q", got, "   ")
	}
}

func TestTextField_DebounceCommitsLastValueOnce(t *testing.T) {
	srv := &server{host: ""}
	spy := &setterSpy{}
	tf := hostField(srv, spy, time.Millisecond, nil)
	tf.Mount(newServices(srv, nil))

	var cmds []tea.Cmd
	for i := 1; i <= 10; i++ {
		cmds = append(cmds, tf.SetDraft(strings.Repeat("a", i)))
	}
	if spy.calls != 0 {
		t.Fatalf("setter called before debounce fired: %d", spy.calls)
	}
	if !tf.Pending() {
		t.Error("Pending() = false with commits scheduled")
	}

	for _, cmd := range cmds {
		tf.Update(run(cmd))
	}

	if spy.calls != 1 {
		t.Fatalf("setter called %d times, want 1", spy.calls)
	}
	if got, want := spy.values[0], strings.Repeat("a", 10); got != want {
		t.Errorf("committed %q, want %q", got, want)
	}
	if tf.Pending() {
		t.Error("Pending() = true after commit")
	}
}

func TestTextField_DisposeCancelsPendingCommit(t *testing.T) {
	srv := &server{host: "a"}
	spy := &setterSpy{}
	tf := hostField(srv, spy, time.Millisecond, nil)
	tf.Mount(newServices(srv, nil))

	cmd := tf.SetDraft("b")
	tf.Dispose()
	tf.Update(run(cmd))

	if spy.calls != 0 {
		t.Errorf("setter called %d times after Dispose, want 0", spy.calls)
	}
}

func TestTextField_IgnoresOtherFieldsCommits(t *testing.T) {
	srv := &server{}
	spyA, spyB := &setterSpy{}, &setterSpy{}
	a := hostField(srv, spyA, time.Millisecond, nil)
	b := hostField(srv, spyB, time.Millisecond, nil)
	a.Mount(newServices(srv, nil))
	b.Mount(newServices(srv, nil))

	msg := run(a.SetDraft("x"))
	b.SetDraft("y")
	b.Update(msg)

	if spyB.calls != 0 {
		t.Errorf("b committed on a's message")
	}
	a.Update(msg)
	if spyA.calls != 1 {
		t.Errorf("a setter calls = %d, want 1", spyA.calls)
	}
}

func TestTextField_ExternalChangeRevalidates(t *testing.T) {
	srv := &server{host: "a"}
	spy := &setterSpy{}
	tf := hostField(srv, spy, 0, notBlank)
	tf.Mount(newServices(srv, nil))

	tf.SetDraft("")
	tf.Sync()
	if tf.LocalError() == "" {
		t.Fatal("expected validation error")
	}

	srv.host = "192.168.1.50"
	tf.Sync()

	if got := tf.Value(); got != "192.168.1.50" {
		t.Errorf("Value() = %q, want external value", got)
	}
	if got := tf.LocalError(); got != "" {
		t.Errorf("LocalError() = %q, want cleared", got)
	}

	srv.host = " "
	tf.Sync()
	if tf.LocalError() == "" {
		t.Error("external invalid value not flagged")
	}
	if got := tf.Value(); got != " " {
		t.Errorf("Value() = %q, want external value shown", got)
	}
}

func TestTextField_InitiallyInvalidShowsExternal(t *testing.T) {
	srv := &server{host: ""}
	tf := hostField(srv, &setterSpy{}, 0, notBlank)
	tf.Mount(newServices(srv, nil))
	tf.Sync()

	if tf.LocalError() == "" {
		t.Error("LocalError() empty for invalid initial value")
	}
	if got := tf.Value(); got != "" {
		t.Errorf("Value() = %q, want %q", got, "")
	}
}

func TestTextField_ValidCommitClearsError(t *testing.T) {
	srv := &server{host: "a"}
	spy := &setterSpy{}
	tf := hostField(srv, spy, 0, notBlank)
	tf.Mount(newServices(srv, nil))

	tf.SetDraft("")
	tf.SetDraft("b")
	tf.Sync()

	if got := tf.LocalError(); got != "" {
		t.Errorf("LocalError() = %q, want cleared", got)
	}
	if spy.calls != 1 || srv.host != "b" {
		t.Errorf("calls=%d host=%q, want 1 and b", spy.calls, srv.host)
	}
	if got := tf.Value(); got != "b" {
		t.Errorf("Value() = %q, want b", got)
	}
}

func TestTextField_EmptyInputCommitsEmpty(t *testing.T) {
	srv := &server{host: "a"}
	spy := &setterSpy{}
	tf := hostField(srv, spy, 0, nil)
	tf.Mount(newServices(srv, nil))

	tf.SetDraft("")

	if spy.calls != 1 || spy.values[0] != "" {
		t.Errorf("setter values = %v, want [\"\"]", spy.values)
	}
}

func TestTextField_GlobalErrorWins(t *testing.T) {
	srv := &server{host: "a"}
	errs := panel.NewErrorStore()
	tf := hostField(srv, &setterSpy{}, 0, notBlank)
	tf.Mount(newServices(srv, errs))

	tf.SetDraft("")
	errs.Replace(map[string]string{"server.host": "Device rejected host"})

	if got := tf.DisplayedError(); got != "Device rejected host" {
		t.Errorf("DisplayedError() = %q, want global error", got)
	}

	errs.Replace(map[string]string{})
	if got := tf.DisplayedError(); got != "Host must not be empty" {
		t.Errorf("DisplayedError() = %q, want local error", got)
	}
}

func TestTextField_KeysOnlyWhenFocused(t *testing.T) {
	srv := &server{host: ""}
	spy := &setterSpy{}
	tf := hostField(srv, spy, 0, nil)
	tf.Mount(newServices(srv, nil))

	typeA := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}

	tf.Update(typeA)
	if tf.Value() != "" {
		t.Errorf("unfocused field accepted input: %q", tf.Value())
	}

	tf.Focus()
	tf.Update(typeA)
	if tf.Value() != "a" {
		t.Errorf("Value() = %q, want a", tf.Value())
	}
	if spy.calls != 1 {
		t.Errorf("setter calls = %d, want 1", spy.calls)
	}
}

func TestTextField_ReconfigureKeepsDraft(t *testing.T) {
	srv := &server{host: "a"}
	spy := &setterSpy{}
	tf := hostField(srv, spy, time.Millisecond, nil)
	tf.Mount(newServices(srv, nil))
	cmd := tf.SetDraft("draft")

	replacement := NewTextField(TextFieldProps{
		ID:       "server.host",
		Label:    "Server host",
		Debounce: time.Millisecond,
		GetValue: func(el panel.Element) string { return el.(*server).host },
		SetValue: spy.set(&srv.host),
	})
	if !tf.Reconfigure(replacement) {
		t.Fatal("Reconfigure() = false")
	}
	if tf.Value() != "draft" {
		t.Errorf("Value() = %q, want draft kept", tf.Value())
	}

	tf.Update(run(cmd))
	if srv.host != "draft" {
		t.Errorf("host = %q, want draft", srv.host)
	}

	if tf.Reconfigure(NewCheckbox(CheckboxProps{ID: "server.host"})) {
		t.Error("Reconfigure() accepted a checkbox")
	}
}

func TestIsTextFieldEdited(t *testing.T) {
	if IsTextFieldEdited(panel.InputState{}) {
		t.Error("empty value reported as edited")
	}
	if !IsTextFieldEdited(panel.InputState{Value: "x"}) {
		t.Error("non-empty value not reported as edited")
	}
}

func TestTextField_SecretMasksDisabledView(t *testing.T) {
	srv := &server{host: "hunter22"}
	field := NewTextField(TextFieldProps{
		ID:       "wifi.password",
		Label:    "Password",
		Disabled: true,
		Secret:   true,
		GetValue: func(el panel.Element) string { return el.(*server).host },
	})
	field.Mount(newServices(srv, nil))

	view := field.View(false, 40)
	if strings.Contains(view, "hunter22") {
		t.Errorf("View() = %q, want the password masked", view)
	}
	if !strings.Contains(view, "••••••••") {
		t.Errorf("View() = %q, want eight mask characters", view)
	}
	if got := field.Value(); got != "hunter22" {
		t.Errorf("Value() = %v, want hunter22", got)
	}
}

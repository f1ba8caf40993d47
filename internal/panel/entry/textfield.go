package entry

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"

	"github.com/muurk/smartap-inspector/internal/panel"
)

// commitMsg fires when a text field's debounce interval has passed.
// Only the message carrying the field's latest seq commits.
type commitMsg struct {
	owner ulid.ULID
	seq   uint64
}

// TextFieldProps configures a TextField.
type TextFieldProps struct {
	ID    string
	Label string
	// Description overrides the panel's description for ID.
	Description string
	// Debounce is the quiet interval before typed text is validated and
	// committed. Zero commits on every keystroke.
	Debounce time.Duration
	Disabled bool
	GetValue func(el panel.Element) string
	SetValue func(value string)
	// Validate returns a message for invalid values and "" otherwise.
	Validate    func(value string) string
	Placeholder string
	CharLimit   int
	// Secret masks the text, for passwords.
	Secret      bool
	OnFocus     func()
	OnBlur      func()
}

// TextField edits a string field.
//
// Typed text is shown at once and committed after the debounce interval.
// A value that fails validation is not passed to SetValue; it stays on
// screen with the validation message until the user fixes it or the
// element's value changes.
type TextField struct {
	props TextFieldProps
	svc   *panel.Services
	owner ulid.ULID
	input textinput.Model

	external      string
	shown         string
	cachedInvalid string
	hasCached     bool
	localError    string

	seq      uint64
	pending  bool
	disposed bool
	focused  bool
}

// NewTextField returns an unmounted text field.
func NewTextField(props TextFieldProps) *TextField {
	return &TextField{props: props}
}

func (t *TextField) ID() string { return t.props.ID }

func (t *TextField) Mount(svc *panel.Services) {
	t.svc = svc
	t.owner = ulid.Make()
	t.seq = 0
	t.pending = false
	t.disposed = false
	t.focused = false
	t.hasCached = false
	t.cachedInvalid = ""
	t.localError = ""

	t.input = textinput.New()
	t.input.Prompt = "> "
	t.applyProps()

	t.external = t.read()
	t.validateExternal()
	t.shown = t.external
	t.input.SetValue(t.external)
}

func (t *TextField) applyProps() {
	t.input.Placeholder = t.props.Placeholder
	t.input.CharLimit = t.props.CharLimit
	t.input.EchoMode = textinput.EchoNormal
	if t.props.Secret {
		t.input.EchoMode = textinput.EchoPassword
	}
}

// Sync re-validates when the element's value changed and updates the
// control when the value it should show changed.
func (t *TextField) Sync() {
	if t.disposed {
		return
	}
	if v := t.read(); v != t.external {
		t.external = v
		t.hasCached = false
		t.validateExternal()
	}
	t.show(t.displayValue())
}

// displayValue is the external value, or the last rejected input while
// that rejection is still the current local error.
func (t *TextField) displayValue() string {
	if t.localError != "" && t.hasCached {
		return t.cachedInvalid
	}
	return t.external
}

// show only touches the control when the display value moves, so a draft
// typed since the last change is left alone.
func (t *TextField) show(v string) {
	if v == t.shown {
		return
	}
	t.shown = v
	if t.input.Value() != v {
		t.input.SetValue(v)
	}
}

func (t *TextField) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case commitMsg:
		if msg.owner != t.owner || msg.seq != t.seq || t.disposed {
			return nil
		}
		t.pending = false
		t.commit(t.input.Value())
		return nil

	case tea.KeyMsg:
		if !t.focused || t.props.Disabled || t.disposed {
			return nil
		}
		before := t.input.Value()
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		if t.input.Value() == before {
			return cmd
		}
		return tea.Batch(cmd, t.schedule(t.input.Value()))
	}

	if t.disposed {
		return nil
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd
}

// SetDraft replaces the text as if the user had typed it.
func (t *TextField) SetDraft(v string) tea.Cmd {
	if t.disposed || t.props.Disabled {
		return nil
	}
	t.input.SetValue(v)
	return t.schedule(v)
}

// schedule starts a new debounce interval, superseding any pending one.
func (t *TextField) schedule(v string) tea.Cmd {
	t.seq++
	if t.props.Debounce <= 0 {
		t.pending = false
		t.commit(v)
		return nil
	}
	t.pending = true
	owner, seq := t.owner, t.seq
	return tea.Tick(t.props.Debounce, func(time.Time) tea.Msg {
		return commitMsg{owner: owner, seq: seq}
	})
}

func (t *TextField) commit(v string) {
	if t.disposed {
		return
	}
	if t.props.Validate != nil {
		if reason := t.props.Validate(v); reason != "" {
			t.cachedInvalid = v
			t.hasCached = true
			t.localError = reason
			t.svc.Rejected(t.props.ID, v, reason)
			return
		}
	}

	t.localError = ""
	t.hasCached = false
	t.svc.Committed(t.props.ID, v)
	if t.props.SetValue != nil {
		t.props.SetValue(v)
	}
}

func (t *TextField) validateExternal() {
	if t.props.Validate == nil {
		return
	}
	t.localError = t.props.Validate(t.external)
}

// Pending reports whether a debounced commit has not fired yet.
func (t *TextField) Pending() bool {
	return t.pending
}

// Value returns the text the control shows.
func (t *TextField) Value() string { return t.input.Value() }

// LocalError returns the current validation message.
func (t *TextField) LocalError() string { return t.localError }

// DisplayedError returns the global error for the entry if there is one,
// otherwise the validation message.
func (t *TextField) DisplayedError() string {
	if err := t.svc.Error(t.props.ID); err != "" {
		return err
	}
	return t.localError
}

func (t *TextField) Input() panel.InputState {
	return panel.InputState{Value: t.input.Value(), Disabled: t.props.Disabled}
}

func (t *TextField) Focus() tea.Cmd {
	t.focused = true
	if t.props.OnFocus != nil {
		t.props.OnFocus()
	}
	return t.input.Focus()
}

func (t *TextField) Blur() {
	if !t.focused {
		return
	}
	t.focused = false
	t.input.Blur()
	if t.props.OnBlur != nil {
		t.props.OnBlur()
	}
}

// Dispose drops any pending commit. Commit messages already in flight
// are ignored when they arrive.
func (t *TextField) Dispose() {
	t.disposed = true
	t.pending = false
	t.seq++
	t.focused = false
	t.input.Blur()
}

// Reconfigure takes over next's props and keeps the draft, cached value
// and validation state.
func (t *TextField) Reconfigure(next panel.Entry) bool {
	n, ok := next.(*TextField)
	if !ok || n.props.ID != t.props.ID || t.disposed {
		return false
	}
	t.props = n.props
	t.applyProps()
	return true
}

func (t *TextField) View(focused bool, width int) string {
	labelStyle := panel.EntryLabelStyle
	switch {
	case t.props.Disabled:
		labelStyle = panel.DisabledStyle
	case focused:
		labelStyle = panel.FocusedLabelStyle
	}

	t.input.Width = max(width-len(t.input.Prompt)-1, 1)

	var b strings.Builder
	b.WriteString(labelStyle.Render(t.props.Label))
	b.WriteString("\n")
	if t.props.Disabled {
		shown := t.input.Value()
		if t.props.Secret {
			shown = strings.Repeat("•", len([]rune(shown)))
		}
		b.WriteString(panel.DisabledStyle.Render(t.input.Prompt + shown))
	} else {
		b.WriteString(t.input.View())
	}
	writeFooter(&b, t.DisplayedError(), description(t.svc, t.props.ID, t.props.Description), width)
	return b.String()
}

func (t *TextField) read() string {
	if t.props.GetValue == nil {
		return ""
	}
	return t.props.GetValue(element(t.svc))
}

// IsTextFieldEdited is the IsEdited predicate for text fields: edited
// while the control shows any text.
func IsTextFieldEdited(s panel.InputState) bool {
	return s.Value != ""
}

package entry

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartap-inspector/internal/panel"
)

var checkboxToggle = key.NewBinding(
	key.WithKeys(" ", "enter", "x"),
	key.WithHelp("space", "toggle"),
)

// CheckboxProps configures a Checkbox.
type CheckboxProps struct {
	ID    string
	Label string
	// Description overrides the panel's description for ID.
	Description string
	GetValue    func(el panel.Element) bool
	SetValue    func(value bool)
	Disabled    bool
	OnFocus     func()
	OnBlur      func()
}

// Checkbox edits a boolean field. Toggling commits immediately; there is
// no validation step.
type Checkbox struct {
	props CheckboxProps
	svc   *panel.Services

	external bool
	checked  bool
	focused  bool
}

// NewCheckbox returns an unmounted checkbox.
func NewCheckbox(props CheckboxProps) *Checkbox {
	return &Checkbox{props: props}
}

func (c *Checkbox) ID() string { return c.props.ID }

func (c *Checkbox) Mount(svc *panel.Services) {
	c.svc = svc
	c.external = c.read()
	c.checked = c.external
	c.focused = false
}

// Sync adopts the element's value when it changed since the last look
// and differs from what the checkbox shows.
func (c *Checkbox) Sync() {
	v := c.read()
	if v == c.external {
		return
	}
	c.external = v
	if v != c.checked {
		c.checked = v
	}
}

func (c *Checkbox) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || c.props.Disabled {
		return nil
	}
	if key.Matches(keyMsg, checkboxToggle) {
		c.Toggle()
	}
	return nil
}

// Toggle flips the shown value and passes it to SetValue.
func (c *Checkbox) Toggle() {
	if c.props.Disabled {
		return
	}
	c.checked = !c.checked
	c.svc.Committed(c.props.ID, c.checked)
	if c.props.SetValue != nil {
		c.props.SetValue(c.checked)
	}
}

// Checked reports what the checkbox shows.
func (c *Checkbox) Checked() bool { return c.checked }

func (c *Checkbox) Input() panel.InputState {
	return panel.InputState{Checked: c.checked, Disabled: c.props.Disabled}
}

func (c *Checkbox) Focus() tea.Cmd {
	c.focused = true
	if c.props.OnFocus != nil {
		c.props.OnFocus()
	}
	return nil
}

func (c *Checkbox) Blur() {
	if !c.focused {
		return
	}
	c.focused = false
	if c.props.OnBlur != nil {
		c.props.OnBlur()
	}
}

func (c *Checkbox) Dispose() {
	c.focused = false
}

// Reconfigure takes over next's props and keeps the shown value.
func (c *Checkbox) Reconfigure(next panel.Entry) bool {
	n, ok := next.(*Checkbox)
	if !ok || n.props.ID != c.props.ID {
		return false
	}
	c.props = n.props
	return true
}

func (c *Checkbox) View(focused bool, width int) string {
	box := "[ ]"
	if c.checked {
		box = "[x]"
	}

	labelStyle := panel.EntryLabelStyle
	switch {
	case c.props.Disabled:
		labelStyle = panel.DisabledStyle
	case focused:
		labelStyle = panel.FocusedLabelStyle
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(box + " " + c.props.Label))
	writeFooter(&b, c.svc.Error(c.props.ID), description(c.svc, c.props.ID, c.props.Description), width)
	return b.String()
}

func (c *Checkbox) read() bool {
	if c.props.GetValue == nil {
		return false
	}
	return c.props.GetValue(element(c.svc))
}

// IsCheckboxEdited is the IsEdited predicate for checkboxes: edited while
// checked.
func IsCheckboxEdited(s panel.InputState) bool {
	return s.Checked
}

package panel

// Placeholder is shown instead of groups when nothing or several things
// are selected.
type Placeholder struct {
	Text string
	Icon string
}

// PlaceholderProvider supplies the placeholders. Without one, an empty
// or multiple selection is rendered like any other element.
type PlaceholderProvider interface {
	GetEmpty(el Element) Placeholder
	GetMultiple(el Element) Placeholder
}

// StaticPlaceholders is a PlaceholderProvider with fixed texts.
type StaticPlaceholders struct {
	Empty    Placeholder
	Multiple Placeholder
}

func (s StaticPlaceholders) GetEmpty(Element) Placeholder    { return s.Empty }
func (s StaticPlaceholders) GetMultiple(Element) Placeholder { return s.Multiple }

func renderPlaceholder(p Placeholder) string {
	text := p.Text
	if p.Icon != "" {
		text = p.Icon + "  " + text
	}
	return PlaceholderStyle.Render(text)
}

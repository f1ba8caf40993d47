package panel

import "github.com/charmbracelet/lipgloss"

// HeaderProvider supplies the text of the panel header for an element.
type HeaderProvider interface {
	ElementLabel(el Element) string
	TypeLabel(el Element) string
}

// DocumentationProvider is optionally implemented by a HeaderProvider to
// add a reference line under the header.
type DocumentationProvider interface {
	DocumentationRef(el Element) string
}

func renderPanelHeader(provider HeaderProvider, el Element) string {
	if provider == nil {
		return ""
	}

	lines := []string{
		HeaderTypeStyle.Render(provider.TypeLabel(el)),
		HeaderTitleStyle.Render(provider.ElementLabel(el)),
	}
	if docs, ok := provider.(DocumentationProvider); ok {
		if ref := docs.DocumentationRef(el); ref != "" {
			lines = append(lines, DescriptionStyle.Render(ref))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

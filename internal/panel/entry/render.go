package entry

import (
	"strings"

	"github.com/muurk/smartap-inspector/internal/panel"
)

func element(svc *panel.Services) panel.Element {
	if svc == nil {
		return nil
	}
	return svc.Element
}

// description prefers the entry's own text over the panel's resolver.
func description(svc *panel.Services, id, static string) string {
	if static != "" {
		return static
	}
	return svc.Description(id)
}

func writeFooter(b *strings.Builder, errText, desc string, width int) {
	if errText != "" {
		b.WriteString("\n")
		b.WriteString(panel.ErrorTextStyle.Width(width).Render(errText))
	}
	if desc != "" {
		b.WriteString("\n")
		b.WriteString(panel.DescriptionStyle.Width(width).Render(desc))
	}
}

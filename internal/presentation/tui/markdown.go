package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/modules"
)

// SessionMarkdown describes a calibration session and the commands it
// currently accepts.
func SessionMarkdown(s *domain.Session, allowed []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Session `%s`\n\n", s.ID)
	fmt.Fprintf(&sb, "- **Workflow:** %s\n", s.Workflow)
	fmt.Fprintf(&sb, "- **State:** %s\n", s.State)
	fmt.Fprintf(&sb, "- **Started:** %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "- **Updated:** %s\n", s.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(allowed) > 0 {
		sb.WriteString("\n## Next commands\n\n")
		for _, c := range allowed {
			fmt.Fprintf(&sb, "- `%s`\n", c)
		}
	}

	if len(s.History) > 0 {
		sb.WriteString("\n## History\n\n| # | Command | From | To |\n|---|---|---|---|\n")
		for i, h := range s.History {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", i+1, h.Command, h.From, h.To)
		}
	}
	return sb.String()
}

// ModuleMarkdown describes a loaded module geometry.
func ModuleMarkdown(m *modules.ModuleGeometry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m)
	fmt.Fprintf(&sb, "- **Model:** %s (%s)\n", m.LoadName(), m.Kind())
	fmt.Fprintf(&sb, "- **API level:** %s\n", m.APIVersion())
	fmt.Fprintf(&sb, "- **Labware offset:** %s\n", m.LabwareOffset())
	fmt.Fprintf(&sb, "- **Labware location:** %s\n", m.Location().Point)
	fmt.Fprintf(&sb, "- **Highest Z:** %g\n", m.HighestZ())
	if m.Kind() == modules.KindThermocycler {
		fmt.Fprintf(&sb, "- **Lid:** %s, %g mm\n", m.LidStatus(), m.LidHeight())
	}
	if p, ok := m.CalibrationPoint(); ok {
		fmt.Fprintf(&sb, "- **Calibration point:** (%g, %g)\n", p.X, p.Y)
	}
	if q := m.Quirks(); len(q) > 0 {
		fmt.Fprintf(&sb, "- **Quirks:** %s\n", strings.Join(q, ", "))
	}
	if c := m.CompatibleWith(); len(c) > 0 {
		names := make([]string, len(c))
		for i, model := range c {
			names[i] = string(model)
		}
		fmt.Fprintf(&sb, "- **Compatible with:** %s\n", strings.Join(names, ", "))
	}
	return sb.String()
}

package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckcal/pkg/fsm"
)

// wildcardID is the node standing for "any state" in rendered charts.
const wildcardID = "any_state"

// GraphOverlay contains session data to highlight on the chart.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid renders a state machine as a Mermaid flowchart.
// Shapes:
// - Initial state: ((Circle))
// - State without its own row: ([Stadium])
// - Wildcard row: {{Hexagon}} with dotted edges
// - Default: [Rectangle]
// Edges are labelled with their command. Overlay styles (visited/current)
// are applied when overlay is non-nil.
func GenerateMermaid[S, C comparable](m *fsm.Machine[S, C], overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	table := m.Table()
	initial := fmt.Sprint(m.Initial())
	wildcard := fmt.Sprint(m.Wildcard())

	for _, s := range m.States() {
		name := fmt.Sprint(s)
		opener, closer := "[", "]"
		switch {
		case name == initial:
			opener, closer = "((", "))"
		case len(table[s]) == 0:
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, name, closer))
	}

	hasWildcard := len(table[m.Wildcard()]) > 0
	if hasWildcard {
		sb.WriteString(fmt.Sprintf("    %s{{\"any state\"}}\n", wildcardID))
	}

	for _, e := range table.Edges() {
		from := fmt.Sprint(e.From)
		cmd := strings.ReplaceAll(fmt.Sprint(e.Command), "\"", "'")
		to := sanitizeMermaidID(fmt.Sprint(e.To))
		if from == wildcard {
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", wildcardID, cmd, to))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeMermaidID(from), cmd, to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !visited[safeID] {
				visited[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "*", "_").Replace(id)
}

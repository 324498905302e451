package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowbench/internal/runtime"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	ActivatedActors []string
	FailedActors    []string
}

// GenerateMermaid produces a Mermaid flowchart from the actors of a flow.
// It applies semantic styling:
// - Source: ((Circle))
// - Standalone: [[Subroutine]]
// - Sink: [/Parallelogram/]
// - Transformer: [Rectangle]
// Skipped actors are drawn with a dashed border, and overlay styles are applied if provided.
func GenerateMermaid(actors []runtime.ActorInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var skipped []string
	for _, a := range actors {
		safeID := sanitizeMermaidID(a.Name)

		opener, closer := "[", "]"
		switch a.Kind {
		case runtime.KindSource:
			opener, closer = "((", "))"
		case runtime.KindStandalone:
			opener, closer = "[[", "]]"
		case runtime.KindSink:
			opener, closer = "[/", "/]"
		}

		label := fmt.Sprintf("%s <br/> <i>%s</i>", a.Name, a.Type)
		if len(a.Variables) > 0 {
			vars := make([]string, len(a.Variables))
			for i, v := range a.Variables {
				vars[i] = "@{" + v + "}"
			}
			label += " <br/> " + strings.Join(vars, " ")
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))
		if a.Skip {
			skipped = append(skipped, safeID)
		}

		for _, next := range a.Next {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(next)))
		}
	}

	if len(skipped) > 0 {
		sb.WriteString("    classDef skipped stroke-dasharray: 5 5;\n")
		for _, id := range skipped {
			sb.WriteString(fmt.Sprintf("    class %s skipped;\n", id))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes
		sb.WriteString("    classDef activated fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		writeClass(&sb, overlay.ActivatedActors, "activated")
		writeClass(&sb, overlay.FailedActors, "failed")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, names []string, class string) {
	seen := make(map[string]bool)
	for _, name := range names {
		safeID := sanitizeMermaidID(name)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, class))
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

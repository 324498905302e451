package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/flowbench/internal/runtime"
	"github.com/aretw0/flowbench/pkg/domain"
)

// InspectMarkdown describes a flow and its actors as a markdown document.
func InspectMarkdown(flow *domain.FlowSpec, actors []runtime.ActorInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", flow.Name)
	if flow.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", flow.Description)
	}

	fmt.Fprintf(&sb, "- **Error policy:** %s\n", flow.Policy())
	fmt.Fprintf(&sb, "- **Provenance:** %t\n", flow.Provenance)
	fmt.Fprintf(&sb, "- **Parallel branches:** %t\n", flow.ParallelBranches)

	if len(flow.Variables) > 0 {
		names := make([]string, 0, len(flow.Variables))
		for k := range flow.Variables {
			names = append(names, k)
		}
		sort.Strings(names)
		sb.WriteString("\n## Variables\n\n| Name | Value |\n| --- | --- |\n")
		for _, k := range names {
			fmt.Fprintf(&sb, "| %s | %s |\n", cell(k), cell(flow.Variables[k]))
		}
	}

	sb.WriteString("\n## Actors\n\n| Actor | Type | Kind | Accepts | Generates | Next |\n| --- | --- | --- | --- | --- | --- |\n")
	for _, a := range actors {
		name := a.Name
		if a.Skip {
			name += " (skipped)"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			cell(name), cell(a.Type), a.Kind, shapes(a.Accepts), shapes(a.Generates), cell(strings.Join(a.Next, ", ")))
	}
	return sb.String()
}

// ResultMarkdown summarizes a run as a markdown document.
func ResultMarkdown(res *domain.RunResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run %s\n\n", res.Flow)
	fmt.Fprintf(&sb, "- **Run ID:** `%s`\n", res.RunID)
	fmt.Fprintf(&sb, "- **Activations:** %d\n", res.Activations)
	fmt.Fprintf(&sb, "- **Outputs:** %d\n", len(res.Outputs))
	if res.Stopped {
		fmt.Fprintf(&sb, "- **Stopped:** %s\n", res.StopMessage)
	}

	if len(res.Outputs) > 0 {
		sb.WriteString("\n## Outputs\n\n")
		for _, tok := range res.Outputs {
			line := fmt.Sprintf("- `%v`", tok.Payload)
			if lineage := tok.Lineage(); len(lineage) > 0 {
				line += " via " + strings.Join(lineage, " > ")
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(res.Errors) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, msg := range res.ErrorMessages() {
			fmt.Fprintf(&sb, "- %s\n", msg)
		}
	}
	return sb.String()
}

func shapes(s domain.Shapes) string {
	if s == nil {
		return "-"
	}
	return s.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

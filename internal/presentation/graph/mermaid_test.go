package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/flowbench/internal/presentation/graph"
	"github.com/aretw0/flowbench/internal/runtime"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		actors   []runtime.ActorInfo
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Kind Shapes",
			actors: []runtime.ActorInfo{
				{Name: "src", Type: "ForLoop", Kind: runtime.KindSource, Next: []string{"up"}},
				{Name: "up", Type: "Convert", Kind: runtime.KindTransformer, Next: []string{"show"}},
				{Name: "show", Type: "Display", Kind: runtime.KindSink},
				{Name: "db", Type: "DatabaseConnection", Kind: runtime.KindStandalone},
			},
			contains: []string{
				`src(("src <br/> <i>ForLoop</i>"))`,
				`up["up <br/> <i>Convert</i>"]`,
				`show[/"show <br/> <i>Display</i>"/]`,
				`db[["db <br/> <i>DatabaseConnection</i>"]]`,
				"src --> up",
				"up --> show",
			},
		},
		{
			name: "ID Sanitization",
			actors: []runtime.ActorInfo{
				{Name: "read-file", Kind: runtime.KindSource, Next: []string{"to.upper"}},
				{Name: "to.upper", Kind: runtime.KindTransformer},
			},
			contains: []string{
				"read_file((",
				"read_file --> to_upper",
			},
		},
		{
			name: "Variables And Skip",
			actors: []runtime.ActorInfo{
				{Name: "up", Type: "Convert", Kind: runtime.KindTransformer, Variables: []string{"mode"}, Skip: true},
			},
			contains: []string{
				"@{mode}",
				"class up skipped;",
			},
		},
		{
			name: "Overlay",
			actors: []runtime.ActorInfo{
				{Name: "a", Kind: runtime.KindSource},
				{Name: "b", Kind: runtime.KindSink},
			},
			overlay: &graph.GraphOverlay{
				ActivatedActors: []string{"a", "a", "b"},
				FailedActors:    []string{"b"},
			},
			contains: []string{
				"class a activated;",
				"class b failed;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.actors, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph LR\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestGenerateMermaid_OverlayDeduplicates(t *testing.T) {
	got := graph.GenerateMermaid(nil, &graph.GraphOverlay{ActivatedActors: []string{"a", "a"}})
	assert.Equal(t, 1, strings.Count(got, "class a activated;"))
}

package dsl_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/flowbench"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/dsl"
)

func TestBuilder_LinearFlow(t *testing.T) {
	spec, err := dsl.New("greet").
		Describe("Say hello").
		Variable("mode", "upper").
		Add("words", "StringConstants").With("strings", []any{"hello", "world"}).Flow().
		Add("shout", "Convert").With("mode", "@{mode}").StopFlowOnError().Flow().
		Add("show", "Display").Flow().
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if spec.Name != "greet" || spec.Description != "Say hello" {
		t.Errorf("Unexpected header: %+v", spec)
	}
	if spec.Variables["mode"] != "upper" {
		t.Errorf("Expected variable mode=upper, got %v", spec.Variables)
	}
	if len(spec.Actors) != 3 {
		t.Fatalf("Expected 3 actors, got %d", len(spec.Actors))
	}
	if len(spec.Edges) != 0 {
		t.Errorf("Expected a linear chain without edges, got %v", spec.Edges)
	}
	shout := spec.Actors[1]
	if shout.Type != "Convert" || shout.Options["mode"] != "@{mode}" || !shout.StopFlowOnError {
		t.Errorf("Unexpected actor: %+v", shout)
	}
}

func TestBuilder_EdgesAndStandalones(t *testing.T) {
	b := dsl.New("fan").Parallel().Provenance().Policy(domain.AlwaysStop)

	b.Standalone("conn", "DatabaseConnection").
		Options(map[string]any{"path": ":memory:"})

	b.Add("src", "StringConstants").
		With("strings", []any{"a"}).
		To("left", "right")
	b.Add("left", "Convert").With("mode", "upper").Silent()
	b.Add("right", "Null").Skip()

	// Adding an existing name returns the same builder.
	b.Add("left", "Ignored").With("extra", 1)

	spec, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if !spec.ParallelBranches || !spec.Provenance || spec.Policy() != domain.AlwaysStop {
		t.Errorf("Unexpected flags: %+v", spec)
	}
	if len(spec.Standalones) != 1 || spec.Standalones[0].Options["path"] != ":memory:" {
		t.Errorf("Unexpected standalones: %+v", spec.Standalones)
	}
	want := []domain.EdgeSpec{{From: "src", To: "left"}, {From: "src", To: "right"}}
	if len(spec.Edges) != len(want) || spec.Edges[0] != want[0] || spec.Edges[1] != want[1] {
		t.Errorf("Expected edges %v, got %v", want, spec.Edges)
	}
	left := spec.Actors[1]
	if left.Type != "Convert" || !left.Silent || left.Options["extra"] != 1 {
		t.Errorf("Unexpected actor: %+v", left)
	}
	if !spec.Actors[2].Skip {
		t.Error("Expected 'right' to be skipped")
	}
}

func TestBuilder_Errors(t *testing.T) {
	b := dsl.New("bad")
	b.Add("src", "").To("nowhere")
	b.Add("", "Null")

	_, err := b.Build()
	if err == nil {
		t.Fatal("Expected an error")
	}
	for _, want := range []string{"actor 'src' has no type", "actor without name", "unknown actor 'nowhere'"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in %q", want, err.Error())
		}
	}
}

func TestBuilder_BuildCopiesOptions(t *testing.T) {
	b := dsl.New("copy")
	a := b.Add("src", "StringConstants").With("strings", []any{"x"})

	spec, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	a.With("strings", []any{"y"})

	got := spec.Actors[0].Options["strings"].([]any)
	if got[0] != "x" {
		t.Errorf("Expected built spec to be independent, got %v", got)
	}
}

func TestBuilder_Runs(t *testing.T) {
	spec, err := dsl.New("greet").
		Variable("mode", "upper").
		Add("words", "StringConstants").With("strings", []any{"hello", "world"}).Flow().
		Add("shout", "Convert").With("mode", "@{mode}").Flow().
		Add("show", "Display").Flow().
		Build()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	eng, err := flowbench.New(t.TempDir(), flowbench.WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Run(context.Background(), spec, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "HELLO\nWORLD\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
}

package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/flowbench/internal/runtime"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestInspectMarkdown(t *testing.T) {
	flow := &domain.FlowSpec{
		Name:        "hello",
		Description: "Says hello",
		Variables:   map[string]string{"b": "2", "a": "x|y"},
	}
	actors := []runtime.ActorInfo{
		{Name: "src", Type: "StringConstants", Kind: runtime.KindSource, Generates: domain.Of(domain.ShapeString), Next: []string{"show"}},
		{Name: "show", Type: "Display", Kind: runtime.KindSink, Accepts: domain.Any(), Skip: true},
	}

	md := InspectMarkdown(flow, actors)
	assert.Contains(t, md, "# hello\n\nSays hello")
	assert.Contains(t, md, "- **Error policy:** actors-decide")
	assert.Contains(t, md, "| a | x\\|y |\n| b | 2 |")
	assert.Contains(t, md, "| src | StringConstants | source | - | string | show |")
	assert.Contains(t, md, "| show (skipped) | Display | sink | any | - | - |")
}

func TestResultMarkdown(t *testing.T) {
	tok := domain.NewToken("HELLO").
		WithProvenance("hello.src", time.Unix(0, 0)).
		WithProvenance("hello.up", time.Unix(1, 0))
	res := &domain.RunResult{
		RunID:       "r1",
		Flow:        "hello",
		Outputs:     []domain.Token{tok},
		Errors:      []error{errors.New("hello.up: bad payload")},
		Stopped:     true,
		StopMessage: "boom",
		Activations: 3,
	}

	md := ResultMarkdown(res)
	assert.Contains(t, md, "- **Run ID:** `r1`")
	assert.Contains(t, md, "- **Stopped:** boom")
	assert.Contains(t, md, "- `HELLO` via hello.src > hello.up")
	assert.Contains(t, md, "- hello.up: bad payload")
}

func TestNewRenderer_Plain(t *testing.T) {
	out, err := NewRenderer(true)("# title")
	assert.NoError(t, err)
	assert.Equal(t, "# title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_.__/")
}

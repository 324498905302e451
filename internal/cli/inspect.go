package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/flowbench"
	"github.com/aretw0/flowbench/internal/presentation/graph"
	"github.com/aretw0/flowbench/internal/presentation/tui"
	"github.com/aretw0/flowbench/pkg/domain"
)

// Inspect output formats.
const (
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
	FormatJSON     = "json"
)

// Validate checks the given flows, or every flow of the directory when none is given.
// Each result is printed; the returned error reports how many flows are invalid.
func Validate(ctx context.Context, opts Options, targets []string) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(targets) == 0 {
		if targets, err = s.Engine.Flows(); err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no flows found in %s", s.Engine.Dir().Root)
	}

	out := opts.stdout()
	failed := 0
	for _, target := range targets {
		err := validateOne(ctx, s.Engine, target)
		if err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s\n%v\n", target, err)
			continue
		}
		if !opts.Quiet {
			fmt.Fprintf(out, "✓ %s\n", target)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d flows are invalid", failed, len(targets))
	}
	return nil
}

func validateOne(ctx context.Context, eng *flowbench.Engine, target string) error {
	spec, err := loadFlow(eng, target)
	if err != nil {
		return err
	}
	return eng.Validate(ctx, spec)
}

// Inspect describes the actors of a flow in the given format.
func Inspect(ctx context.Context, opts Options, target, format string) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	spec, err := loadFlow(s.Engine, target)
	if err != nil {
		return err
	}
	actors, err := s.Engine.Inspect(ctx, spec)
	if err != nil {
		return err
	}

	out := opts.stdout()
	switch format {
	case "", FormatMarkdown:
		md := tui.InspectMarkdown(spec, actors)
		text, err := tui.NewRenderer(!isTerminal(out))(md)
		if err != nil {
			text = md
		}
		_, err = fmt.Fprint(out, text)
		return err
	case FormatMermaid:
		_, err := fmt.Fprint(out, graph.GenerateMermaid(actors, nil))
		return err
	case FormatJSON:
		return writeActorsJSON(out, actors)
	default:
		return fmt.Errorf("unknown format %q (use %s, %s or %s)", format, FormatMarkdown, FormatMermaid, FormatJSON)
	}
}

type actorJSON struct {
	Name      string   `json:"name"`
	FullName  string   `json:"full_name"`
	Type      string   `json:"type"`
	Kind      string   `json:"kind"`
	Accepts   string   `json:"accepts,omitempty"`
	Generates string   `json:"generates,omitempty"`
	Variables []string `json:"variables,omitempty"`
	Skip      bool     `json:"skip,omitempty"`
	Next      []string `json:"next,omitempty"`
}

func writeActorsJSON(w io.Writer, actors []flowbench.ActorInfo) error {
	out := make([]actorJSON, len(actors))
	for i, a := range actors {
		out[i] = actorJSON{
			Name:      a.Name,
			FullName:  a.FullName,
			Type:      a.Type,
			Kind:      a.Kind,
			Variables: a.Variables,
			Skip:      a.Skip,
			Next:      a.Next,
		}
		if a.Accepts != nil {
			out[i].Accepts = a.Accepts.String()
		}
		if a.Generates != nil {
			out[i].Generates = a.Generates.String()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Graph prints the Mermaid diagram of a flow. With run set, the flow is executed first
// and the actors that were activated or failed are highlighted.
func Graph(ctx context.Context, opts Options, target string, run bool) error {
	if !run {
		return Inspect(ctx, opts, target, FormatMermaid)
	}

	vars, err := ParseVars(opts.Vars)
	if err != nil {
		return err
	}

	rec := &activationRecorder{}
	runOpts := opts
	runOpts.Stdout = io.Discard
	s, err := newSession(ctx, runOpts, rec.hooks())
	if err != nil {
		return err
	}
	defer s.Close()

	spec, err := loadFlow(s.Engine, target)
	if err != nil {
		return err
	}
	actors, err := s.Engine.Inspect(ctx, spec)
	if err != nil {
		return err
	}
	if _, err := s.Engine.Run(ctx, spec, vars); err != nil && !isInterrupted(err) {
		s.Logger.Warn("Run failed", "flow", spec.Name, "err", err)
	}

	_, err = fmt.Fprint(opts.stdout(), graph.GenerateMermaid(actors, rec.overlay(actors)))
	return err
}

// activationRecorder collects which actors ran, by full name.
type activationRecorder struct {
	mu        sync.Mutex
	activated []string
	failed    []string
}

func (r *activationRecorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivation: func(_ context.Context, e *domain.ActivationEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if e.Err != nil {
				r.failed = append(r.failed, e.Actor)
				return
			}
			r.activated = append(r.activated, e.Actor)
		},
	}
}

// overlay maps the recorded full names back to the actor names used in the diagram.
func (r *activationRecorder) overlay(actors []flowbench.ActorInfo) *graph.GraphOverlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make(map[string]string, len(actors))
	for _, a := range actors {
		names[a.FullName] = a.Name
	}
	o := &graph.GraphOverlay{}
	for _, full := range r.activated {
		if name, ok := names[full]; ok {
			o.ActivatedActors = append(o.ActivatedActors, name)
		}
	}
	for _, full := range r.failed {
		if name, ok := names[full]; ok {
			o.FailedActors = append(o.FailedActors, name)
		}
	}
	return o
}

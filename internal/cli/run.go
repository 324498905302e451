package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/flowbench"
	"github.com/aretw0/flowbench/internal/presentation/tui"
	"github.com/aretw0/flowbench/pkg/adapters/file"
	"github.com/aretw0/flowbench/pkg/domain"
)

// ErrRunFailed is returned when a run completes with activation errors.
var ErrRunFailed = errors.New("flow completed with errors")

// Run executes a flow once. target is a flow name of the directory or a path to a flow file.
func Run(ctx context.Context, opts Options, target string) error {
	vars, err := ParseVars(opts.Vars)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	out := opts.stdout()
	if !opts.Quiet && isTerminal(out) {
		tui.PrintBanner(out)
	}
	return runOnce(ctx, s, opts, target, vars)
}

func runOnce(ctx context.Context, s *Session, opts Options, target string, vars map[string]string) error {
	spec, err := loadFlow(s.Engine, target)
	if err != nil {
		return err
	}

	res, err := s.Engine.Run(ctx, spec, vars)
	s.Metrics.ObserveRun(spec.Name, res, err)
	if res != nil && !opts.Quiet {
		printReport(opts, res)
	}

	if err != nil {
		if isInterrupted(err) {
			if !opts.Quiet {
				printSystemMessage(opts.stdout(), "Interrupted '%s'.", spec.Name)
			}
			return nil
		}
		return err
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%w: %w", ErrRunFailed, res.Err())
	}
	return nil
}

// loadFlow resolves target as a file path first, then as a flow name.
func loadFlow(eng *flowbench.Engine, target string) (*domain.FlowSpec, error) {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return file.LoadFlow(target)
	}
	return eng.Flow(target)
}

func printReport(opts Options, res *domain.RunResult) {
	out := opts.stdout()
	render := tui.NewRenderer(!isTerminal(out))
	text, err := render(tui.ResultMarkdown(res))
	if err != nil {
		text = tui.ResultMarkdown(res)
	}
	fmt.Fprint(out, text)
}

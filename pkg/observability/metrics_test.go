package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/flowbench/internal/logging"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnActivation(ctx, &domain.ActivationEvent{ActorType: "Convert", Outputs: 1, Duration: time.Millisecond})
	hooks.OnActivation(ctx, &domain.ActivationEvent{ActorType: "Convert", Outputs: 1, Duration: time.Millisecond})
	hooks.OnActivation(ctx, &domain.ActivationEvent{ActorType: "ArrayToChunks", Outputs: 3})
	hooks.OnActivation(ctx, &domain.ActivationEvent{ActorType: "Convert", Err: errors.New("boom")})
	hooks.OnError(ctx, &domain.ActorEvent{ActorType: "Convert"})
	hooks.OnReconfigure(ctx, &domain.ActorEvent{ActorType: "UniqueID"})

	expected := `
# HELP flowbench_activations_total Number of actor activations.
# TYPE flowbench_activations_total counter
flowbench_activations_total{actor_type="ArrayToChunks",outcome="ok"} 1
flowbench_activations_total{actor_type="Convert",outcome="error"} 1
flowbench_activations_total{actor_type="Convert",outcome="ok"} 2
# HELP flowbench_tokens_emitted_total Number of tokens emitted by actors.
# TYPE flowbench_tokens_emitted_total counter
flowbench_tokens_emitted_total{actor_type="ArrayToChunks"} 3
flowbench_tokens_emitted_total{actor_type="Convert"} 2
# HELP flowbench_actor_errors_total Number of actor errors reported to the runtime.
# TYPE flowbench_actor_errors_total counter
flowbench_actor_errors_total{actor_type="Convert"} 1
# HELP flowbench_reconfigurations_total Number of actors reconfigured after a variable change.
# TYPE flowbench_reconfigurations_total counter
flowbench_reconfigurations_total{actor_type="UniqueID"} 1
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"flowbench_activations_total",
		"flowbench_tokens_emitted_total",
		"flowbench_actor_errors_total",
		"flowbench_reconfigurations_total",
	)
	assert.NoError(t, err)
	series, err := testutil.GatherAndCount(m.Registry(), "flowbench_activation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestMetrics_ObserveRun(t *testing.T) {
	m := observability.NewMetrics(observability.WithNamespace("test"))

	m.ObserveRun("a", &domain.RunResult{}, nil)
	m.ObserveRun("a", &domain.RunResult{Errors: []error{errors.New("x")}}, nil)
	m.ObserveRun("a", &domain.RunResult{Stopped: true}, errors.New("stop"))
	m.ObserveRun("b", nil, errors.New("invalid"))

	expected := `
# HELP test_runs_total Number of finished flow runs.
# TYPE test_runs_total counter
test_runs_total{flow="a",status="completed"} 1
test_runs_total{flow="a",status="completed_with_errors"} 1
test_runs_total{flow="a",status="stopped"} 1
test_runs_total{flow="b",status="failed"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_runs_total"))
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(observability.WithRegistry(reg))
	assert.Same(t, reg, m.Registry())

	assert.Panics(t, func() {
		observability.NewMetrics(observability.WithRegistry(reg))
	}, "registering the same collectors twice must fail")
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnReconfigure(context.Background(), &domain.ActorEvent{ActorType: "Convert"})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `flowbench_reconfigurations_total{actor_type="Convert"} 1`)
}

func TestRunStatus(t *testing.T) {
	assert.Equal(t, observability.StatusFailed, observability.RunStatus(nil, nil))
	assert.Equal(t, observability.StatusFailed, observability.RunStatus(&domain.RunResult{}, errors.New("setup")))
	assert.Equal(t, observability.StatusCompleted, observability.RunStatus(&domain.RunResult{}, nil))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LogHooks(logging.NewWithWriter(&buf, slog.LevelDebug))

	hooks.OnActivation(context.Background(), &domain.ActivationEvent{
		EventBase: domain.EventBase{RunID: "r1"},
		Actor:     "flow.upper",
		ActorType: "Convert",
		Outputs:   1,
		Err:       errors.New("boom"),
	})
	hooks.OnWrapUp(context.Background(), &domain.ActorEvent{Actor: "flow.upper"})

	out := buf.String()
	assert.Contains(t, out, "actor_activation")
	assert.Contains(t, out, "actor=flow.upper")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "actor_wrapup")
}

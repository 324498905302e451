package actors

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// SetVariableConfig configures SetVariable.
type SetVariableConfig struct {
	Variable string `mapstructure:"variable"`
	// Value is assigned when set; otherwise the payload is used.
	Value string `mapstructure:"value"`
}

// SetVariable assigns a flow variable from each token and passes the token on.
// Actors that depend on the variable are reconfigured before their next activation.
type SetVariable struct {
	actor.Single
	cfg SetVariableConfig
}

func NewSetVariable(name string) *SetVariable {
	s := &SetVariable{}
	s.Init(name, domain.Any(), domain.Any(), s.assign)
	return s
}

func (s *SetVariable) Configure(opts map[string]any) error {
	s.cfg = SetVariableConfig{}
	return actor.DecodeOptions(opts, &s.cfg)
}

func (s *SetVariable) SetUp(env *actor.Env) error {
	if err := s.Single.SetUp(env); err != nil {
		return err
	}
	if s.cfg.Variable == "" {
		return s.Invalidf("variable is required")
	}
	if s.Env().Variables == nil {
		return s.Invalidf("no variables available")
	}
	return nil
}

func (s *SetVariable) assign(ctx context.Context, in domain.Token) (any, error) {
	value := s.cfg.Value
	if value == "" {
		value = fmt.Sprint(in.Payload)
	}
	s.Env().Variables.Set(s.cfg.Variable, value)
	return in.Payload, nil
}

// SetVariablesConfig configures SetVariables.
type SetVariablesConfig struct {
	Variables map[string]string `mapstructure:"variables"`
}

// SetVariables is a standalone that assigns several variables when the flow starts.
type SetVariables struct {
	actor.Standalone
	cfg SetVariablesConfig
}

func NewSetVariables(name string) *SetVariables {
	s := &SetVariables{}
	s.Init(name, s.run)
	return s
}

func (s *SetVariables) Configure(opts map[string]any) error {
	s.cfg = SetVariablesConfig{}
	return actor.DecodeOptions(opts, &s.cfg)
}

func (s *SetVariables) SetUp(env *actor.Env) error {
	if err := s.Standalone.SetUp(env); err != nil {
		return err
	}
	if s.Env().Variables == nil {
		return s.Invalidf("no variables available")
	}
	return nil
}

func (s *SetVariables) run(ctx context.Context) error {
	names := make([]string, 0, len(s.cfg.Variables))
	for name := range s.cfg.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Env().Variables.Set(name, s.cfg.Variables[name])
	}
	return nil
}

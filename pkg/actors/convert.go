package actors

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// Conversion modes of Convert.
const (
	ModeUpper    = "upper"
	ModeLower    = "lower"
	ModeTrim     = "trim"
	ModeToInt    = "to-int"
	ModeToFloat  = "to-float"
	ModeToString = "to-string"
	ModeReverse  = "reverse"
)

var convertModes = []string{ModeUpper, ModeLower, ModeTrim, ModeToInt, ModeToFloat, ModeToString, ModeReverse}

// ConvertConfig configures Convert.
type ConvertConfig struct {
	Mode string `mapstructure:"mode"`
}

// Convert applies a simple conversion to each payload.
type Convert struct {
	actor.Single
	cfg ConvertConfig
}

func NewConvert(name string) *Convert {
	c := &Convert{cfg: ConvertConfig{Mode: ModeToString}}
	c.Init(name, domain.Any(), domain.Any(), c.convert)
	return c
}

func (c *Convert) Configure(opts map[string]any) error {
	c.cfg = ConvertConfig{Mode: ModeToString}
	return actor.DecodeOptions(opts, &c.cfg)
}

func (c *Convert) SetUp(env *actor.Env) error {
	if err := c.Single.SetUp(env); err != nil {
		return err
	}
	if !slices.Contains(convertModes, c.cfg.Mode) {
		return c.Invalidf("unknown mode %q (expected one of %s)", c.cfg.Mode, strings.Join(convertModes, ", "))
	}
	return nil
}

func (c *Convert) Generates() domain.Shapes {
	switch c.cfg.Mode {
	case ModeToInt:
		return domain.Of(domain.ShapeInt)
	case ModeToFloat:
		return domain.Of(domain.ShapeFloat)
	case ModeReverse:
		return domain.Of(domain.ShapeString, domain.ShapeArray)
	default:
		return domain.Of(domain.ShapeString)
	}
}

func (c *Convert) convert(ctx context.Context, in domain.Token) (any, error) {
	switch c.cfg.Mode {
	case ModeUpper:
		return strings.ToUpper(fmt.Sprint(in.Payload)), nil
	case ModeLower:
		return strings.ToLower(fmt.Sprint(in.Payload)), nil
	case ModeTrim:
		return strings.TrimSpace(fmt.Sprint(in.Payload)), nil
	case ModeToString:
		return fmt.Sprint(in.Payload), nil
	case ModeToInt:
		switch v := in.Payload.(type) {
		case int:
			return v, nil
		case float64:
			return floatToInt(v)
		}
		return strconv.Atoi(strings.TrimSpace(fmt.Sprint(in.Payload)))
	case ModeToFloat:
		switch v := in.Payload.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(in.Payload)), 64)
	case ModeReverse:
		if s, ok := in.Payload.(string); ok {
			runes := []rune(s)
			slices.Reverse(runes)
			return string(runes), nil
		}
		items, err := toSlice(in.Payload)
		if err != nil {
			return nil, err
		}
		out := slices.Clone(items)
		slices.Reverse(out)
		return out, nil
	}
	return nil, fmt.Errorf("unknown mode %q", c.cfg.Mode)
}

// floatToInt converts v only when it holds an integral value that fits an int.
func floatToInt(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("cannot convert %v to an integer without losing precision", v)
	}
	if v < float64(math.MinInt) || v >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%v is out of the integer range", v)
	}
	return int(v), nil
}

package actors

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// DisplayConfig configures Display.
type DisplayConfig struct {
	Prefix string `mapstructure:"prefix"`
	// ShowProvenance appends the token lineage to each line.
	ShowProvenance bool `mapstructure:"show_provenance"`
}

// Display writes each payload as one line to the flow output.
type Display struct {
	actor.Sink
	cfg DisplayConfig
}

func NewDisplay(name string) *Display {
	d := &Display{}
	d.Init(name, domain.Any(), d.display)
	return d
}

func (d *Display) Configure(opts map[string]any) error {
	d.cfg = DisplayConfig{}
	return actor.DecodeOptions(opts, &d.cfg)
}

func (d *Display) writer() io.Writer {
	if w := d.Env().Output; w != nil {
		return w
	}
	return os.Stdout
}

func (d *Display) display(ctx context.Context, in domain.Token) error {
	line := d.cfg.Prefix + fmt.Sprint(in.Payload)
	if d.cfg.ShowProvenance && len(in.Provenance) > 0 {
		line += fmt.Sprintf(" %v", in.Lineage())
	}
	_, err := fmt.Fprintln(d.writer(), line)
	return err
}

// Null swallows every token.
type Null struct {
	actor.Sink
}

func NewNull(name string) *Null {
	n := &Null{}
	n.Init(name, domain.Any(), func(context.Context, domain.Token) error { return nil })
	return n
}

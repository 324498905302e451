package actors

import (
	"context"
	"fmt"
	"maps"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// UniqueIDConfig configures UniqueID.
type UniqueIDConfig struct {
	Separator string `mapstructure:"separator"`
}

// UniqueID makes string IDs unique within a run by suffixing repeated ones
// with their occurrence number: "A", "A", "B" becomes "A", "A#2", "B".
type UniqueID struct {
	actor.Single
	cfg    UniqueIDConfig
	counts map[string]int
}

func NewUniqueID(name string) *UniqueID {
	u := &UniqueID{cfg: UniqueIDConfig{Separator: "#"}}
	u.Init(name, domain.Of(domain.ShapeString), domain.Of(domain.ShapeString), u.unique)
	return u
}

func (u *UniqueID) Configure(opts map[string]any) error {
	u.cfg = UniqueIDConfig{Separator: "#"}
	return actor.DecodeOptions(opts, &u.cfg)
}

func (u *UniqueID) SetUp(env *actor.Env) error {
	if err := u.Single.SetUp(env); err != nil {
		return err
	}
	u.counts = make(map[string]int)
	return nil
}

func (u *UniqueID) Reset() {
	u.Single.Reset()
	u.counts = make(map[string]int)
}

func (u *UniqueID) unique(ctx context.Context, in domain.Token) (any, error) {
	id := in.Payload.(string)
	u.counts[id]++
	if n := u.counts[id]; n > 1 {
		return fmt.Sprintf("%s%s%d", id, u.cfg.Separator, n), nil
	}
	return id, nil
}

// Backup adds the occurrence counters to the checkpoint.
func (u *UniqueID) Backup() domain.Checkpoint {
	cp := u.Single.Backup()
	cp.State = maps.Clone(u.counts)
	return cp
}

func (u *UniqueID) Restore(cp domain.Checkpoint) {
	u.Single.Restore(cp)
	if counts, ok := cp.State.(map[string]int); ok {
		u.counts = maps.Clone(counts)
	}
}

func (u *UniqueID) WrapUp() {
	u.Single.WrapUp()
	u.counts = nil
}

package actors

import (
	"context"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// ArrayToChunksConfig configures ArrayToChunks.
type ArrayToChunksConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
}

// ArrayToChunks splits an array into sub-arrays of at most ChunkSize elements.
type ArrayToChunks struct {
	actor.Queue
	cfg ArrayToChunksConfig
}

func NewArrayToChunks(name string) *ArrayToChunks {
	a := &ArrayToChunks{cfg: ArrayToChunksConfig{ChunkSize: 1}}
	a.Init(name, domain.Of(domain.ShapeArray), domain.Of(domain.ShapeArray), a.split)
	return a
}

func (a *ArrayToChunks) Configure(opts map[string]any) error {
	a.cfg = ArrayToChunksConfig{ChunkSize: 1}
	return actor.DecodeOptions(opts, &a.cfg)
}

func (a *ArrayToChunks) SetUp(env *actor.Env) error {
	if err := a.Queue.SetUp(env); err != nil {
		return err
	}
	if a.cfg.ChunkSize < 1 {
		return a.Invalidf("chunk_size must be at least 1, got %d", a.cfg.ChunkSize)
	}
	a.SetChunkSize(a.cfg.ChunkSize)
	return nil
}

func (a *ArrayToChunks) split(ctx context.Context, in domain.Token) ([]any, error) {
	return toSlice(in.Payload)
}

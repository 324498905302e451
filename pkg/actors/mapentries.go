package actors

import (
	"context"
	"sort"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// MapToKeyValuePairs emits one [key, value] pair per map entry, ordered by key.
type MapToKeyValuePairs struct {
	actor.Queue
}

func NewMapToKeyValuePairs(name string) *MapToKeyValuePairs {
	m := &MapToKeyValuePairs{}
	m.Init(name, domain.Of(domain.ShapeMap), domain.Of(domain.ShapeArray), m.entries)
	return m
}

func (m *MapToKeyValuePairs) entries(ctx context.Context, in domain.Token) ([]any, error) {
	values, err := toMap(in.Payload)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]any, len(keys))
	for i, k := range keys {
		pairs[i] = []any{k, values[k]}
	}
	return pairs, nil
}

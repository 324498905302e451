package ports

import (
	"context"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ProvenanceSink receives every token emitted by a leaf actor of a flow.
type ProvenanceSink interface {
	Record(ctx context.Context, runID string, token domain.Token) error
}

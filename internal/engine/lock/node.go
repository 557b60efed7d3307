package lock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/strata/internal/adapters/store"
	"go.trai.ch/strata/internal/core/ports"
)

// NodeID is the unique identifier for the lock engine Graft node.
const NodeID graft.ID = "engine.lock"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{store.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			layerStore, err := graft.Dep[ports.LayerStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(layerStore), nil
		},
	})
}

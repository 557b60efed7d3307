package discovery

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/strata/internal/adapters/declfile"
	"go.trai.ch/strata/internal/core/ports"
)

// NodeID is the unique identifier for the discovery engine Graft node.
const NodeID graft.ID = "engine.discovery"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{declfile.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			loader, err := graft.Dep[ports.DeclarationLoader](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(loader), nil
		},
	})
}

package git

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/logger"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

const NodeID graft.ID = "adapter.git_fetcher"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFetcher(log), nil
		},
	})
}

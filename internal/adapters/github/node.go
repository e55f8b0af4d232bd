package github

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/logger"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

const (
	// ClientNodeID is the unique identifier for the shared GitHub client node.
	ClientNodeID graft.ID = "adapter.github"
	// TagServiceNodeID exposes the client as ports.TagService.
	TagServiceNodeID graft.ID = "adapter.github_tags"
	// MetadataSourceNodeID exposes the client as ports.MetadataSource.
	MetadataSourceNodeID graft.ID = "adapter.github_metadata"
)

func init() {
	graft.Register(graft.Node[*Client]{
		ID:        ClientNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Client, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(log, WithToken(os.Getenv("GITHUB_TOKEN"))), nil
		},
	})

	graft.Register(graft.Node[ports.TagService]{
		ID:        TagServiceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ClientNodeID},
		Run: func(ctx context.Context) (ports.TagService, error) {
			client, err := graft.Dep[*Client](ctx)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	})

	graft.Register(graft.Node[ports.MetadataSource]{
		ID:        MetadataSourceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ClientNodeID},
		Run: func(ctx context.Context) (ports.MetadataSource, error) {
			client, err := graft.Dep[*Client](ctx)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	})
}

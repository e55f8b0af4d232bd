package resolver

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/github" //nolint:depguard // Wired in engine wiring
	"github.com/ministryofjustice/salt-shaker/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

const (
	// GraphNodeID is the unique identifier for the graph resolver Graft node.
	GraphNodeID graft.ID = "engine.resolver"
	// VersionsNodeID is the unique identifier for the version resolver Graft node.
	VersionsNodeID graft.ID = "engine.versions"
)

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        GraphNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			github.MetadataSourceNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			source, err := graft.Dep[ports.MetadataSource](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(source, log), nil
		},
	})

	graft.Register(graft.Node[*VersionResolver]{
		ID:        VersionsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			github.TagServiceNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*VersionResolver, error) {
			tags, err := graft.Dep[ports.TagService](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewVersionResolver(tags, log, DefaultWorkers), nil
		},
	})
}

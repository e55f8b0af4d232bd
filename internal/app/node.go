package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/ministryofjustice/salt-shaker/internal/adapters/git"      //nolint:depguard // Wired in app layer
	"github.com/ministryofjustice/salt-shaker/internal/adapters/lockfile" //nolint:depguard // Wired in app layer
	"github.com/ministryofjustice/salt-shaker/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"github.com/ministryofjustice/salt-shaker/internal/adapters/metadata" //nolint:depguard // Wired in app layer
	"github.com/ministryofjustice/salt-shaker/internal/adapters/progress" //nolint:depguard // Wired in app layer
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
	"github.com/ministryofjustice/salt-shaker/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			metadata.NodeID,
			resolver.GraphNodeID,
			resolver.VersionsNodeID,
			lockfile.NodeID,
			git.NodeID,
			progress.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	graph, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	versions, err := graft.Dep[*resolver.VersionResolver](ctx)
	if err != nil {
		return nil, err
	}

	lockStore, err := graft.Dep[ports.LockfileStore](ctx)
	if err != nil {
		return nil, err
	}

	fetcher, err := graft.Dep[ports.Fetcher](ctx)
	if err != nil {
		return nil, err
	}

	prog, err := graft.Dep[ports.Progress](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, graph, versions, lockStore, fetcher, prog, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{App: application, Logger: log}, nil
}

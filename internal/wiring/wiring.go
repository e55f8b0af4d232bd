// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/ministryofjustice/salt-shaker/internal/adapters/git"
	_ "github.com/ministryofjustice/salt-shaker/internal/adapters/github"
	_ "github.com/ministryofjustice/salt-shaker/internal/adapters/lockfile"
	_ "github.com/ministryofjustice/salt-shaker/internal/adapters/logger"
	_ "github.com/ministryofjustice/salt-shaker/internal/adapters/metadata"
	_ "github.com/ministryofjustice/salt-shaker/internal/adapters/progress"
	// Register app and engine nodes.
	_ "github.com/ministryofjustice/salt-shaker/internal/app"
	_ "github.com/ministryofjustice/salt-shaker/internal/engine/resolver"
)

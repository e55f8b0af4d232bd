package progress

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

const NodeID graft.ID = "adapter.progress"

func init() {
	graft.Register(graft.Node[ports.Progress]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Progress, error) {
			return New(), nil
		},
	})
}

package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

// SSEClient is one open event stream.
type SSEClient struct {
	ID        uuid.UUID
	VisitorID string
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	closeOnce sync.Once
	Logger    *logger.Logger
}

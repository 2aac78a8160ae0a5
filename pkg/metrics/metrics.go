package metrics

import (
	"github.com/strandlabs/vaultwire/pkg/wire"
)

// WireMetrics collects counters from the wire stack. Implementations poll
// the components they are given; a nil WireMetrics disables collection.
type WireMetrics interface {
	Shutdown()

	AddSession(name string, s *wire.Session)
	RemoveSession(name string)
}

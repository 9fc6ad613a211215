// Package metrics holds helpers shared by the metrics adapters.
package metrics

import (
	"time"

	"worldharvest/internal/app/ports"
)

// Fanout forwards every recording to each sink in order.
type Fanout []ports.DispatchMetrics

func (f Fanout) RecordDispatch(commandType string, success bool, elapsed time.Duration) {
	for _, m := range f {
		m.RecordDispatch(commandType, success, elapsed)
	}
}

func (f Fanout) RecordUnhandled(commandType string) {
	for _, m := range f {
		m.RecordUnhandled(commandType)
	}
}

func (f Fanout) RecordError(commandType string) {
	for _, m := range f {
		m.RecordError(commandType)
	}
}

package ports

import "time"

type DispatchMetrics interface {
	RecordDispatch(commandType string, success bool, elapsed time.Duration)
	RecordUnhandled(commandType string)
	RecordError(commandType string)
}

package ports

import "errors"

// Repository sentinels. Adapters translate driver-specific errors into these.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

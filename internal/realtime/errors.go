package realtime

import "errors"

var (
	ErrClosed = errors.New("realtime channel closed")
)

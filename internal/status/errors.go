package status

import "errors"

var (
	// ErrChannel marks a transport failure of the push channel.
	ErrChannel = errors.New("status channel error")
	// ErrChannelClosed marks a graceful or abrupt disconnect.
	ErrChannelClosed = errors.New("status channel closed")
	// ErrRequestFailed marks a non-2xx response or a transport failure of the
	// run trigger.
	ErrRequestFailed = errors.New("run request failed")
)

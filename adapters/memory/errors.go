package memory

import "errors"

var ErrClosed = errors.New("memory store is closed")

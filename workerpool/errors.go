package workerpool

import (
	"errors"
)

var (
	ErrInvalidPoolSize = errors.New("pool size must be positive")
	ErrInvalidQueueCap = errors.New("queue capacity must not be negative")
	ErrPoolClosed      = errors.New("pool closed")
	ErrPoolFlooded     = errors.New("pool queue full")
)

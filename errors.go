package tpool

import "errors"

var (
	ErrPoolStopped         = errors.New("thread pool is stopped")
	ErrNilJob              = errors.New("thread pool job is nil")
	ErrInvalidThreadCount  = errors.New("thread pool size must be positive")
	ErrMetricsRegistration = errors.New("thread pool metrics registration failed")
)

package model

import (
	"sync"
)

// ServerProperties is the validated runtime configuration shared by the
// acceptor and every worker. Only ErrorLog is mutated after startup and
// it is guarded by ELMutex.
type ServerProperties struct {
	ListenerAddr       string
	WorkerPoolSize     int
	QueueCapacity      int
	FilesDirectory     string
	ReadTimeout        int32 // ms
	WriteTimeout       int32 // ms
	LogLevel           string
	LogFile            string
	EnableProfilingFor string
	ErrorLog           map[string]uint64
	ELMutex            sync.Mutex
}

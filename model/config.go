package model

// Config holds the raw values read from httpd.properties.
type Config struct {
	ListenerAddr       string
	WorkerPoolSize     int
	QueueCapacity      int
	FilesDirectory     string
	ReadTimeout        int32
	WriteTimeout       int32
	LogLevel           string
	LogFile            string
	EnableProfilingFor string
}

package props

import (
	"fmt"
	"os"

	"github.com/astaxie/beego/config"
	"github.com/gptankit/minihttpd/model"
)

const (
	HTTPD_K_LISTENER_ADDR        = "LISTENER_ADDR"
	HTTPD_K_WORKER_POOL_SIZE     = "WORKER_POOL_SIZE"
	HTTPD_K_QUEUE_CAPACITY       = "QUEUE_CAPACITY"
	HTTPD_K_FILES_DIRECTORY      = "FILES_DIRECTORY"
	HTTPD_K_READ_TIMEOUT         = "READ_TIMEOUT"
	HTTPD_K_WRITE_TIMEOUT        = "WRITE_TIMEOUT"
	HTTPD_K_LOG_LEVEL            = "LOG_LEVEL"
	HTTPD_K_LOG_FILE             = "LOG_FILE"
	HTTPD_K_ENABLE_PROFILING_FOR = "ENABLE_PROFILING_FOR"

	DEFAULT_LISTENER_ADDR    = "127.0.0.1:4221"
	DEFAULT_WORKER_POOL_SIZE = 4
	DEFAULT_QUEUE_CAPACITY   = 1024
	DEFAULT_READ_TIMEOUT     = 5000
	DEFAULT_WRITE_TIMEOUT    = 5000
	DEFAULT_LOG_LEVEL        = "info"
)

// Defaults returns the configuration used for keys the file leaves out.
func Defaults() model.Config {

	return model.Config{
		ListenerAddr:   DEFAULT_LISTENER_ADDR,
		WorkerPoolSize: DEFAULT_WORKER_POOL_SIZE,
		QueueCapacity:  DEFAULT_QUEUE_CAPACITY,
		ReadTimeout:    DEFAULT_READ_TIMEOUT,
		WriteTimeout:   DEFAULT_WRITE_TIMEOUT,
		LogLevel:       DEFAULT_LOG_LEVEL,
	}
}

// GetConfiguration reads the key=value properties file at confFilePath on
// top of Defaults. A missing file is not an error.
func GetConfiguration(confFilePath string) (model.Config, error) {

	cfg := Defaults()

	if _, err := os.Stat(confFilePath); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	ac, err := config.NewConfig("ini", confFilePath)
	if err != nil {
		return cfg, err
	}

	return populate(cfg, ac)
}

// populate overrides cfg with every key present in ac.
func populate(cfg model.Config, ac config.Configer) (model.Config, error) {

	var err error

	if v := ac.String(HTTPD_K_LISTENER_ADDR); v != "" {
		cfg.ListenerAddr = v
	}
	if cfg.WorkerPoolSize, err = intValue(ac, HTTPD_K_WORKER_POOL_SIZE, cfg.WorkerPoolSize); err != nil {
		return cfg, err
	}
	if cfg.QueueCapacity, err = intValue(ac, HTTPD_K_QUEUE_CAPACITY, cfg.QueueCapacity); err != nil {
		return cfg, err
	}
	if v := ac.String(HTTPD_K_FILES_DIRECTORY); v != "" {
		cfg.FilesDirectory = v
	}

	readTimeout, err := intValue(ac, HTTPD_K_READ_TIMEOUT, int(cfg.ReadTimeout))
	if err != nil {
		return cfg, err
	}
	cfg.ReadTimeout = int32(readTimeout)

	writeTimeout, err := intValue(ac, HTTPD_K_WRITE_TIMEOUT, int(cfg.WriteTimeout))
	if err != nil {
		return cfg, err
	}
	cfg.WriteTimeout = int32(writeTimeout)

	if v := ac.String(HTTPD_K_LOG_LEVEL); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogFile = ac.DefaultString(HTTPD_K_LOG_FILE, cfg.LogFile)
	cfg.EnableProfilingFor = ac.DefaultString(HTTPD_K_ENABLE_PROFILING_FOR, cfg.EnableProfilingFor)

	return cfg, nil
}

func intValue(ac config.Configer, key string, def int) (int, error) {

	if ac.String(key) == "" {
		return def, nil
	}

	v, err := ac.Int(key)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}

	return v, nil
}

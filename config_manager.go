package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/gptankit/minihttpd/errorlog"
	"github.com/gptankit/minihttpd/model"
	"github.com/gptankit/minihttpd/props"
	"github.com/sirupsen/logrus"
)

const (
	HTTPD_WD  = "/usr/local/minihttpd"
	HTTPD_VER = "minihttpd/0.1"
)

// cmdOptions are the values taken from the command line.
type cmdOptions struct {
	confFilePath string
	directory    string
}

// getPropertyFilePath returns the default path to httpd.properties.
func getPropertyFilePath() string {

	return HTTPD_WD + "/config/httpd.properties"
}

// parseFlags reads --config and --directory. Arguments that do not parse
// are reported and ignored as a whole, leaving the file handler without a
// directory.
func parseFlags(args []string) cmdOptions {

	opts := cmdOptions{confFilePath: getPropertyFilePath()}

	fs := flag.NewFlagSet("minihttpd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	confFilePath := fs.String("config", opts.confFilePath, "path to httpd.properties")
	directory := fs.String("directory", "", "directory served under /files/")

	if err := fs.Parse(args); err != nil {
		errorlog.Logger().WithField("args", args).Warnf("ignoring command line: %s", err)
		return opts
	}

	opts.confFilePath = *confFilePath
	opts.directory = *directory

	return opts
}

// getProperties loads httpd.properties, applies the command line on top of
// it and validates the result.
func getProperties(opts cmdOptions) (*model.ServerProperties, error) {

	cfg, err := props.GetConfiguration(opts.confFilePath)
	if err != nil {
		return nil, err
	}

	if opts.directory != "" {
		cfg.FilesDirectory = opts.directory
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return getAssignedProperties(cfg), nil
}

// validate checks the values the server cannot start without.
func validate(cfg model.Config) error {

	var errs []error

	if cfg.ListenerAddr == "" {
		errs = append(errs, fmt.Errorf("%s missing", props.HTTPD_K_LISTENER_ADDR))
	}
	if cfg.WorkerPoolSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", props.HTTPD_K_WORKER_POOL_SIZE, cfg.WorkerPoolSize))
	}
	if cfg.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", props.HTTPD_K_QUEUE_CAPACITY, cfg.QueueCapacity))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", props.HTTPD_K_READ_TIMEOUT, cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", props.HTTPD_K_WRITE_TIMEOUT, cfg.WriteTimeout))
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", props.HTTPD_K_LOG_LEVEL, err))
	}

	return errors.Join(errs...)
}

// getAssignedProperties returns a new model.ServerProperties object
// with configs mapped from httpd.properties.
func getAssignedProperties(cfg model.Config) *model.ServerProperties {

	return &model.ServerProperties{
		ListenerAddr:       cfg.ListenerAddr,
		WorkerPoolSize:     cfg.WorkerPoolSize,
		QueueCapacity:      cfg.QueueCapacity,
		FilesDirectory:     cfg.FilesDirectory,
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		LogLevel:           cfg.LogLevel,
		LogFile:            cfg.LogFile,
		EnableProfilingFor: cfg.EnableProfilingFor,
		ErrorLog:           make(map[string]uint64),
	}
}

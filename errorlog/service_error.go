package errorlog

import (
	"io"
	"os"

	"github.com/gptankit/minihttpd/model"
	"github.com/sirupsen/logrus"
)

const (
	ACCEPT_FAIL  = "ACCEPT_FAIL"
	READ_FAIL    = "READ_FAIL"
	WRITE_FAIL   = "WRITE_FAIL"
	BAD_REQUEST  = "BAD_REQUEST"
	POOL_FLOODED = "POOL_FLOODED"
	WORKER_PANIC = "WORKER_PANIC"
)

var logger = newLogger(os.Stderr, logrus.InfoLevel)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	return l
}

// Init sets the log level and destination. An empty logFile keeps stderr.
func Init(level string, logFile string) error {

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		out = file
	}

	logger = newLogger(out, lvl)
	return nil
}

// Logger returns the process logger.
func Logger() *logrus.Logger {

	return logger
}

// IncrementErrorCount bumps the counter for kind and logs the reason.
func IncrementErrorCount(sp *model.ServerProperties, kind string, errReason string) {

	sp.ELMutex.Lock()
	defer sp.ELMutex.Unlock()
	if sp.ErrorLog == nil {
		sp.ErrorLog = make(map[string]uint64)
	}
	sp.ErrorLog[kind] += 1
	logServerError(kind, sp.ErrorLog[kind], errReason)
}

// ResetErrorCount zeroes the counter for kind.
func ResetErrorCount(sp *model.ServerProperties, kind string) {

	sp.ELMutex.Lock()
	defer sp.ELMutex.Unlock()
	if sp.ErrorLog != nil {
		sp.ErrorLog[kind] = 0
	}
}

// ErrorCount returns the current counter for kind.
func ErrorCount(sp *model.ServerProperties, kind string) uint64 {

	sp.ELMutex.Lock()
	defer sp.ELMutex.Unlock()
	return sp.ErrorLog[kind]
}

// LogGenericError logs a message that is not tied to a connection.
func LogGenericError(errMsg string) {

	logger.Error(errMsg)
}

// LogConnError logs a failure on a single client connection.
func LogConnError(remote string, kind string, err error) {

	logger.WithFields(logrus.Fields{
		"remote": remote,
		"kind":   kind,
	}).Warn(err)
}

// LogRequest traces a served request at debug level.
func LogRequest(remote string, method string, path string, status int) {

	logger.WithFields(logrus.Fields{
		"remote": remote,
		"method": method,
		"path":   path,
		"status": status,
	}).Debug("served")
}

func logServerError(kind string, count uint64, errReason string) {

	logger.WithFields(logrus.Fields{
		"kind":  kind,
		"count": count,
	}).Error(errReason)
}

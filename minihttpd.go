package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gptankit/minihttpd/errorlog"
	"github.com/gptankit/minihttpd/model"
	"github.com/gptankit/minihttpd/profiling"
	"github.com/gptankit/minihttpd/protocol/httpconn"
	"github.com/gptankit/minihttpd/protocol/router"
	"github.com/gptankit/minihttpd/workerpool"
	"github.com/sirupsen/logrus"
)

const (
	// acceptRetryGap is how long the acceptor backs off after a failed accept.
	acceptRetryGap = 5 * time.Millisecond

	// maxConcurrentRejects caps the 503 answers in flight at once.
	maxConcurrentRejects = 64
)

// main reads the configuration, binds the listener and serves connections
// on the worker pool until SIGINT or SIGTERM.
func main() {

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {

	sp, err := getProperties(parseFlags(args))
	if err != nil {
		errorlog.LogGenericError("Could not read httpd.properties -- " + err.Error())
		return 1
	}

	if err := errorlog.Init(sp.LogLevel, sp.LogFile); err != nil {
		errorlog.LogGenericError("Could not set up logging -- " + err.Error())
		return 1
	}

	prof, err := profiling.Start(sp.EnableProfilingFor, "")
	if err != nil {
		errorlog.LogGenericError(err.Error())
		return 1
	}
	defer prof.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := getListener(ctx, sp)
	if err != nil {
		errorlog.LogGenericError("Could not listen on " + sp.ListenerAddr + " -- " + err.Error())
		return 1
	}

	errorlog.Logger().WithFields(logrus.Fields{
		"addr":    listener.Addr().String(),
		"workers": sp.WorkerPoolSize,
		"files":   sp.FilesDirectory,
	}).Info(HTTPD_VER + " listening")

	if err := serve(ctx, listener, sp); err != nil {
		errorlog.LogGenericError(err.Error())
		return 1
	}

	errorlog.Logger().Info("shut down")
	return 0
}

// serve runs the worker pool and the accept loop until ctx is cancelled.
// It closes listener and stops the pool before returning.
func serve(ctx context.Context, listener net.Listener, sp *model.ServerProperties) error {

	pool, err := workerpool.New(sp.WorkerPoolSize, sp.QueueCapacity, workerpool.WithPanicHandler(
		func(workerID int, job workerpool.Job, recovered interface{}) {
			errorlog.IncrementErrorCount(sp, errorlog.WORKER_PANIC, fmt.Sprintf("worker %d: %v", workerID, recovered))
		}))
	if err != nil {
		listener.Close()
		return err
	}
	defer pool.Stop()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	listenActive(ctx, listener, pool, router.New(sp.FilesDirectory), sp)
	return nil
}

// listenActive accepts connections and submits each one to the pool as a
// job. It returns once the listener is closed.
func listenActive(ctx context.Context, listener net.Listener, pool *workerpool.Pool, rt *router.Router, sp *model.ServerProperties) {

	rej := newRejecter(maxConcurrentRejects)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			errorlog.IncrementErrorCount(sp, errorlog.ACCEPT_FAIL, err.Error())
			time.Sleep(acceptRetryGap)
			continue
		}

		httpConn := httpconn.New(conn, rt, sp)
		if err := pool.Submit(httpConn); err != nil {
			if errors.Is(err, workerpool.ErrPoolFlooded) {
				errorlog.Logger().WithFields(logrus.Fields{
					"busy":    pool.Busy(),
					"pending": pool.Pending(),
				}).Warn("pool flooded")
				rej.reject(httpConn)
			} else {
				httpConn.Discard()
			}
		}
	}
}

// rejectable is a connection that can be answered with 503 or dropped.
type rejectable interface {
	Reject()
	Discard()
}

// rejecter answers flooded connections on their own goroutines, at most
// cap(slots) at a time. Beyond that connections are closed unanswered.
type rejecter struct {
	slots chan struct{}
}

func newRejecter(limit int) *rejecter {

	return &rejecter{slots: make(chan struct{}, limit)}
}

// reject reports whether conn got a 503 goroutine or was discarded.
func (r *rejecter) reject(conn rejectable) bool {

	select {
	case r.slots <- struct{}{}:
		go func() {
			defer func() { <-r.slots }()
			conn.Reject()
		}()
		return true
	default:
		conn.Discard()
		return false
	}
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gptankit/minihttpd/errorlog"
	"github.com/gptankit/minihttpd/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer serves on a loopback port until the test ends.
func startServer(t *testing.T, sp *model.ServerProperties) string {

	listener, err := newListener(context.Background(), "tcp", "127.0.0.1:0", applyReuseAddr())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, sp)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	return listener.Addr().String()
}

func testProperties(workers int) *model.ServerProperties {

	return &model.ServerProperties{
		WorkerPoolSize: workers,
		QueueCapacity:  128,
		ReadTimeout:    2000,
		WriteTimeout:   2000,
		ErrorLog:       make(map[string]uint64),
	}
}

// do sends raw and returns everything the server wrote before closing.
func do(addr string, raw string) (string, error) {

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte(raw)); err != nil {
		return "", err
	}

	out, err := io.ReadAll(conn)
	return string(out), err
}

func TestServeRoutes(t *testing.T) {

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.txt"), []byte("hello"), 0644))

	sp := testProperties(2)
	sp.FilesDirectory = dir
	addr := startServer(t, sp)

	var params = []struct {
		raw string
		exp string
	}{
		{"GET / HTTP/1.1\r\nHost: localhost:4221\r\n\r\n", "HTTP/1.1 200 OK\r\n\r\n"},
		{"GET /abcdefg HTTP/1.1\r\n\r\n", "HTTP/1.1 404 Not Found\r\n\r\n"},
		{"GET /echo/grape/mango HTTP/1.1\r\n\r\n",
			"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 11\r\n\r\ngrape/mango"},
		{"GET /user-agent HTTP/1.1\r\nHost: localhost:4221\r\nUser-Agent: curl/7.64\r\n\r\n",
			"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 9\r\n\r\ncurl/7.64"},
		{"GET /files/foo.txt HTTP/1.1\r\n\r\n",
			"HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: 5\r\n\r\nhello"},
		{"GET /files/missing.txt HTTP/1.1\r\n\r\n", "HTTP/1.1 404 Not Found\r\n\r\n"},
		{"BROKEN\r\n\r\n", "HTTP/1.1 400 Bad Request\r\n\r\n"},
	}

	for _, prm := range params {
		out, err := do(addr, prm.raw)
		require.NoError(t, err)
		assert.Equal(t, prm.exp, out, prm.raw)
	}
}

func TestConcurrentConnectionsGetIndependentResponses(t *testing.T) {

	const workers, conns = 3, 40
	addr := startServer(t, testProperties(workers))

	var wg sync.WaitGroup
	errs := make(chan error, conns)
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := fmt.Sprintf("conn-%d-%s", i, bytes.Repeat([]byte{'x'}, i))
			exp := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: %d\r\n\r\n%s", len(msg), msg)

			out, err := do(addr, "GET /echo/"+msg+" HTTP/1.1\r\n\r\n")
			if err != nil {
				errs <- err
				return
			}
			if out != exp {
				errs <- fmt.Errorf("conn %d: got %q", i, out)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestStalledClientDoesNotBlockOtherWorkers(t *testing.T) {

	sp := testProperties(2)
	sp.ReadTimeout = 3000
	addr := startServer(t, sp)

	// occupies one worker with half a request
	stalled, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer stalled.Close()
	_, err = stalled.Write([]byte("GET /echo/slow HTTP/1.1\r\n"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 5; i++ {
		out, err := do(addr, "GET / HTTP/1.1\r\n\r\n")
		require.NoError(t, err)
		assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", out)
	}
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestStalledClientIsTimedOut(t *testing.T) {

	sp := testProperties(1)
	sp.ReadTimeout = 100
	addr := startServer(t, sp)

	stalled, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer stalled.Close()

	// the only worker is freed once the read deadline fires
	out, err := do(addr, "GET / HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", out)

	assert.Eventually(t, func() bool {
		return errorlog.ErrorCount(sp, errorlog.READ_FAIL) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// holdWorker dials connections sending half a request until one is taken by
// a worker instead of being rejected, and returns it.
func holdWorker(t *testing.T, addr string, sp *model.ServerProperties) net.Conn {

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		flooded := errorlog.ErrorCount(sp, errorlog.POOL_FLOODED)

		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		_, err = conn.Write([]byte("GET /echo/slow HTTP/1.1\r\n"))
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)

		if errorlog.ErrorCount(sp, errorlog.POOL_FLOODED) == flooded {
			return conn
		}
		conn.Close()
	}

	t.Fatal("no worker picked up the stalled connection")
	return nil
}

func TestFloodedPoolRejects(t *testing.T) {

	sp := testProperties(1)
	sp.QueueCapacity = 0
	sp.ReadTimeout = 1000
	addr := startServer(t, sp)

	stalled := holdWorker(t, addr, sp)
	defer stalled.Close()
	flooded := errorlog.ErrorCount(sp, errorlog.POOL_FLOODED)

	out, err := do(addr, "GET / HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 503 Service Unavailable\r\n\r\n", out)
	assert.Equal(t, flooded+1, errorlog.ErrorCount(sp, errorlog.POOL_FLOODED))
}

func TestServeStopsOnCancel(t *testing.T) {

	listener, err := newListener(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, testProperties(2))
	}()

	out, err := do(addr, "GET / HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", out)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	_, err = net.DialTimeout("tcp", addr, 500*time.Millisecond)
	assert.Error(t, err)
}

func TestServeRejectsInvalidPool(t *testing.T) {

	listener, err := newListener(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = serve(context.Background(), listener, testProperties(0))
	assert.Error(t, err)
}

type blockingConn struct {
	release   chan struct{}
	rejected  chan struct{}
	discarded bool
}

func (c *blockingConn) Reject() {

	c.rejected <- struct{}{}
	<-c.release
}

func (c *blockingConn) Discard() {

	c.discarded = true
}

func TestRejecterCapsConcurrentRejects(t *testing.T) {

	rej := newRejecter(2)
	release := make(chan struct{})
	rejected := make(chan struct{}, 3)

	conns := []*blockingConn{
		{release: release, rejected: rejected},
		{release: release, rejected: rejected},
		{release: release, rejected: rejected},
	}

	assert.True(t, rej.reject(conns[0]))
	assert.True(t, rej.reject(conns[1]))
	<-rejected
	<-rejected

	// both slots are held, so the third is dropped without an answer
	assert.False(t, rej.reject(conns[2]))
	assert.True(t, conns[2].discarded)
	assert.False(t, conns[0].discarded)

	close(release)
	assert.Eventually(t, func() bool {
		c := &blockingConn{release: release, rejected: rejected}
		return rej.reject(c)
	}, 2*time.Second, 10*time.Millisecond)
}

package main

import (
	"context"
	"net"

	"github.com/gptankit/minihttpd/model"
	"github.com/gptankit/minihttpd/tcputils"
)

func getListener(ctx context.Context, sp *model.ServerProperties) (net.Listener, error) {

	transport := "tcp"
	addr := sp.ListenerAddr

	return newListener(ctx, transport, addr, applyReuseAddr(), applyNoKeepAlive())
}

func newListener(ctx context.Context, transport string, addr string, options ...func(*net.ListenConfig) error) (net.Listener, error) {

	lc := &net.ListenConfig{}

	for _, option := range options {
		if err := option(lc); err != nil {
			return nil, err // further options won't be executed
		}
	}

	return lc.Listen(ctx, transport, addr)
}

func applyReuseAddr() func(*net.ListenConfig) error {

	return func(lc *net.ListenConfig) error {
		lc.Control = tcputils.ReuseAddrControl
		return nil
	}
}

// every connection carries one request, so tcp keep-alive traffic is wasted
func applyNoKeepAlive() func(*net.ListenConfig) error {

	return func(lc *net.ListenConfig) error {
		lc.KeepAlive = -1
		return nil
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package notify publishes chain progress to external listeners.
package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/orchestrator"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOOptions configure the socket.io publisher.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO emits orchestrator events over a socket.io connection. The event
// kind is the socket.io event name and the payload is the JSON form of the
// event.
type SocketIO struct {
	io *socket.Socket
}

// DialSocketIO connects to the server and waits for the connection to be
// acknowledged.
func DialSocketIO(ctx context.Context, opts SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notification URL %q needs a scheme and a host", opts.URL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}

	connected := make(chan error, 2)
	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host), sopts)
	io := manager.Socket(namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to notification server.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connection refused by %s", opts.URL)
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIO{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Observe implements orchestrator.Observer.
func (s *SocketIO) Observe(ctx context.Context, ev orchestrator.Event) {
	data, err := Payload(ev)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Cannot encode progress event.", "event", string(ev.Kind), "error", err)
		return
	}
	ctxlog.Trace(ctx, "Emitting progress event.", "event", string(ev.Kind))
	s.io.Emit(string(ev.Kind), data)
}

// Close disconnects from the server.
func (s *SocketIO) Close() {
	s.io.Disconnect()
}

// Payload converts an event into the generic map sent on the wire.
func Payload(ev orchestrator.Event) (map[string]any, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

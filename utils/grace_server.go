package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const (
	DEFAULT_READ_TIMEOUT     = 60 * time.Second
	DEFAULT_WRITE_TIMEOUT    = DEFAULT_READ_TIMEOUT
	DEFAULT_SHUTDOWN_TIMEOUT = 30 * time.Second
)

// Server wraps http.Server to support graceful shutdown. Hooks registered
// with OnStop run in reverse order once the HTTP server has drained.
type Server struct {
	*http.Server

	listener     net.Listener
	signalChan   chan os.Signal
	shutdownChan chan struct{}
	shutdownOnce sync.Once

	hooksMu sync.Mutex
	hooks   []func() error
}

// NewServer creates a Server with timeouts and handler. Streaming handlers
// (server-sent events) need writeTimeout 0.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		signalChan:   make(chan os.Signal, 1),
		shutdownChan: make(chan struct{}),
	}
}

// OnStop registers fn to run after shutdown.
func (srv *Server) OnStop(fn func() error) {
	srv.hooksMu.Lock()
	srv.hooks = append(srv.hooks, fn)
	srv.hooksMu.Unlock()
}

// ListenAndServe starts serving on tcp and handles signals.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}
	return srv.Serve(ln)
}

// Serve accepts on ln until a shutdown signal arrives or Stop is called.
func (srv *Server) Serve(ln net.Listener) error {
	srv.listener = ln
	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(srv.signalChan)
	go srv.handleSignals()

	err := srv.Server.Serve(srv.listener)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	} else {
		srv.Stop()
	}
	// Wait until Shutdown finished
	<-srv.shutdownChan
	return err
}

// Stop drains the server and runs the stop hooks. It is safe to call more than once.
func (srv *Server) Stop() {
	srv.shutdownOnce.Do(srv.shutdownHTTPServer)
}

func (srv *Server) handleSignals() {
	select {
	case sig := <-srv.signalChan:
		Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
		srv.Stop()
	case <-srv.shutdownChan:
	}
}

func (srv *Server) shutdownHTTPServer() {
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown success")
	}

	srv.hooksMu.Lock()
	hooks := srv.hooks
	srv.hooks = nil
	srv.hooksMu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](); err != nil {
			Sugar.Errorf("stop hook failed: %v", err)
		}
	}
	close(srv.shutdownChan)
}

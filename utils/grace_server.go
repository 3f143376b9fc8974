package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const (
	serverReadTimeout       = 60 * time.Second
	serverReadHeaderTimeout = 10 * time.Second
	// uploads and the relay finish well inside this window
	drainTimeout = 30 * time.Second

	inheritEnvKey = "MEMEMATES_INHERIT_FD"
	// fd 3 is the first slot after stdio in the child
	inheritedFD = 3
)

// Server is an http.Server that drains on shutdown and can hand its listener to a replacement process on SIGUSR2.
type Server struct {
	http     *http.Server
	listener net.Listener
	restart  chan os.Signal
}

// NewServer builds a Server for handler; call Run to start it.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       serverReadTimeout,
			ReadHeaderTimeout: serverReadHeaderTimeout,
			WriteTimeout:      serverReadTimeout,
		},
		restart: make(chan os.Signal, 1),
	}
}

// Listen opens the listening socket, reusing one passed down by a parent process when present.
func (s *Server) Listen() (net.Listener, error) {
	if s.listener != nil {
		return s.listener, nil
	}
	var (
		ln  net.Listener
		err error
	)
	if os.Getenv(inheritEnvKey) != "" {
		ln, err = net.FileListener(os.NewFile(inheritedFD, "inherited-listener"))
	} else {
		ln, err = net.Listen("tcp", s.http.Addr)
	}
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	s.listener = ln
	return ln, nil
}

// Run serves until ctx is done or a replacement process has taken over, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}
	signal.Notify(s.restart, syscall.SIGUSR2)
	defer signal.Stop(s.restart)

	served := make(chan error, 1)
	go func() { served <- s.http.Serve(s.listener) }()
	Sugar.Infow("http server listening", "addr", s.listener.Addr().String())

	for {
		select {
		case err := <-served:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			Sugar.Info("shutting down http server")
			return s.drain()
		case <-s.restart:
			pid, err := s.handOver()
			if err != nil {
				Sugar.Errorw("restart failed, still serving", "error", err)
				continue
			}
			Sugar.Infow("replacement process started", "pid", pid)
			return s.drain()
		}
	}
}

func (s *Server) drain() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("drain http server: %w", err)
	}
	Sugar.Info("http server stopped")
	return nil
}

// handOver re-executes the binary with the listening socket as fd 3.
func (s *Server) handOver() (int, error) {
	tcp, ok := s.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	file, err := tcp.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer file.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, inheritEnvKey+"=") {
			env = append(env, e)
		}
	}
	env = append(env, inheritEnvKey+"=1")

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("fork exec: %w", err)
	}
	return pid, nil
}

// GraceServer serves handler on addr until SIGINT or SIGTERM.
func GraceServer(addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewServer(addr, handler).Run(ctx)
}

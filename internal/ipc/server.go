package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/voltray/internal/controller"
	"github.com/1broseidon/voltray/internal/runtimepath"
)

// requestTimeout bounds how long a command may wait on the controller.
const requestTimeout = 5 * time.Second

// Controller is the part of the toggle controller exposed over IPC.
type Controller interface {
	Toggle(ctx context.Context) (controller.Result, error)
	Close(ctx context.Context) bool
	Status(ctx context.Context) controller.Status
}

// Server answers one JSON request per connection on a unix socket.
type Server struct {
	socketPath string
	ctrl       Controller
	reload     func() error
	started    time.Time
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	stopping bool
}

// NewServer creates a server on the runtime-dir socket. reload is invoked for
// RELOAD and may be nil.
func NewServer(ctrl Controller, reload func() error) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctrl, reload), nil
}

// NewServerAt creates a server bound to an explicit socket path.
func NewServerAt(socketPath string, ctrl Controller, reload func() error) *Server {
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		reload:     reload,
		started:    time.Now(),
		logger:     slog.Default().With("component", "ipc"),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start replaces any stale socket, listens with owner-only permissions and
// serves in the background until Stop.
func (s *Server) Start() error {
	// A previous daemon that died without Stop leaves its socket behind; the
	// instance lock guarantees it is not in use.
	_ = os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("listening", "socket", s.socketPath)
	go s.serve(ln)
	return nil
}

// Stop closes the listener and removes the socket file.
func (s *Server) Stop() {
	s.mu.Lock()
	s.stopping = true
	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	_ = os.Remove(s.socketPath)
}

func (s *Server) isStopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopping
}

func (s *Server) serve(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isStopping() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", "err", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("read failed", "err", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(line); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.dispatch(req)
	}

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Warn("write failed", "err", err)
	}
}

// dispatch runs one command against the controller.
func (s *Server) dispatch(req *Request) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch req.Command {
	case CommandToggle:
		res, err := s.ctrl.Toggle(ctx)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Toggle failed: %v", err))
		}
		return okResponse(ToggleData{Result: res.String()})

	case CommandClose:
		return okResponse(CloseData{Closed: s.ctrl.Close(ctx)})

	case CommandGetStatus:
		return okResponse(StatusData{
			Status:        s.ctrl.Status(ctx),
			UptimeSeconds: int64(time.Since(s.started).Seconds()),
			DaemonPID:     os.Getpid(),
		})

	case CommandReload:
		if s.reload == nil {
			return NewErrorResponse("reload is not supported")
		}
		if err := s.reload(); err != nil {
			s.logger.Warn("reload failed", "err", err)
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		s.logger.Info("config reloaded")
		return okResponse(nil)

	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// okResponse wraps data, which is always one of the protocol structs.
func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

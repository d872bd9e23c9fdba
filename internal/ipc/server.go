// Package ipc relays events between window processes over a unix socket
// served by the bar. Each connection carries newline-terminated messages;
// every message is answered with "ok" or "err <reason>".
package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
)

var ErrInUse = errors.New("socket already served")

// Handler consumes a received message.
type Handler func(Message) error

// Server accepts connections on a unix socket.
type Server struct {
	path    string
	handler Handler

	listener net.Listener
	started  int32
	wg       sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewServer(path string, handler Handler) *Server {
	return &Server{path: path, handler: handler, conns: make(map[net.Conn]struct{})}
}

// Path returns the socket location.
func (s *Server) Path() string {
	return s.path
}

// Start listens on the socket. A stale socket file left by a dead process is
// removed; a live one yields ErrInUse.
func (s *Server) Start() error {
	if !atomic.CompareAndSwapInt32(&s.started, 0, 1) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		atomic.StoreInt32(&s.started, 0)
		return fmt.Errorf("create socket dir: %w", err)
	}
	if Alive(s.path) {
		atomic.StoreInt32(&s.started, 0)
		return fmt.Errorf("%s: %w", s.path, ErrInUse)
	}
	_ = os.Remove(s.path)
	listener, err := net.Listen("unix", s.path)
	if err != nil {
		atomic.StoreInt32(&s.started, 0)
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.wg.Add(1)
	go s.accept()
	return nil
}

// Serve starts the server and stops it when ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// Stop closes the listener and every open connection.
func (s *Server) Stop() error {
	if !atomic.CompareAndSwapInt32(&s.started, 1, 0) {
		return nil
	}
	err := s.listener.Close()
	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logging.Error(fmt.Errorf("ipc accept: %w", err))
			}
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := "ok"
		msg, err := ParseMessage(line)
		if err == nil && msg.Kind != Ping && s.handler != nil {
			err = s.handler(msg)
		}
		if err != nil {
			reply = "err " + err.Error()
		}
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		if _, err := fmt.Fprintln(conn, reply); err != nil {
			return
		}
	}
}

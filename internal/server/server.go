package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/nexushub/nexushub/common"
)

// Server manages command connections from CLI clients over a unix
// socket (named pipe on Windows). It dispatches incoming requests to
// registered handlers and owns the pool of attached event listeners.
type Server struct {
	log      *log.Logger
	pool     *Pool
	ws       *WebServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a server listening on the platform socket, falling
// back to TCP on the given port. The RPC bridge, if non-nil, is served
// over HTTP/WebSocket on port+1.
func NewServer(l *log.Logger, rpc *RPCServer, port int) *Server {
	s := &Server{
		log:     l,
		pool:    NewPool(l),
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
	}
	if rpc != nil {
		s.ws = NewWebServer(l, rpc, port+1)
	}
	return s
}

// Pool exposes the attached-client pool so the daemon can route
// scheduler events through it.
func (s *Server) Pool() *Pool {
	return s.pool
}

// RegisterHandler associates a handler function with a method. When a
// request with the given method arrives, the handler is invoked.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Start begins accepting connections and blocks until the context is
// cancelled. Each connection is served in its own goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.ws != nil {
		go func() {
			if err := s.ws.Start(); err != nil {
				s.log.Println("rpc web server:", err)
			}
		}()
	}

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Println("Error accepting:", err.Error())
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown stops the server, closing the listener and removing the
// socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Printf("Error closing listener: %v", err)
		}
		s.listener = nil
	}

	if s.ws != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.ws.Shutdown(shutdownCtx); err != nil {
			s.log.Printf("Error shutting down rpc web server: %v", err)
		}
	}

	if err := cleanupSocket(); err != nil {
		s.log.Printf("Error removing socket file: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.Detach(sconn)
		conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if err != io.EOF {
				s.log.Println("Error reading:", err.Error())
			}
			break
		}
		if err = s.handlerWrapper(sconn, buf); err != nil {
			s.log.Println("Error handling:", err.Error())
			break
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %s", err.Error())
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		if err = sconn.Write(CreateError("unknown method: " + string(req.Method))); err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		if err = sconn.Write(InitError(err)); err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	if err = sconn.Write(MakeResult(utype, msg)); err != nil {
		return fmt.Errorf("error writing response: %s", err.Error())
	}
	return nil
}

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/nexushub/nexushub/common"
)

// WebServer hosts the JSON-RPC surface over HTTP: POST /rpc through
// the jhttp bridge and GET /rpc/ws for WebSocket sessions with push.
// Both endpoints require the bearer token.
type WebServer struct {
	port   int
	l      *log.Logger
	rpc    *RPCServer
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(l *log.Logger, rpc *RPCServer, port int) *WebServer {
	return &WebServer{port: port, l: l, rpc: rpc}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.Handle("/rpc/ws", requireToken(s.rpc.secret, s.rpc.wsHandler()))
	return mux
}

func (s *WebServer) addr() string {
	host := common.TCPHost
	if s.rpc.listenAll {
		host = ""
	}
	return fmt.Sprintf("%s:%d", host, s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the web server and the RPC bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rpc.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

package hubcli

import (
	"net"
	"sync"

	"github.com/nexushub/nexushub/common"
)

// NewClientForTesting creates a Client over a caller-supplied
// connection so tests can run without a daemon.
func NewClientForTesting(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{Handlers: make(map[common.UpdateType]Handler)},
	}
}

// ReadForTesting exposes the frame reader for tests.
func ReadForTesting(conn net.Conn) ([]byte, error) {
	return read(conn)
}

// WriteForTesting exposes the frame writer for tests.
func WriteForTesting(conn net.Conn, data []byte) error {
	return write(conn, data)
}

//go:build windows

package hubcli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/nexushub/nexushub/common"
)

// dialPipeFunc points at the real pipe dialer so tests can fake it.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string, timeout *time.Duration) (net.Conn, error) {
	if timeout == nil {
		def := common.DefaultDialTimeout
		timeout = &def
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

// dial establishes a connection to the daemon over the named pipe,
// falling back to TCP.
func dial() (net.Conn, error) {
	if forceTCP() {
		debugLog("forcing TCP connection to %s", tcpAddress())
		return dialFunc("tcp", tcpAddress())
	}
	path := pipePath()
	debugLog("attempting connection via named pipe at %s", path)
	timeout := common.DefaultDialTimeout
	conn, pipeErr := dialPipeFunc(path, &timeout)
	if pipeErr != nil {
		debugLog("named pipe connection failed: %v, falling back to TCP", pipeErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
		}
		return conn, nil
	}
	return conn, nil
}

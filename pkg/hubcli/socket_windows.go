//go:build windows

package hubcli

import (
	"os"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipePathEnv = "NEXUSHUB_PIPE_PATH"

func pipePath() string {
	if path := os.Getenv(pipePathEnv); path != "" {
		return path
	}
	return `\\.\pipe\nexushub`
}

// getConnectionPath returns the path used to probe for a running daemon.
func getConnectionPath() string {
	if forceTCP() {
		return tcpAddress()
	}
	return pipePath()
}

// isDaemonRunning reports whether something answers at the given path.
func isDaemonRunning(path string) bool {
	if forceTCP() {
		conn, err := dialFunc("tcp", path)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
	timeout := 100 * time.Millisecond
	conn, err := winio.DialPipe(path, &timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

//go:build !windows

package hubcli

import (
	"os"
	"path/filepath"

	"github.com/nexushub/nexushub/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "nexushub.sock")
}

// getConnectionPath returns the path used to probe for a running daemon.
func getConnectionPath() string {
	if forceTCP() {
		return tcpAddress()
	}
	return socketPath()
}

// isDaemonRunning reports whether something answers at the given path.
func isDaemonRunning(path string) bool {
	network := "unix"
	if forceTCP() {
		network = "tcp"
	}
	conn, err := dialFunc(network, path)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

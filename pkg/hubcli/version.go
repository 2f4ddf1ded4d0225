package hubcli

import (
	"fmt"
	"os"
)

// VersionCheckEnv suppresses version mismatch warnings when set to any
// non-empty value. Useful for scripts and CI.
const VersionCheckEnv = "NEXUSHUB_SUPPRESS_VERSION_CHECK"

// CheckVersionMismatch warns on stderr when the daemon's version does
// not match the CLI's. It never blocks execution.
func (c *Client) CheckVersionMismatch(expectedVersion string) {
	if expectedVersion == "" {
		return
	}
	if os.Getenv(VersionCheckEnv) != "" {
		return
	}

	daemonVersion, err := c.GetDaemonVersion()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not verify daemon version: %v\n", err)
		return
	}

	if daemonVersion.Version != expectedVersion {
		fmt.Fprintf(os.Stderr, "Warning: CLI version (%s) differs from daemon version (%s)\n",
			expectedVersion, daemonVersion.Version)
		fmt.Fprintf(os.Stderr, "Stop the daemon and rerun to restart it with the new version.\n")
	}
}

package pluginrt

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nexushub/nexushub/common"
)

// SubcommandName is the hidden subcommand the host binary re-execs
// itself with to run a plugin entry point out of process.
const SubcommandName = "plugin-run"

// Entry points every plugin may expose.
const (
	EntryFetch    = "fetch"
	EntryValidate = "validateConnection"
)

// stderrCap bounds how much of a failed subprocess's diagnostic stream
// is carried into the error.
const stderrCap = 2048

var execCommand = exec.CommandContext

// Executor runs plugin entry points in a child process. A separate OS
// process, not a goroutine, so a crashed or hung plugin can never
// corrupt host memory or hold host locks.
type Executor struct {
	l       *log.Logger
	selfExe string
	timeout time.Duration
}

// NewExecutor builds an executor that re-execs the current binary.
// A non-positive timeout selects the default.
func NewExecutor(l *log.Logger, timeout time.Duration) (*Executor, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = common.DefExecTimeoutSecs * time.Second
	}
	return &Executor{l: l, selfExe: exe, timeout: timeout}, nil
}

// Execute runs the named entry point of the plugin at pluginPath and
// returns the subprocess's stdout payload. The config payload travels
// in the environment, never argv, so secrets stay out of process
// listings. A subprocess that outlives the timeout is killed.
func (e *Executor) Execute(ctx context.Context, pluginPath, entryPoint, configPayload string) (string, error) {
	canon, err := ResolvePlugin(pluginPath)
	if err != nil {
		return "", err
	}
	ref := ModuleRef(canon)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := execCommand(ctx, e.selfExe, SubcommandName, "--entrypoint", entryPoint, ref)
	cmd.Env = append(os.Environ(), common.PluginConfigEnv+"="+configPayload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", &ExecError{
			Entry:    entryPoint,
			ExitCode: -1,
			Stderr:   "plugin did not exit within " + e.timeout.String(),
		}
	}
	// A caller-cancelled run keeps its cancellation identity instead of
	// surfacing as a killed-subprocess ExecError.
	if ctx.Err() == context.Canceled {
		return "", ctx.Err()
	}
	if err != nil {
		code := -1
		var xerr *exec.ExitError
		if errors.As(err, &xerr) {
			code = xerr.ExitCode()
		}
		diag := truncate(strings.TrimSpace(stderr.String()), stderrCap)
		if diag == "" {
			diag = err.Error()
		}
		return "", &ExecError{Entry: entryPoint, ExitCode: code, Stderr: diag}
	}
	// The single line on stdout is the sole payload; surrounding
	// whitespace is not part of the contract.
	return strings.TrimSpace(stdout.String()), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

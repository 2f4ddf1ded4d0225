package pluginrt

import (
	"errors"
	"fmt"
)

var (
	// ErrPluginNotFound is returned when a plugin id has no module file
	// in the plugin directory.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrEntryNotDefined is returned by the interpreter when the loaded
	// module does not define the requested entry point.
	ErrEntryNotDefined = errors.New("entry point not defined")

	// ErrInvalidReturnType is returned when an entry point resolves to
	// something other than a string payload.
	ErrInvalidReturnType = errors.New("invalid return type")
)

// PathResolutionError reports a plugin file that could not be resolved
// to a canonical location, including the missing-file case.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("resolve plugin path %q: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

// ExecError reports a plugin subprocess that exited non-zero, crashed
// or was killed on timeout. Stderr carries the captured diagnostic
// stream, truncated to a bounded size.
type ExecError struct {
	Entry    string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("plugin entry %q failed with exit code %d", e.Entry, e.ExitCode)
	}
	return fmt.Sprintf("plugin entry %q failed with exit code %d: %s", e.Entry, e.ExitCode, e.Stderr)
}

// ParseError reports a malformed plugin result payload. Preview holds
// a bounded prefix of the offending payload so logs stay readable.
type ParseError struct {
	Reason  string
	Preview string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse plugin result: %s (payload: %s)", e.Reason, e.Preview)
}

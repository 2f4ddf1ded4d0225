package pluginrt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Windows extended-length path prefixes that canonicalization may
// inject. They must never leak into the module reference handed to
// the interpreter.
const (
	longPathPrefix    = `\\?\`
	uncLongPathPrefix = `\\?\UNC\`
)

// ResolvePlugin resolves a plugin file to its absolute, canonical
// location. Every failure, including a missing file, is a
// *PathResolutionError.
func ResolvePlugin(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	fi, err := os.Stat(canon)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}
	if fi.IsDir() {
		return "", &PathResolutionError{Path: path, Err: fmt.Errorf("%s is a directory", canon)}
	}
	return canon, nil
}

// ModuleRef converts a canonical file path into the reference form the
// embedded interpreter expects: forward slashes, extended-length
// prefix stripped.
func ModuleRef(path string) string {
	if strings.HasPrefix(path, uncLongPathPrefix) {
		path = `\\` + path[len(uncLongPathPrefix):]
	} else if strings.HasPrefix(path, longPathPrefix) {
		path = path[len(longPathPrefix):]
	}
	return strings.ReplaceAll(path, `\`, "/")
}

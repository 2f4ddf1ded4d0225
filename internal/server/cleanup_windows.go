//go:build windows

package server

// cleanupSocket is a no-op on Windows: named pipes disappear with
// their listener.
func cleanupSocket() error {
	return nil
}

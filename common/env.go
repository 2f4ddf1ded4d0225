// Package common provides shared types and constants used across the
// nexushub client-daemon communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for a custom socket path.
	SocketPathEnv = "NEXUSHUB_SOCKET_PATH"

	// TCPPortEnv is the environment variable for a custom TCP port.
	TCPPortEnv = "NEXUSHUB_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "NEXUSHUB_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "NEXUSHUB_DEBUG"

	// PluginConfigEnv is the environment variable through which the
	// plugin subprocess receives its config payload. Secrets travel in
	// the environment rather than argv so they never show up in process
	// listings or shell history.
	PluginConfigEnv = "NEXUSHUB_PLUGIN_CONFIG"

	// RPCSecretEnv is the environment variable holding the bearer token
	// required by the HTTP/WebSocket JSON-RPC bridge.
	RPCSecretEnv = "NEXUSHUB_RPC_SECRET"
)

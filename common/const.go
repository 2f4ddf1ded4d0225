package common

import "time"

// UpdateType identifies a method on the daemon's command surface, and
// doubles as the type tag on updates pushed back to attached clients.
type UpdateType string

const (
	UPDATE_GET_ITEMS       UpdateType = "get_items"
	UPDATE_MARK_READ       UpdateType = "mark_read"
	UPDATE_GET_NOTIFS      UpdateType = "get_notifications"
	UPDATE_DISMISS_NOTIF   UpdateType = "dismiss_notification"
	UPDATE_DISMISS_ALL     UpdateType = "dismiss_all_notifications"
	UPDATE_GET_SETTING     UpdateType = "get_setting"
	UPDATE_SET_SETTING     UpdateType = "set_setting"
	UPDATE_GET_PLUGIN      UpdateType = "get_plugin_config"
	UPDATE_SAVE_PLUGIN     UpdateType = "save_plugin_config"
	UPDATE_LIST_PLUGINS    UpdateType = "list_plugins"
	UPDATE_REFRESH_PLUGIN  UpdateType = "refresh_plugin"
	UPDATE_VALIDATE_PLUGIN UpdateType = "validate_plugin"
	UPDATE_ATTACH          UpdateType = "attach"
	UPDATE_VERSION         UpdateType = "version"

	// UPDATE_ITEMS_UPDATED is pushed to attached clients after every
	// successful poll, carrying the plugin id that produced new data.
	UPDATE_ITEMS_UPDATED UpdateType = "items_updated"
)

// Default scheduler tuning. Overridable through daemon flags.
const (
	// DefHeartbeatSecs is the interval at which the scheduler checks
	// which plugins are due. Individual plugins poll at their own
	// configured interval on top of this heartbeat.
	DefHeartbeatSecs = 30

	// DefPollIntervalSecs is the poll interval assigned to plugin
	// configs that do not specify one.
	DefPollIntervalSecs = 600

	// DefExecTimeoutSecs is the hard cap on a single plugin subprocess
	// run. A plugin that exceeds it is killed and the poll fails.
	DefExecTimeoutSecs = 120

	// DefMaxConcurrentPolls bounds how many plugins may be polled in
	// parallel within one heartbeat tick.
	DefMaxConcurrentPolls = 4
)

// TCPHost is the host used for TCP fallback listeners.
const TCPHost = "127.0.0.1"

// DefaultTCPPort is the port used for TCP fallback when no override is
// set through NEXUSHUB_TCP_PORT. The RPC bridge listens on the next
// port up.
const DefaultTCPPort = 4121

// DefaultDialTimeout bounds client connection attempts.
const DefaultDialTimeout = 5 * time.Second

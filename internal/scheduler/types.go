package scheduler

import (
	"context"
	"errors"

	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// Store is the slice of the persistence layer the poller consumes.
// Every method acquires the store's internal lock for a bounded amount
// of work; no poller code path holds a store call open across a plugin
// subprocess run.
type Store interface {
	GetPluginConfig(pluginId string) (*nexuslib.PluginConfig, error)
	GetEnabledPluginConfigs() ([]*nexuslib.PluginConfig, error)
	UpsertItem(item *nexuslib.Item) error
	HasActiveNotification(itemId, reason string) (bool, error)
	InsertNotification(n *nexuslib.Notification) error
	UpsertPluginConfig(c *nexuslib.PluginConfig) error
	GetAppSetting(key string) (string, bool, error)
}

// Runner executes one plugin entry point out of process.
type Runner interface {
	Execute(ctx context.Context, pluginPath, entryPoint, configPayload string) (string, error)
}

// Unsealer decrypts the sealed credentials payload stored on a plugin
// config row before it is handed to the plugin.
type Unsealer interface {
	Unseal(sealed string) (string, error)
}

// EventSink receives the items-updated completion signal fired once
// per successful poll, carrying the plugin id.
type EventSink interface {
	ItemsUpdated(pluginId string)
}

// Expected, silent outcomes of a poll attempt. They represent ordinary
// unconfigured states: never logged as warnings, never counted as
// errors on the plugin's config row.
var (
	ErrNotConfigured      = errors.New("plugin not configured")
	ErrDisabled           = errors.New("plugin is disabled")
	ErrMissingCredentials = errors.New("plugin has no credentials")
)

// ErrPollInProgress rejects a manual poll of a plugin that is already
// being polled.
var ErrPollInProgress = errors.New("poll already in progress")

// silent also covers context.Canceled: a poll cut short by daemon
// shutdown is not a plugin failure, so it leaves last_error and
// error_count alone. A deadline-exceeded poll still counts.
func silent(err error) bool {
	return errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrDisabled) ||
		errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, context.Canceled)
}

package nexuslib

// Item is a single unit of work aggregated from an external source:
// a ticket, a pull request, a message. Items are globally identified
// by Id and uniquely keyed by (Source, SourceId); re-ingesting the
// same pair updates content fields in place.
type Item struct {
	Id       string `json:"id"`
	Source   string `json:"source"`
	SourceId string `json:"source_id"`
	ItemType string `json:"item_type"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Url      string `json:"url"`
	Author   string `json:"author,omitempty"`
	// Timestamp is the event time reported by the source (unix seconds),
	// not the ingestion time.
	Timestamp int64 `json:"timestamp"`
	Priority  int   `json:"priority"`
	// Metadata is an opaque JSON object serialized by the ingestion path.
	Metadata string `json:"metadata,omitempty"`
	// Tags is a JSON array string, order preserved from the plugin.
	Tags string `json:"tags,omitempty"`
	// IsRead is owned by the user action path. The ingestion path must
	// never reset it (see DB.UpsertItem).
	IsRead    bool  `json:"is_read"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Notification flags an item for the user's attention. At most one
// active (non-dismissed) notification may exist per (ItemId, Reason).
type Notification struct {
	Id     string `json:"id"`
	ItemId string `json:"item_id"`
	// Reason is a machine code, possibly a comma-joined compound
	// (e.g. "assigned,deadline_24h").
	Reason      string `json:"reason"`
	Urgency     string `json:"urgency"`
	IsDismissed bool   `json:"is_dismissed"`
	CreatedAt   int64  `json:"created_at"`
}

// PluginConfig is the per-plugin row driving the polling scheduler.
// It has exactly two writers: the user configuration path and the
// scheduler's poll bookkeeping.
type PluginConfig struct {
	PluginId  string `json:"plugin_id"`
	IsEnabled bool   `json:"is_enabled"`
	// Credentials is the sealed (encrypted) credentials payload, empty
	// when the plugin has not been configured with credentials yet.
	Credentials      string `json:"credentials,omitempty"`
	PollIntervalSecs int64  `json:"poll_interval_secs"`
	// LastPollAt is zero when the plugin has never been polled.
	LastPollAt int64  `json:"last_poll_at,omitempty"`
	LastError  string `json:"last_error,omitempty"`
	ErrorCount int    `json:"error_count"`
	// Settings is an opaque JSON blob of plugin-specific settings.
	Settings string `json:"settings,omitempty"`
}

// HeuristicWeight maps a (source, signal) pair to a priority weight.
// Seeded with defaults at startup; priority scoring itself is a
// forward-looking extension point and has no consumer yet.
type HeuristicWeight struct {
	Id     string `json:"id"`
	Source string `json:"source"`
	Signal string `json:"signal"`
	Weight int    `json:"weight"`
}

// App setting keys consumed by the notification policy.
const (
	SettingFocusModeEnabled   = "focus_mode_enabled"
	SettingFocusModeThreshold = "focus_mode_threshold"
	SettingQuietHoursStart    = "quiet_hours_start"
	SettingQuietHoursEnd      = "quiet_hours_end"
)

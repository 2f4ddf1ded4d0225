package nexuslib

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// DB is the durable keyed store for items, notifications, plugin
// configuration and app settings.
//
// DB is the single mutually-exclusive resource shared between the
// scheduler and the command layer: every method acquires the internal
// mutex, performs a bounded amount of work, and releases it. No caller
// may hold a DB method open across a blocking external call; the
// scheduler's three-phase poll protocol exists to honor that.
type DB struct {
	mu   sync.Mutex
	conn *sql.DB
}

// OpenDB opens or creates the sqlite database at the given path and
// applies the schema.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Single connection: sqlite writes serialize anyway, and a lone
	// connection keeps the mutex the only ordering that matters.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// OpenMemoryDB opens an in-memory database, used by tests.
func OpenMemoryDB() (*DB, error) {
	return OpenDB(":memory:")
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		source_id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		metadata TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(source, source_id)
	);
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		reason TEXT NOT NULL,
		urgency TEXT NOT NULL,
		is_dismissed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS plugin_config (
		plugin_id TEXT PRIMARY KEY,
		is_enabled INTEGER NOT NULL DEFAULT 1,
		credentials TEXT NOT NULL DEFAULT '',
		poll_interval_secs INTEGER NOT NULL DEFAULT 600,
		last_poll_at INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		error_count INTEGER NOT NULL DEFAULT 0,
		settings TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS app_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS heuristic_weights (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		signal TEXT NOT NULL,
		weight INTEGER NOT NULL,
		UNIQUE(source, signal)
	);
	CREATE INDEX IF NOT EXISTS idx_items_source ON items(source);
	CREATE INDEX IF NOT EXISTS idx_items_timestamp ON items(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_items_is_read ON items(is_read);
	CREATE INDEX IF NOT EXISTS idx_notifications_dismissed ON notifications(is_dismissed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// -- Items --

// UpsertItem inserts the item or, on a (source, source_id) conflict,
// updates its content fields in place. The read flag and created_at are
// deliberately excluded from the update set: read state belongs to the
// user action path, never the ingestion path.
func (db *DB) UpsertItem(item *Item) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO items (id, source, source_id, item_type, title, summary, url, author,
			timestamp, priority, metadata, tags, is_read, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(source, source_id) DO UPDATE SET
			title=excluded.title, summary=excluded.summary, url=excluded.url,
			author=excluded.author, timestamp=excluded.timestamp, priority=excluded.priority,
			metadata=excluded.metadata, tags=excluded.tags, updated_at=excluded.updated_at`,
		item.Id, item.Source, item.SourceId, item.ItemType, item.Title, item.Summary,
		item.Url, item.Author, item.Timestamp, item.Priority, item.Metadata, item.Tags,
		boolToInt(item.IsRead), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// DefItemsLimit caps an item listing when the caller does not ask for
// a specific limit.
const DefItemsLimit = 100

// GetItems lists items ordered by recency (timestamp descending),
// optionally filtered by source and read state. A limit of zero or
// less selects DefItemsLimit.
func (db *DB) GetItems(source string, unreadOnly bool, limit int64) ([]*Item, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if limit <= 0 {
		limit = DefItemsLimit
	}
	query := `SELECT id, source, source_id, item_type, title, summary, url, author,
		timestamp, priority, metadata, tags, is_read, created_at, updated_at
		FROM items WHERE 1=1`
	args := []any{}
	if source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}
	if unreadOnly {
		query += " AND is_read = 0"
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		var isRead int
		if err := rows.Scan(&it.Id, &it.Source, &it.SourceId, &it.ItemType, &it.Title,
			&it.Summary, &it.Url, &it.Author, &it.Timestamp, &it.Priority,
			&it.Metadata, &it.Tags, &isRead, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.IsRead = isRead != 0
		items = append(items, &it)
	}
	return items, rows.Err()
}

// MarkItemRead flips the read flag on an item.
func (db *DB) MarkItemRead(itemId string, read bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec("UPDATE items SET is_read = ? WHERE id = ?", boolToInt(read), itemId)
	if err != nil {
		return fmt.Errorf("mark item read: %w", err)
	}
	return nil
}

// -- Notifications --

// InsertNotification stores a new notification. Inserting an id that
// already exists is a no-op.
func (db *DB) InsertNotification(n *Notification) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT OR IGNORE INTO notifications (id, item_id, reason, urgency, is_dismissed, created_at)
		 VALUES (?,?,?,?,?,?)`,
		n.Id, n.ItemId, n.Reason, n.Urgency, boolToInt(n.IsDismissed), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// HasActiveNotification reports whether a non-dismissed notification
// already exists for the given (item, reason) pair. Candidates with an
// active duplicate are suppressed at insertion time.
func (db *DB) HasActiveNotification(itemId, reason string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM notifications WHERE item_id = ? AND reason = ? AND is_dismissed = 0",
		itemId, reason,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has active notification: %w", err)
	}
	return count > 0, nil
}

// GetActiveNotifications lists non-dismissed notifications, newest first.
func (db *DB) GetActiveNotifications() ([]*Notification, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	rows, err := db.conn.Query(
		`SELECT id, item_id, reason, urgency, is_dismissed, created_at
		 FROM notifications WHERE is_dismissed = 0 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	defer rows.Close()

	var notifs []*Notification
	for rows.Next() {
		var n Notification
		var dismissed int
		if err := rows.Scan(&n.Id, &n.ItemId, &n.Reason, &n.Urgency, &dismissed, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.IsDismissed = dismissed != 0
		notifs = append(notifs, &n)
	}
	return notifs, rows.Err()
}

// DismissNotification marks one notification dismissed.
func (db *DB) DismissNotification(notifId string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec("UPDATE notifications SET is_dismissed = 1 WHERE id = ?", notifId)
	if err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	return nil
}

// DismissAllNotifications marks every active notification dismissed.
func (db *DB) DismissAllNotifications() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec("UPDATE notifications SET is_dismissed = 1 WHERE is_dismissed = 0")
	if err != nil {
		return fmt.Errorf("dismiss all notifications: %w", err)
	}
	return nil
}

// -- App settings --

// GetAppSetting returns the setting value and whether the key exists.
func (db *DB) GetAppSetting(key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var value string
	err := db.conn.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get app setting: %w", err)
	}
	return value, true, nil
}

// SetAppSetting inserts or replaces a setting.
func (db *DB) SetAppSetting(key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set app setting: %w", err)
	}
	return nil
}

// -- Plugin config --

// GetPluginConfig returns the config row for a plugin, or nil when the
// plugin has never been configured.
func (db *DB) GetPluginConfig(pluginId string) (*PluginConfig, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.getPluginConfigLocked(pluginId)
}

func (db *DB) getPluginConfigLocked(pluginId string) (*PluginConfig, error) {
	var c PluginConfig
	var enabled int
	err := db.conn.QueryRow(
		`SELECT plugin_id, is_enabled, credentials, poll_interval_secs,
			last_poll_at, last_error, error_count, settings
		 FROM plugin_config WHERE plugin_id = ?`, pluginId,
	).Scan(&c.PluginId, &enabled, &c.Credentials, &c.PollIntervalSecs,
		&c.LastPollAt, &c.LastError, &c.ErrorCount, &c.Settings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plugin config: %w", err)
	}
	c.IsEnabled = enabled != 0
	return &c, nil
}

// UpsertPluginConfig inserts or fully replaces a plugin's config row.
func (db *DB) UpsertPluginConfig(c *PluginConfig) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO plugin_config (plugin_id, is_enabled, credentials, poll_interval_secs,
			last_poll_at, last_error, error_count, settings)
		 VALUES (?,?,?,?,?,?,?,?)
		 ON CONFLICT(plugin_id) DO UPDATE SET
			is_enabled=excluded.is_enabled, credentials=excluded.credentials,
			poll_interval_secs=excluded.poll_interval_secs, last_poll_at=excluded.last_poll_at,
			last_error=excluded.last_error, error_count=excluded.error_count,
			settings=excluded.settings`,
		c.PluginId, boolToInt(c.IsEnabled), c.Credentials, c.PollIntervalSecs,
		c.LastPollAt, c.LastError, c.ErrorCount, c.Settings,
	)
	if err != nil {
		return fmt.Errorf("upsert plugin config: %w", err)
	}
	return nil
}

// GetEnabledPluginConfigs returns configs for plugins that are enabled
// and hold credentials, the only plugins the scheduler considers.
func (db *DB) GetEnabledPluginConfigs() ([]*PluginConfig, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	rows, err := db.conn.Query(
		`SELECT plugin_id, is_enabled, credentials, poll_interval_secs,
			last_poll_at, last_error, error_count, settings
		 FROM plugin_config WHERE is_enabled = 1 AND credentials <> ''`)
	if err != nil {
		return nil, fmt.Errorf("get enabled plugin configs: %w", err)
	}
	defer rows.Close()

	var configs []*PluginConfig
	for rows.Next() {
		var c PluginConfig
		var enabled int
		if err := rows.Scan(&c.PluginId, &enabled, &c.Credentials, &c.PollIntervalSecs,
			&c.LastPollAt, &c.LastError, &c.ErrorCount, &c.Settings); err != nil {
			return nil, fmt.Errorf("scan plugin config: %w", err)
		}
		c.IsEnabled = enabled != 0
		configs = append(configs, &c)
	}
	return configs, rows.Err()
}

// ListPluginConfigs returns every plugin config row.
func (db *DB) ListPluginConfigs() ([]*PluginConfig, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	rows, err := db.conn.Query(
		`SELECT plugin_id, is_enabled, credentials, poll_interval_secs,
			last_poll_at, last_error, error_count, settings
		 FROM plugin_config ORDER BY plugin_id`)
	if err != nil {
		return nil, fmt.Errorf("list plugin configs: %w", err)
	}
	defer rows.Close()

	var configs []*PluginConfig
	for rows.Next() {
		var c PluginConfig
		var enabled int
		if err := rows.Scan(&c.PluginId, &enabled, &c.Credentials, &c.PollIntervalSecs,
			&c.LastPollAt, &c.LastError, &c.ErrorCount, &c.Settings); err != nil {
			return nil, fmt.Errorf("scan plugin config: %w", err)
		}
		c.IsEnabled = enabled != 0
		configs = append(configs, &c)
	}
	return configs, rows.Err()
}

// -- Heuristic weights --

// GetWeights returns the weight rows for one source.
func (db *DB) GetWeights(source string) ([]*HeuristicWeight, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	rows, err := db.conn.Query(
		"SELECT id, source, signal, weight FROM heuristic_weights WHERE source = ?", source)
	if err != nil {
		return nil, fmt.Errorf("get weights: %w", err)
	}
	defer rows.Close()

	var weights []*HeuristicWeight
	for rows.Next() {
		var w HeuristicWeight
		if err := rows.Scan(&w.Id, &w.Source, &w.Signal, &w.Weight); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		weights = append(weights, &w)
	}
	return weights, rows.Err()
}

// UpsertWeight inserts or updates a weight by its (source, signal) key.
func (db *DB) UpsertWeight(w *HeuristicWeight) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO heuristic_weights (id, source, signal, weight) VALUES (?,?,?,?)
		 ON CONFLICT(source, signal) DO UPDATE SET weight=excluded.weight`,
		w.Id, w.Source, w.Signal, w.Weight)
	if err != nil {
		return fmt.Errorf("upsert weight: %w", err)
	}
	return nil
}

// SeedDefaultWeights installs the default (source, signal) weights.
// Idempotent: existing rows are updated in place.
func (db *DB) SeedDefaultWeights() error {
	defaults := []HeuristicWeight{
		{Source: "jira", Signal: "assigned_to_me", Weight: 3},
		{Source: "jira", Signal: "priority_p1_blocker", Weight: 4},
		{Source: "jira", Signal: "mentioned_in_comment", Weight: 2},
		{Source: "jira", Signal: "deadline_24h", Weight: 3},
	}
	for _, w := range defaults {
		w.Id = w.Source + "-" + w.Signal
		if err := db.UpsertWeight(&w); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package nexuslib

import "testing"

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemoryDB()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func makeItem() *Item {
	return &Item{
		Id:        "jira-TEST-1",
		Source:    "jira",
		SourceId:  "TEST-1",
		ItemType:  "ticket",
		Title:     "Fix login bug",
		Summary:   "Users cannot log in with SSO",
		Url:       "https://jira.example.com/browse/TEST-1",
		Author:    "alice",
		Timestamp: 1000,
		Priority:  3,
		Metadata:  `{"status":"open"}`,
		Tags:      `["bug","auth"]`,
		CreatedAt: 900,
		UpdatedAt: 950,
	}
}

func makeNotification() *Notification {
	return &Notification{
		Id:        "notif-1",
		ItemId:    "jira-TEST-1",
		Reason:    "assigned",
		Urgency:   "medium",
		CreatedAt: 1000,
	}
}

func TestUpsertAndGetRoundtrip(t *testing.T) {
	db := testDB(t)
	item := makeItem()
	if err := db.UpsertItem(item); err != nil {
		t.Fatal(err)
	}

	items, err := db.GetItems("", false, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if *got != *item {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", got, item)
	}
}

func TestUpsertConflictPreservesIsRead(t *testing.T) {
	db := testDB(t)
	item := makeItem()
	if err := db.UpsertItem(item); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkItemRead(item.Id, true); err != nil {
		t.Fatal(err)
	}

	// Re-ingest the same (source, source_id) with new content and an
	// incoming is_read=false, as a plugin would send it.
	updated := *item
	updated.Title = "Updated title"
	updated.IsRead = false
	updated.UpdatedAt = 2000
	if err := db.UpsertItem(&updated); err != nil {
		t.Fatal(err)
	}

	items, err := db.GetItems("", false, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].IsRead {
		t.Error("is_read should be preserved on conflict")
	}
	if items[0].Title != "Updated title" {
		t.Errorf("title not updated: %q", items[0].Title)
	}
	if items[0].CreatedAt != item.CreatedAt {
		t.Errorf("created_at should be preserved on conflict, got %d", items[0].CreatedAt)
	}
}

func TestGetItemsFiltersBySource(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertItem(makeItem()); err != nil {
		t.Fatal(err)
	}
	gh := makeItem()
	gh.Id = "github-PR-42"
	gh.Source = "github"
	gh.SourceId = "PR-42"
	if err := db.UpsertItem(gh); err != nil {
		t.Fatal(err)
	}

	jiraOnly, err := db.GetItems("jira", false, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(jiraOnly) != 1 || jiraOnly[0].Source != "jira" {
		t.Errorf("expected only the jira item, got %+v", jiraOnly)
	}
}

func TestGetItemsFiltersUnreadOnly(t *testing.T) {
	db := testDB(t)
	first := makeItem()
	if err := db.UpsertItem(first); err != nil {
		t.Fatal(err)
	}
	second := makeItem()
	second.Id = "jira-TEST-2"
	second.SourceId = "TEST-2"
	second.Timestamp = 2000
	if err := db.UpsertItem(second); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkItemRead(first.Id, true); err != nil {
		t.Fatal(err)
	}

	unread, err := db.GetItems("", true, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].Id != "jira-TEST-2" {
		t.Errorf("expected only the unread item, got %+v", unread)
	}
}

func TestGetItemsOrdersByTimestampDesc(t *testing.T) {
	db := testDB(t)
	for i, ts := range []int64{100, 300, 200} {
		item := makeItem()
		item.Id = "jira-TEST-" + string(rune('0'+i))
		item.SourceId = "TEST-" + string(rune('0'+i))
		item.Timestamp = ts
		if err := db.UpsertItem(item); err != nil {
			t.Fatal(err)
		}
	}

	items, err := db.GetItems("", false, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []int64{300, 200, 100}
	for i, ts := range want {
		if items[i].Timestamp != ts {
			t.Errorf("items[%d].Timestamp = %d, want %d", i, items[i].Timestamp, ts)
		}
	}
}

func TestGetItemsRespectsLimit(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		item := makeItem()
		item.Id = "jira-TEST-" + string(rune('0'+i))
		item.SourceId = "TEST-" + string(rune('0'+i))
		item.Timestamp = int64(1000 + i)
		if err := db.UpsertItem(item); err != nil {
			t.Fatal(err)
		}
	}
	items, err := db.GetItems("", false, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestGetItemsZeroLimitUsesDefault(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertItem(makeItem()); err != nil {
		t.Fatal(err)
	}
	items, err := db.GetItems("", false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item with default limit, got %d", len(items))
	}
	items, err = db.GetItems("", false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item with negative limit, got %d", len(items))
	}
}

func TestInsertNotificationDuplicateIdIgnored(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertItem(makeItem()); err != nil {
		t.Fatal(err)
	}
	n := makeNotification()
	if err := db.InsertNotification(n); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertNotification(n); err != nil {
		t.Fatal(err)
	}
	active, err := db.GetActiveNotifications()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Errorf("expected 1 notification, got %d", len(active))
	}
}

func TestHasActiveNotification(t *testing.T) {
	db := testDB(t)
	item := makeItem()
	if err := db.UpsertItem(item); err != nil {
		t.Fatal(err)
	}

	ok, err := db.HasActiveNotification(item.Id, "assigned")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("no notification inserted yet")
	}

	n := makeNotification()
	if err := db.InsertNotification(n); err != nil {
		t.Fatal(err)
	}
	if ok, _ = db.HasActiveNotification(item.Id, "assigned"); !ok {
		t.Error("expected active notification for (item, assigned)")
	}
	if ok, _ = db.HasActiveNotification(item.Id, "deadline_approaching"); ok {
		t.Error("different reason must not match")
	}

	if err := db.DismissNotification(n.Id); err != nil {
		t.Fatal(err)
	}
	if ok, _ = db.HasActiveNotification(item.Id, "assigned"); ok {
		t.Error("dismissed notification must not count as active")
	}
}

func TestDismissAllNotifications(t *testing.T) {
	db := testDB(t)
	item := makeItem()
	if err := db.UpsertItem(item); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertNotification(makeNotification()); err != nil {
		t.Fatal(err)
	}
	second := makeNotification()
	second.Id = "notif-2"
	second.Reason = "high_priority"
	second.Urgency = "high"
	if err := db.InsertNotification(second); err != nil {
		t.Fatal(err)
	}

	if err := db.DismissAllNotifications(); err != nil {
		t.Fatal(err)
	}
	active, err := db.GetActiveNotifications()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active notifications, got %d", len(active))
	}
}

func TestAppSettingsRoundtrip(t *testing.T) {
	db := testDB(t)

	_, found, err := db.GetAppSetting(SettingFocusModeEnabled)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("setting should not exist yet")
	}

	if err := db.SetAppSetting(SettingFocusModeEnabled, "1"); err != nil {
		t.Fatal(err)
	}
	v, found, err := db.GetAppSetting(SettingFocusModeEnabled)
	if err != nil {
		t.Fatal(err)
	}
	if !found || v != "1" {
		t.Errorf("got (%q, %v), want (\"1\", true)", v, found)
	}

	if err := db.SetAppSetting(SettingFocusModeEnabled, "0"); err != nil {
		t.Fatal(err)
	}
	v, _, _ = db.GetAppSetting(SettingFocusModeEnabled)
	if v != "0" {
		t.Errorf("update failed, got %q", v)
	}
}

func TestGetPluginConfigMissing(t *testing.T) {
	db := testDB(t)
	c, err := db.GetPluginConfig("nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Errorf("expected nil config, got %+v", c)
	}
}

func TestPluginConfigRoundtrip(t *testing.T) {
	db := testDB(t)
	cfg := &PluginConfig{
		PluginId:         "jira",
		IsEnabled:        true,
		Credentials:      `{"token":"abc"}`,
		PollIntervalSecs: 300,
		LastPollAt:       5000,
		Settings:         `{"project":"PROJ"}`,
	}
	if err := db.UpsertPluginConfig(cfg); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetPluginConfig("jira")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("config should exist")
	}
	if *got != *cfg {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestPluginConfigUpdatesOnConflict(t *testing.T) {
	db := testDB(t)
	cfg := &PluginConfig{PluginId: "jira", IsEnabled: true, Credentials: `{"token":"old"}`, PollIntervalSecs: 300}
	if err := db.UpsertPluginConfig(cfg); err != nil {
		t.Fatal(err)
	}
	cfg.Credentials = `{"token":"new"}`
	if err := db.UpsertPluginConfig(cfg); err != nil {
		t.Fatal(err)
	}
	got, _ := db.GetPluginConfig("jira")
	if got.Credentials != `{"token":"new"}` {
		t.Errorf("credentials not updated: %q", got.Credentials)
	}
}

func TestGetEnabledPluginConfigs(t *testing.T) {
	db := testDB(t)
	configs := []*PluginConfig{
		{PluginId: "jira", IsEnabled: true, Credentials: `{"token":"a"}`, PollIntervalSecs: 300},
		{PluginId: "github", IsEnabled: false, Credentials: `{"token":"b"}`, PollIntervalSecs: 300},
		{PluginId: "slack", IsEnabled: true, PollIntervalSecs: 300}, // no credentials
	}
	for _, c := range configs {
		if err := db.UpsertPluginConfig(c); err != nil {
			t.Fatal(err)
		}
	}

	enabled, err := db.GetEnabledPluginConfigs()
	if err != nil {
		t.Fatal(err)
	}
	if len(enabled) != 1 || enabled[0].PluginId != "jira" {
		t.Errorf("expected only jira, got %+v", enabled)
	}
}

func TestSeedDefaultWeightsIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.SeedDefaultWeights(); err != nil {
		t.Fatal(err)
	}
	if err := db.SeedDefaultWeights(); err != nil {
		t.Fatal(err)
	}

	weights, err := db.GetWeights("jira")
	if err != nil {
		t.Fatal(err)
	}
	if len(weights) != 4 {
		t.Fatalf("expected 4 weights, got %d", len(weights))
	}
	bySignal := make(map[string]int, len(weights))
	for _, w := range weights {
		bySignal[w.Signal] = w.Weight
	}
	want := map[string]int{
		"assigned_to_me":       3,
		"priority_p1_blocker":  4,
		"mentioned_in_comment": 2,
		"deadline_24h":         3,
	}
	for signal, weight := range want {
		if bySignal[signal] != weight {
			t.Errorf("weight[%s] = %d, want %d", signal, bySignal[signal], weight)
		}
	}
}

func TestNotificationCascadeOnItemDelete(t *testing.T) {
	db := testDB(t)
	item := makeItem()
	if err := db.UpsertItem(item); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertNotification(makeNotification()); err != nil {
		t.Fatal(err)
	}

	db.mu.Lock()
	_, err := db.conn.Exec("DELETE FROM items WHERE id = ?", item.Id)
	db.mu.Unlock()
	if err != nil {
		t.Fatal(err)
	}

	active, err := db.GetActiveNotifications()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("notifications should cascade-delete with their item, got %d", len(active))
	}
}

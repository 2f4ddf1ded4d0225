package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

type fakePoller struct {
	lastId      string
	count       int
	pollErr     error
	validateOut string
}

func (f *fakePoller) PollNow(_ context.Context, pluginId string) (int, error) {
	f.lastId = pluginId
	return f.count, f.pollErr
}

func (f *fakePoller) Validate(_ context.Context, pluginId string) (string, error) {
	f.lastId = pluginId
	return f.validateOut, nil
}

type fakeSealer struct{}

func (fakeSealer) Seal(plain string) (string, error) { return "sealed:" + plain, nil }

func newTestApi(t *testing.T, poller server.Refresher) (*Api, *server.Pool) {
	t.Helper()
	if err := nexuslib.SetConfigDir(t.TempDir()); err != nil {
		t.Fatalf("SetConfigDir: %v", err)
	}
	db, err := nexuslib.OpenMemoryDB()
	if err != nil {
		t.Fatalf("OpenMemoryDB: %v", err)
	}
	l := log.New(io.Discard, "", 0)
	api, err := NewApi(l, db, poller, fakeSealer{}, "test")
	if err != nil {
		t.Fatalf("NewApi: %v", err)
	}
	t.Cleanup(func() { api.Close() })
	return api, server.NewPool(l)
}

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestGetItemsAndMarkRead(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	item := &nexuslib.Item{
		Id:       "i1",
		Source:   "github",
		SourceId: "42",
		ItemType: "pull_request",
		Title:    "Fix login",
		Url:      "https://example.com/42",
	}
	if err := api.store.UpsertItem(item); err != nil {
		t.Fatal(err)
	}

	utype, res, err := api.getItemsHandler(nil, pool, nil)
	if err != nil {
		t.Fatalf("getItems: %v", err)
	}
	if utype != common.UPDATE_GET_ITEMS {
		t.Errorf("utype = %q", utype)
	}
	items := res.(*common.GetItemsResponse).Items
	if len(items) != 1 || items[0].Id != "i1" {
		t.Fatalf("items = %+v", items)
	}

	_, _, err = api.markReadHandler(nil, pool, marshal(t, &common.MarkReadParams{ItemId: "i1", Read: true}))
	if err != nil {
		t.Fatalf("markRead: %v", err)
	}
	_, res, err = api.getItemsHandler(nil, pool, marshal(t, &common.GetItemsParams{UnreadOnly: true}))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.(*common.GetItemsResponse).Items; len(got) != 0 {
		t.Errorf("unread items = %d, want 0", len(got))
	}
}

func TestMarkReadRequiresItemId(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	_, _, err := api.markReadHandler(nil, pool, marshal(t, &common.MarkReadParams{}))
	if err == nil {
		t.Fatal("expected error for missing item id")
	}
}

func TestNotificationLifecycle(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	if err := api.store.UpsertItem(&nexuslib.Item{Id: "i1", Source: "github", SourceId: "1", Title: "A", Url: "u"}); err != nil {
		t.Fatal(err)
	}
	for _, n := range []*nexuslib.Notification{
		{Id: "n1", ItemId: "i1", Reason: "assigned", Urgency: "high"},
		{Id: "n2", ItemId: "i1", Reason: "mention", Urgency: "medium"},
	} {
		if err := api.store.InsertNotification(n); err != nil {
			t.Fatal(err)
		}
	}

	_, res, err := api.getNotificationsHandler(nil, pool, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.(*common.GetNotificationsResponse).Notifications; len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}

	_, _, err = api.dismissNotificationHandler(nil, pool, marshal(t, &common.DismissNotificationParams{NotificationId: "n1"}))
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	_, res, _ = api.getNotificationsHandler(nil, pool, nil)
	if got := res.(*common.GetNotificationsResponse).Notifications; len(got) != 1 || got[0].Id != "n2" {
		t.Fatalf("after dismiss: %+v", got)
	}

	if _, _, err = api.dismissAllHandler(nil, pool, nil); err != nil {
		t.Fatalf("dismissAll: %v", err)
	}
	_, res, _ = api.getNotificationsHandler(nil, pool, nil)
	if got := res.(*common.GetNotificationsResponse).Notifications; len(got) != 0 {
		t.Errorf("after dismissAll: %d notifications", len(got))
	}
}

func TestSettings(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})

	_, res, err := api.getSettingHandler(nil, pool, marshal(t, &common.SettingParams{Key: "focus_mode_enabled"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.(*common.SettingResponse).Found {
		t.Error("expected missing setting")
	}

	_, _, err = api.setSettingHandler(nil, pool, marshal(t, &common.SettingParams{Key: "focus_mode_enabled", Value: "1"}))
	if err != nil {
		t.Fatalf("setSetting: %v", err)
	}
	_, res, _ = api.getSettingHandler(nil, pool, marshal(t, &common.SettingParams{Key: "focus_mode_enabled"}))
	got := res.(*common.SettingResponse)
	if !got.Found || got.Value != "1" {
		t.Errorf("got %+v", got)
	}
}

func TestSavePluginSealsCredentials(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	body := marshal(t, &common.SavePluginConfigParams{Config: &nexuslib.PluginConfig{
		PluginId:    "github",
		IsEnabled:   true,
		Credentials: "token=abc",
	}})
	if _, _, err := api.savePluginHandler(nil, pool, body); err != nil {
		t.Fatalf("savePlugin: %v", err)
	}

	_, res, err := api.getPluginHandler(nil, pool, marshal(t, &common.PluginIdParams{PluginId: "github"}))
	if err != nil {
		t.Fatal(err)
	}
	cfg := res.(*common.PluginConfigResponse).Config
	if cfg.Credentials != "sealed:token=abc" {
		t.Errorf("credentials = %q, want sealed", cfg.Credentials)
	}
	if cfg.PollIntervalSecs != common.DefPollIntervalSecs {
		t.Errorf("poll interval = %d, want default", cfg.PollIntervalSecs)
	}
}

func TestSavePluginKeepsCredentialsWhenEmpty(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	body := marshal(t, &common.SavePluginConfigParams{Config: &nexuslib.PluginConfig{
		PluginId:    "github",
		IsEnabled:   true,
		Credentials: "token=abc",
	}})
	if _, _, err := api.savePluginHandler(nil, pool, body); err != nil {
		t.Fatalf("savePlugin: %v", err)
	}

	// Toggling a flag with empty credentials must not touch the
	// stored sealed blob.
	body = marshal(t, &common.SavePluginConfigParams{Config: &nexuslib.PluginConfig{
		PluginId:  "github",
		IsEnabled: false,
	}})
	if _, _, err := api.savePluginHandler(nil, pool, body); err != nil {
		t.Fatalf("savePlugin: %v", err)
	}

	_, res, err := api.getPluginHandler(nil, pool, marshal(t, &common.PluginIdParams{PluginId: "github"}))
	if err != nil {
		t.Fatal(err)
	}
	cfg := res.(*common.PluginConfigResponse).Config
	if cfg.Credentials != "sealed:token=abc" {
		t.Errorf("credentials = %q, want original sealed blob", cfg.Credentials)
	}
	if cfg.IsEnabled {
		t.Error("plugin should be disabled after second save")
	}
}

func TestGetPluginNotConfigured(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	_, _, err := api.getPluginHandler(nil, pool, marshal(t, &common.PluginIdParams{PluginId: "nope"}))
	if err == nil {
		t.Fatal("expected error for unconfigured plugin")
	}
}

func TestListPlugins(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	if err := os.WriteFile(filepath.Join(nexuslib.PluginsDir, "jira.js"), []byte("// plugin"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := api.store.UpsertPluginConfig(&nexuslib.PluginConfig{PluginId: "github", IsEnabled: true, PollIntervalSecs: 600}); err != nil {
		t.Fatal(err)
	}

	_, res, err := api.listPluginsHandler(nil, pool, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := res.(*common.ListPluginsResponse)
	if len(got.Configs) != 1 || got.Configs[0].PluginId != "github" {
		t.Errorf("configs = %+v", got.Configs)
	}
	if len(got.Installed) != 1 || got.Installed[0] != "jira" {
		t.Errorf("installed = %v, want [jira]", got.Installed)
	}
}

func TestRefreshPlugin(t *testing.T) {
	poller := &fakePoller{count: 5}
	api, pool := newTestApi(t, poller)

	_, res, err := api.refreshPluginHandler(nil, pool, marshal(t, &common.RefreshPluginParams{PluginId: "github"}))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if poller.lastId != "github" {
		t.Errorf("poller got %q", poller.lastId)
	}
	if got := res.(*common.RefreshPluginResponse); got.ItemCount != 5 {
		t.Errorf("item count = %d, want 5", got.ItemCount)
	}
}

func TestRefreshPluginError(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{pollErr: errors.New("poll already in progress")})
	_, _, err := api.refreshPluginHandler(nil, pool, marshal(t, &common.RefreshPluginParams{PluginId: "github"}))
	if err == nil {
		t.Fatal("expected poll error")
	}
}

func TestValidatePlugin(t *testing.T) {
	poller := &fakePoller{validateOut: "connection ok"}
	api, pool := newTestApi(t, poller)

	_, res, err := api.validatePluginHandler(nil, pool, marshal(t, &common.PluginIdParams{PluginId: "github"}))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := res.(*common.ValidatePluginResponse); got.Output != "connection ok" {
		t.Errorf("output = %q", got.Output)
	}
}

func TestVersionHandler(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	utype, res, err := api.versionHandler(nil, pool, nil)
	if err != nil {
		t.Fatal(err)
	}
	if utype != common.UPDATE_VERSION {
		t.Errorf("utype = %q", utype)
	}
	if got := res.(*common.VersionResponse); got.Version != "test" {
		t.Errorf("version = %q", got.Version)
	}
}

func TestAttachHandler(t *testing.T) {
	api, pool := newTestApi(t, &fakePoller{})
	sconn := server.NewSyncConn(nil)
	if _, _, err := api.attachHandler(sconn, pool, nil); err != nil {
		t.Fatal(err)
	}
	if pool.Count() != 1 {
		t.Errorf("pool count = %d, want 1", pool.Count())
	}
}

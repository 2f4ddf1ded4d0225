package server

import (
	"context"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/pluginrt"
	"github.com/nexushub/nexushub/internal/scheduler"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// Custom JSON-RPC error codes.
const (
	codePluginNotFound = jrpc2.Code(-32001)
	codePollBusy       = jrpc2.Code(-32002)
	codeInvalidParams  = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required, empty means RPC disabled)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Version   string // Daemon version
}

// Refresher triggers an immediate poll of one plugin.
type Refresher interface {
	PollNow(ctx context.Context, pluginId string) (int, error)
	Validate(ctx context.Context, pluginId string) (string, error)
}

// Sealer encrypts a credentials payload before it is stored.
type Sealer interface {
	Seal(plain string) (string, error)
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// RPCServer is the JSON-RPC 2.0 bridge consumed by UI frontends: the
// same command surface as the socket protocol, over HTTP POST and
// WebSocket.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	notifier  *RPCNotifier
	secret    string
	listenAll bool
	version   string
	store     *nexuslib.DB
	poller    Refresher
	sealer    Sealer
}

// NewRPCServer creates the bridge with all method handlers bound.
func NewRPCServer(cfg *RPCConfig, store *nexuslib.DB, poller Refresher, sealer Sealer, notifier *RPCNotifier) *RPCServer {
	rs := &RPCServer{
		notifier:  notifier,
		secret:    cfg.Secret,
		listenAll: cfg.ListenAll,
		version:   cfg.Version,
		store:     store,
		poller:    poller,
		sealer:    sealer,
	}
	rs.methods = handler.Map{
		"system.getVersion":       handler.New(rs.systemGetVersion),
		"item.list":               handler.New(rs.itemList),
		"item.markRead":           handler.New(rs.itemMarkRead),
		"notification.list":       handler.New(rs.notificationList),
		"notification.dismiss":    handler.New(rs.notificationDismiss),
		"notification.dismissAll": handler.New(rs.notificationDismissAll),
		"setting.get":             handler.New(rs.settingGet),
		"setting.set":             handler.New(rs.settingSet),
		"plugin.get":              handler.New(rs.pluginGet),
		"plugin.save":             handler.New(rs.pluginSave),
		"plugin.list":             handler.New(rs.pluginList),
		"plugin.refresh":          handler.New(rs.pluginRefresh),
		"plugin.validate":         handler.New(rs.pluginValidate),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResponse, error) {
	return &common.VersionResponse{Version: rs.version}, nil
}

func (rs *RPCServer) itemList(_ context.Context, p *common.GetItemsParams) (*common.GetItemsResponse, error) {
	items, err := rs.store.GetItems(p.Source, p.UnreadOnly, p.Limit)
	if err != nil {
		return nil, err
	}
	return &common.GetItemsResponse{Items: items}, nil
}

func (rs *RPCServer) itemMarkRead(_ context.Context, p *common.MarkReadParams) (*EmptyResult, error) {
	if p.ItemId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: item_id"}
	}
	if err := rs.store.MarkItemRead(p.ItemId, p.Read); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) notificationList(_ context.Context) (*common.GetNotificationsResponse, error) {
	notifs, err := rs.store.GetActiveNotifications()
	if err != nil {
		return nil, err
	}
	return &common.GetNotificationsResponse{Notifications: notifs}, nil
}

func (rs *RPCServer) notificationDismiss(_ context.Context, p *common.DismissNotificationParams) (*EmptyResult, error) {
	if p.NotificationId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: notification_id"}
	}
	if err := rs.store.DismissNotification(p.NotificationId); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) notificationDismissAll(_ context.Context) (*EmptyResult, error) {
	if err := rs.store.DismissAllNotifications(); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) settingGet(_ context.Context, p *common.SettingParams) (*common.SettingResponse, error) {
	if p.Key == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: key"}
	}
	value, found, err := rs.store.GetAppSetting(p.Key)
	if err != nil {
		return nil, err
	}
	return &common.SettingResponse{Key: p.Key, Value: value, Found: found}, nil
}

func (rs *RPCServer) settingSet(_ context.Context, p *common.SettingParams) (*EmptyResult, error) {
	if p.Key == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: key"}
	}
	if err := rs.store.SetAppSetting(p.Key, p.Value); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) pluginGet(_ context.Context, p *common.PluginIdParams) (*common.PluginConfigResponse, error) {
	if p.PluginId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: plugin_id"}
	}
	cfg, err := rs.store.GetPluginConfig(p.PluginId)
	if err != nil {
		return nil, err
	}
	return &common.PluginConfigResponse{Config: cfg}, nil
}

// pluginSave stores a plugin config row. Credentials arrive in plain
// text and are sealed before they touch the database; empty
// credentials keep the stored sealed blob.
func (rs *RPCServer) pluginSave(_ context.Context, p *common.SavePluginConfigParams) (*EmptyResult, error) {
	if p.Config == nil || p.Config.PluginId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: config.plugin_id"}
	}
	cfg := *p.Config
	if cfg.PollIntervalSecs <= 0 {
		cfg.PollIntervalSecs = common.DefPollIntervalSecs
	}
	if cfg.Credentials == "" {
		prev, err := rs.store.GetPluginConfig(cfg.PluginId)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			cfg.Credentials = prev.Credentials
		}
	} else if rs.sealer != nil {
		sealed, err := rs.sealer.Seal(cfg.Credentials)
		if err != nil {
			return nil, err
		}
		cfg.Credentials = sealed
	}
	if err := rs.store.UpsertPluginConfig(&cfg); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) pluginList(_ context.Context) (*common.ListPluginsResponse, error) {
	configs, err := rs.store.ListPluginConfigs()
	if err != nil {
		return nil, err
	}
	installed, err := pluginrt.ListPlugins()
	if err != nil {
		return nil, err
	}
	return &common.ListPluginsResponse{Configs: configs, Installed: installed}, nil
}

func (rs *RPCServer) pluginRefresh(ctx context.Context, p *common.RefreshPluginParams) (*common.RefreshPluginResponse, error) {
	if p.PluginId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: plugin_id"}
	}
	count, err := rs.poller.PollNow(ctx, p.PluginId)
	if err != nil {
		return nil, refreshError(err)
	}
	return &common.RefreshPluginResponse{PluginId: p.PluginId, ItemCount: count}, nil
}

func (rs *RPCServer) pluginValidate(ctx context.Context, p *common.PluginIdParams) (*common.ValidatePluginResponse, error) {
	if p.PluginId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: plugin_id"}
	}
	out, err := rs.poller.Validate(ctx, p.PluginId)
	if err != nil {
		return nil, refreshError(err)
	}
	return &common.ValidatePluginResponse{PluginId: p.PluginId, Output: out}, nil
}

func refreshError(err error) error {
	switch {
	case errors.Is(err, pluginrt.ErrPluginNotFound):
		return &jrpc2.Error{Code: codePluginNotFound, Message: err.Error()}
	case errors.Is(err, scheduler.ErrPollInProgress):
		return &jrpc2.Error{Code: codePollBusy, Message: err.Error()}
	default:
		return err
	}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}

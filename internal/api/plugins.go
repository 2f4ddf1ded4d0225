package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/pluginrt"
	"github.com/nexushub/nexushub/internal/server"
)

func (s *Api) getPluginHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.PluginIdParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_GET_PLUGIN, nil, err
	}
	if m.PluginId == "" {
		return common.UPDATE_GET_PLUGIN, nil, errors.New("plugin id is required")
	}
	cfg, err := s.store.GetPluginConfig(m.PluginId)
	if err != nil {
		return common.UPDATE_GET_PLUGIN, nil, err
	}
	if cfg == nil {
		return common.UPDATE_GET_PLUGIN, nil, errors.New("plugin not configured")
	}
	return common.UPDATE_GET_PLUGIN, &common.PluginConfigResponse{
		Config: cfg,
	}, nil
}

// savePluginHandler stores a plugin config row, sealing any plain
// credentials before they touch the database. Empty credentials keep
// the stored sealed blob, so clients can toggle flags on a fetched
// config without ever round-tripping secrets.
func (s *Api) savePluginHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.SavePluginConfigParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SAVE_PLUGIN, nil, err
	}
	if m.Config == nil || m.Config.PluginId == "" {
		return common.UPDATE_SAVE_PLUGIN, nil, errors.New("plugin id is required")
	}
	cfg := *m.Config
	if cfg.PollIntervalSecs <= 0 {
		cfg.PollIntervalSecs = common.DefPollIntervalSecs
	}
	if cfg.Credentials == "" {
		prev, err := s.store.GetPluginConfig(cfg.PluginId)
		if err != nil {
			return common.UPDATE_SAVE_PLUGIN, nil, err
		}
		if prev != nil {
			cfg.Credentials = prev.Credentials
		}
	} else if s.sealer != nil {
		sealed, err := s.sealer.Seal(cfg.Credentials)
		if err != nil {
			return common.UPDATE_SAVE_PLUGIN, nil, err
		}
		cfg.Credentials = sealed
	}
	if err := s.store.UpsertPluginConfig(&cfg); err != nil {
		return common.UPDATE_SAVE_PLUGIN, nil, err
	}
	return common.UPDATE_SAVE_PLUGIN, nil, nil
}

func (s *Api) listPluginsHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	configs, err := s.store.ListPluginConfigs()
	if err != nil {
		return common.UPDATE_LIST_PLUGINS, nil, err
	}
	installed, err := pluginrt.ListPlugins()
	if err != nil {
		return common.UPDATE_LIST_PLUGINS, nil, err
	}
	return common.UPDATE_LIST_PLUGINS, &common.ListPluginsResponse{
		Configs:   configs,
		Installed: installed,
	}, nil
}

func (s *Api) refreshPluginHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.RefreshPluginParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_REFRESH_PLUGIN, nil, err
	}
	if m.PluginId == "" {
		return common.UPDATE_REFRESH_PLUGIN, nil, errors.New("plugin id is required")
	}
	count, err := s.poller.PollNow(context.Background(), m.PluginId)
	if err != nil {
		return common.UPDATE_REFRESH_PLUGIN, nil, err
	}
	return common.UPDATE_REFRESH_PLUGIN, &common.RefreshPluginResponse{
		PluginId:  m.PluginId,
		ItemCount: count,
	}, nil
}

func (s *Api) validatePluginHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.PluginIdParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_VALIDATE_PLUGIN, nil, err
	}
	if m.PluginId == "" {
		return common.UPDATE_VALIDATE_PLUGIN, nil, errors.New("plugin id is required")
	}
	out, err := s.poller.Validate(context.Background(), m.PluginId)
	if err != nil {
		return common.UPDATE_VALIDATE_PLUGIN, nil, err
	}
	return common.UPDATE_VALIDATE_PLUGIN, &common.ValidatePluginResponse{
		PluginId: m.PluginId,
		Output:   out,
	}, nil
}

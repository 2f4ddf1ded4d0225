package api

import (
	"encoding/json"
	"errors"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
)

func (s *Api) getSettingHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.SettingParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_GET_SETTING, nil, err
	}
	if m.Key == "" {
		return common.UPDATE_GET_SETTING, nil, errors.New("setting key is required")
	}
	value, found, err := s.store.GetAppSetting(m.Key)
	if err != nil {
		return common.UPDATE_GET_SETTING, nil, err
	}
	return common.UPDATE_GET_SETTING, &common.SettingResponse{
		Key:   m.Key,
		Value: value,
		Found: found,
	}, nil
}

func (s *Api) setSettingHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.SettingParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SET_SETTING, nil, err
	}
	if m.Key == "" {
		return common.UPDATE_SET_SETTING, nil, errors.New("setting key is required")
	}
	if err := s.store.SetAppSetting(m.Key, m.Value); err != nil {
		return common.UPDATE_SET_SETTING, nil, err
	}
	return common.UPDATE_SET_SETTING, nil, nil
}

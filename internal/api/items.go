package api

import (
	"encoding/json"
	"errors"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
)

func (s *Api) getItemsHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.GetItemsParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_GET_ITEMS, nil, err
		}
	}
	items, err := s.store.GetItems(m.Source, m.UnreadOnly, m.Limit)
	if err != nil {
		return common.UPDATE_GET_ITEMS, nil, err
	}
	return common.UPDATE_GET_ITEMS, &common.GetItemsResponse{
		Items: items,
	}, nil
}

func (s *Api) markReadHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.MarkReadParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_MARK_READ, nil, err
	}
	if m.ItemId == "" {
		return common.UPDATE_MARK_READ, nil, errors.New("item id is required")
	}
	if err := s.store.MarkItemRead(m.ItemId, m.Read); err != nil {
		return common.UPDATE_MARK_READ, nil, err
	}
	return common.UPDATE_MARK_READ, nil, nil
}

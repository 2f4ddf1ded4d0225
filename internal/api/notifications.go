package api

import (
	"encoding/json"
	"errors"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
)

func (s *Api) getNotificationsHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	notifs, err := s.store.GetActiveNotifications()
	if err != nil {
		return common.UPDATE_GET_NOTIFS, nil, err
	}
	return common.UPDATE_GET_NOTIFS, &common.GetNotificationsResponse{
		Notifications: notifs,
	}, nil
}

func (s *Api) dismissNotificationHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.DismissNotificationParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_DISMISS_NOTIF, nil, err
	}
	if m.NotificationId == "" {
		return common.UPDATE_DISMISS_NOTIF, nil, errors.New("notification id is required")
	}
	if err := s.store.DismissNotification(m.NotificationId); err != nil {
		return common.UPDATE_DISMISS_NOTIF, nil, err
	}
	return common.UPDATE_DISMISS_NOTIF, nil, nil
}

func (s *Api) dismissAllHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	if err := s.store.DismissAllNotifications(); err != nil {
		return common.UPDATE_DISMISS_ALL, nil, err
	}
	return common.UPDATE_DISMISS_ALL, nil, nil
}

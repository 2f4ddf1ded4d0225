package server

import (
	"github.com/nexushub/nexushub/common"
)

// Events fans the scheduler's completion signals out to both client
// surfaces: attached socket clients and RPC WebSocket sessions.
type Events struct {
	pool     *Pool
	notifier *RPCNotifier
}

func NewEvents(pool *Pool, notifier *RPCNotifier) *Events {
	return &Events{pool: pool, notifier: notifier}
}

// ItemsUpdated broadcasts the items-updated event, fired once per
// successful poll, carrying the plugin id.
func (e *Events) ItemsUpdated(pluginId string) {
	msg := &common.ItemsUpdatedResponse{PluginId: pluginId}
	if e.pool != nil {
		e.pool.Broadcast(MakeResult(common.UPDATE_ITEMS_UPDATED, msg))
	}
	if e.notifier != nil {
		e.notifier.Broadcast("items.updated", msg)
	}
}

package hubcli

import (
	"encoding/json"

	"github.com/nexushub/nexushub/common"
)

// Handler processes a pushed update. Implementations receive the raw
// JSON message and are responsible for unmarshaling it.
type Handler interface {
	Handle(json.RawMessage) error
}

// NewItemsUpdatedHandler creates a handler for items_updated pushes.
// The pluginId filter restricts the callback to one plugin; pass an
// empty string to receive all of them.
func NewItemsUpdatedHandler(pluginId string, callback func(*common.ItemsUpdatedResponse) error) *ItemsUpdatedHandler {
	return &ItemsUpdatedHandler{
		PluginId: pluginId,
		Callback: callback,
	}
}

// ItemsUpdatedHandler invokes a callback whenever a poll cycle lands
// new data for a matching plugin.
type ItemsUpdatedHandler struct {
	PluginId string
	Callback func(*common.ItemsUpdatedResponse) error
}

func (h *ItemsUpdatedHandler) Handle(m json.RawMessage) error {
	var v common.ItemsUpdatedResponse
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	if h.PluginId != "" && v.PluginId != h.PluginId {
		return nil
	}
	return h.Callback(&v)
}

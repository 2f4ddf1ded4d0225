package common

import "github.com/nexushub/nexushub/pkg/nexuslib"

type GetItemsParams struct {
	Source     string `json:"source,omitempty"`
	UnreadOnly bool   `json:"unread_only,omitempty"`
	Limit      int64  `json:"limit,omitempty"`
}

type GetItemsResponse struct {
	Items []*nexuslib.Item `json:"items"`
}

type MarkReadParams struct {
	ItemId string `json:"item_id"`
	Read   bool   `json:"read"`
}

type GetNotificationsResponse struct {
	Notifications []*nexuslib.Notification `json:"notifications"`
}

type DismissNotificationParams struct {
	NotificationId string `json:"notification_id"`
}

type SettingParams struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Found bool   `json:"found"`
}

type PluginIdParams struct {
	PluginId string `json:"plugin_id"`
}

type SavePluginConfigParams struct {
	Config *nexuslib.PluginConfig `json:"config"`
}

type PluginConfigResponse struct {
	Config *nexuslib.PluginConfig `json:"config,omitempty"`
}

type ListPluginsResponse struct {
	Configs []*nexuslib.PluginConfig `json:"configs"`
	// Installed lists plugin ids present in the plugin directory,
	// configured or not.
	Installed []string `json:"installed"`
}

type RefreshPluginParams struct {
	PluginId string `json:"plugin_id"`
}

type RefreshPluginResponse struct {
	PluginId  string `json:"plugin_id"`
	ItemCount int    `json:"item_count"`
}

type ValidatePluginResponse struct {
	PluginId string `json:"plugin_id"`
	Output   string `json:"output"`
}

// ItemsUpdatedResponse is broadcast to attached clients after a
// successful poll cycle for a plugin.
type ItemsUpdatedResponse struct {
	PluginId string `json:"plugin_id"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

package hubcli

import (
	"encoding/json"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

type GetItemsOpts common.GetItemsParams

func (c *Client) GetItems(opts *GetItemsOpts) (*common.GetItemsResponse, error) {
	if opts == nil {
		opts = &GetItemsOpts{}
	}
	return invoke[common.GetItemsResponse](c, common.UPDATE_GET_ITEMS, opts)
}

func (c *Client) MarkRead(itemId string, read bool) error {
	_, err := c.invoke(common.UPDATE_MARK_READ, &common.MarkReadParams{
		ItemId: itemId,
		Read:   read,
	})
	return err
}

func (c *Client) GetNotifications() (*common.GetNotificationsResponse, error) {
	return invoke[common.GetNotificationsResponse](c, common.UPDATE_GET_NOTIFS, nil)
}

func (c *Client) DismissNotification(notificationId string) error {
	_, err := c.invoke(common.UPDATE_DISMISS_NOTIF, &common.DismissNotificationParams{
		NotificationId: notificationId,
	})
	return err
}

func (c *Client) DismissAllNotifications() error {
	_, err := c.invoke(common.UPDATE_DISMISS_ALL, nil)
	return err
}

func (c *Client) GetSetting(key string) (*common.SettingResponse, error) {
	return invoke[common.SettingResponse](c, common.UPDATE_GET_SETTING, &common.SettingParams{Key: key})
}

func (c *Client) SetSetting(key, value string) error {
	_, err := c.invoke(common.UPDATE_SET_SETTING, &common.SettingParams{
		Key:   key,
		Value: value,
	})
	return err
}

func (c *Client) GetPlugin(pluginId string) (*common.PluginConfigResponse, error) {
	return invoke[common.PluginConfigResponse](c, common.UPDATE_GET_PLUGIN, &common.PluginIdParams{PluginId: pluginId})
}

func (c *Client) SavePlugin(config *nexuslib.PluginConfig) error {
	_, err := c.invoke(common.UPDATE_SAVE_PLUGIN, &common.SavePluginConfigParams{Config: config})
	return err
}

func (c *Client) ListPlugins() (*common.ListPluginsResponse, error) {
	return invoke[common.ListPluginsResponse](c, common.UPDATE_LIST_PLUGINS, nil)
}

func (c *Client) RefreshPlugin(pluginId string) (*common.RefreshPluginResponse, error) {
	return invoke[common.RefreshPluginResponse](c, common.UPDATE_REFRESH_PLUGIN, &common.RefreshPluginParams{PluginId: pluginId})
}

func (c *Client) ValidatePlugin(pluginId string) (*common.ValidatePluginResponse, error) {
	return invoke[common.ValidatePluginResponse](c, common.UPDATE_VALIDATE_PLUGIN, &common.PluginIdParams{PluginId: pluginId})
}

// Attach subscribes this connection to pushed updates. Call Listen
// afterwards to consume them.
func (c *Client) Attach() error {
	_, err := c.invoke(common.UPDATE_ATTACH, nil)
	return err
}

func (c *Client) GetDaemonVersion() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}

package cmd

const DESCRIPTION = `
NexusHub aggregates your work items from every tool you use:
issue trackers, code review, chat. Source plugins poll on their
own schedule, new items land in one local inbox, and the
notification pipeline decides what deserves your attention.
`

const (
	ItemsDescription = `The items command lists aggregated work items from the
local inbox. Items arrive through plugin polls; use flags to
filter by source or unread state.

Example:
        nexushub items --source github --unread

`
	ReadDescription = `The read command marks an item as read, or unread with
the --undo flag. Item ids come from "nexushub items".

Example:
        nexushub read <item id>

`
	NotificationsDescription = `The notifications command lists active (undismissed)
notifications raised by the notification pipeline.

Example:
        nexushub notifications

`
	DismissDescription = `The dismiss command dismisses one notification by id, or
every active notification with the --all flag.

Example:
        nexushub dismiss <notification id>
        nexushub dismiss --all

`
	PluginsDescription = `The plugins command lists installed plugins and their
configuration state, including last poll time and error count.

Example:
        nexushub plugins

`
	PluginDescription = `The plugin command manages a single source plugin:
configure credentials and poll interval, enable or disable it,
validate its connection, or inspect its stored config.

Example:
        nexushub plugin configure github --credentials @token.json
        nexushub plugin enable github

`
	RefreshDescription = `The refresh command polls a plugin immediately instead of
waiting for its next scheduled poll. With --all it refreshes
every enabled plugin and reports progress.

Example:
        nexushub refresh github
        nexushub refresh --all

`
	SettingsDescription = `The settings command reads and writes app settings that
drive the notification pipeline, such as quiet hours and focus
mode.

Example:
        nexushub settings set quiet_hours_start 22:00
        nexushub settings get focus_mode_enabled

`
	AttachDescription = `The attach command subscribes to live updates from the
daemon and prints a line whenever a plugin poll lands new
items. Useful for shell integrations and debugging.

Example:
        nexushub attach

`
	DaemonDescription = `The daemon command runs the nexushub background process:
the polling scheduler, the plugin sandbox and the client API
socket. The CLI starts it on demand, so running it by hand is
only needed for service setups.

`
)

package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/nexushub/nexushub/cmd/common"
	"github.com/nexushub/nexushub/internal/pluginrt"
)

// BuildArgs carries build-time identification injected through ldflags.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "nexushub",
		HelpName:              "nexushub",
		Usage:                 "A local-first work item aggregator.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "nexushub <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:        "daemon",
				Usage:       "run the background daemon",
				Description: DaemonDescription,
				Action:      daemon,
				Flags:       daemonFlags,
			},
			{
				// Internal re-exec target for the plugin sandbox. The
				// daemon spawns "nexushub plugin-run <module>" per poll.
				Name:   pluginrt.SubcommandName,
				Hidden: true,
				Action: pluginRun,
				Flags:  pluginRunFlags,
			},
			{
				Name:                   "items",
				Aliases:                []string{"i"},
				Usage:                  "list aggregated work items",
				Action:                 items,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ItemsDescription,
				UseShortOptionHandling: true,
				Flags:                  itemsFlags,
			},
			{
				Name:                   "read",
				Usage:                  "mark an item as read",
				Action:                 markRead,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ReadDescription,
				UseShortOptionHandling: true,
				Flags:                  readFlags,
			},
			{
				Name:               "notifications",
				Aliases:            []string{"n"},
				Usage:              "list active notifications",
				Action:             notifications,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        NotificationsDescription,
			},
			{
				Name:                   "dismiss",
				Usage:                  "dismiss notifications",
				Action:                 dismiss,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            DismissDescription,
				UseShortOptionHandling: true,
				Flags:                  dismissFlags,
			},
			{
				Name:               "plugins",
				Usage:              "list installed plugins",
				Action:             plugins,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        PluginsDescription,
			},
			{
				Name:               "plugin",
				Usage:              "manage a source plugin",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        PluginDescription,
				Subcommands: []cli.Command{
					{
						Name:   "show",
						Usage:  "print a plugin's stored configuration",
						Action: pluginShow,
					},
					{
						Name:   "configure",
						Usage:  "save a plugin's configuration",
						Action: pluginConfigure,
						Flags:  pluginConfigureFlags,
					},
					{
						Name:   "enable",
						Usage:  "enable scheduled polling for a plugin",
						Action: pluginEnable,
					},
					{
						Name:   "disable",
						Usage:  "disable scheduled polling for a plugin",
						Action: pluginDisable,
					},
					{
						Name:   "test",
						Usage:  "validate a plugin's connection",
						Action: pluginTest,
					},
				},
			},
			{
				Name:                   "refresh",
				Aliases:                []string{"r"},
				Usage:                  "poll plugins immediately",
				Action:                 refresh,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            RefreshDescription,
				UseShortOptionHandling: true,
				Flags:                  refreshFlags,
			},
			{
				Name:               "settings",
				Usage:              "read and write app settings",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        SettingsDescription,
				Subcommands: []cli.Command{
					{
						Name:   "get",
						Usage:  "print a setting value",
						Action: settingGet,
					},
					{
						Name:   "set",
						Usage:  "store a setting value",
						Action: settingSet,
					},
				},
			},
			{
				Name:               "attach",
				Usage:              "stream live update events",
				Action:             attach,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AttachDescription,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of nexushub",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:                 items,
		Flags:                  itemsFlags,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}

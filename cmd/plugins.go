package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/nexushub/nexushub/cmd/common"
	comm "github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/pkg/hubcli"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

var (
	credentials  string
	pollInterval int64
	pluginSet    string
	configureOff bool

	pluginConfigureFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "credentials, c",
			Usage:       "plain credentials payload, stored encrypted",
			Destination: &credentials,
		},
		cli.Int64Flag{
			Name:        "interval, i",
			Usage:       "poll interval in seconds",
			Destination: &pollInterval,
			Value:       comm.DefPollIntervalSecs,
		},
		cli.StringFlag{
			Name:        "settings, s",
			Usage:       "plugin-specific settings as a JSON object",
			Destination: &pluginSet,
		},
		cli.BoolFlag{
			Name:        "disabled, d",
			Usage:       "save the plugin without enabling polling (default: false)",
			Destination: &configureOff,
		},
	}

	refreshAll bool

	refreshFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "refresh every configured plugin (default: false)",
			Destination: &refreshAll,
		},
	}
)

func plugins(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugins", "new_client", err)
		return nil
	}
	defer client.Close()
	l, err := client.ListPlugins()
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugins", "list_plugins", err)
		return nil
	}
	if len(l.Installed) == 0 && len(l.Configs) == 0 {
		fmt.Println("nexushub: no plugins installed")
		fmt.Printf("\nDrop a plugin module into %s to install one.\n", nexuslib.PluginsDir)
		return nil
	}
	configured := make(map[string]*nexuslib.PluginConfig, len(l.Configs))
	for _, cfg := range l.Configs {
		configured[cfg.PluginId] = cfg
	}
	txt := "Here are your plugins:"
	txt += "\n\n----------------------------------------------------------------"
	txt += "\n|       Plugin       | Enabled | Interval |      Last Poll      |"
	txt += "\n|--------------------|---------|----------|---------------------|"
	seen := make(map[string]bool, len(l.Installed))
	for _, id := range l.Installed {
		seen[id] = true
		txt += pluginRow(id, configured[id])
	}
	// Configured but not installed: the module file was removed after
	// configuration. Keep showing the row so the state is visible.
	for _, cfg := range l.Configs {
		if !seen[cfg.PluginId] {
			txt += pluginRow(cfg.PluginId+" (!)", cfg)
		}
	}
	txt += "\n----------------------------------------------------------------"
	fmt.Println(txt)
	return nil
}

func pluginRow(id string, cfg *nexuslib.PluginConfig) string {
	if len(id) > 18 {
		id = id[:15] + "..."
	}
	if cfg == nil {
		return fmt.Sprintf(
			"\n|%s|%s|%s|%s|",
			common.Beaut(id, 20),
			common.Beaut("-", 9),
			common.Beaut("-", 10),
			common.Beaut("not configured", 21),
		)
	}
	enabled := "no"
	if cfg.IsEnabled {
		enabled = "yes"
	}
	lastPoll := "never"
	if cfg.LastPollAt > 0 {
		lastPoll = time.Unix(cfg.LastPollAt, 0).Format("2006-01-02 15:04:05")
	}
	if cfg.LastError != "" {
		lastPoll = fmt.Sprintf("failed x%d", cfg.ErrorCount)
	}
	return fmt.Sprintf(
		"\n|%s|%s|%s|%s|",
		common.Beaut(id, 20),
		common.Beaut(enabled, 9),
		common.Beaut(fmt.Sprintf("%ds", cfg.PollIntervalSecs), 10),
		common.Beaut(lastPoll, 21),
	)
}

func pluginShow(ctx *cli.Context) error {
	pluginId, client, err := pluginArg(ctx, "show")
	if client == nil {
		return err
	}
	defer client.Close()
	r, err := client.GetPlugin(pluginId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugin show", "get_plugin", err)
		return nil
	}
	cfg := r.Config
	creds := "not set"
	if cfg.Credentials != "" {
		creds = "set (encrypted)"
	}
	settings := cfg.Settings
	if settings == "" {
		settings = "{}"
	}
	fmt.Printf(`
Plugin Info
Id`+"\t\t"+`: %s
Enabled`+"\t"+`: %t
Poll Interval`+"\t"+`: %ds
Credentials`+"\t"+`: %s
Settings`+"\t"+`: %s
Error Count`+"\t"+`: %d
`,
		cfg.PluginId,
		cfg.IsEnabled,
		cfg.PollIntervalSecs,
		creds,
		settings,
		cfg.ErrorCount,
	)
	return nil
}

func pluginConfigure(ctx *cli.Context) error {
	pluginId, client, err := pluginArg(ctx, "configure")
	if client == nil {
		return err
	}
	defer client.Close()
	creds := credentials
	// An @-prefixed value names a file holding the payload, so tokens
	// never end up in shell history.
	if strings.HasPrefix(creds, "@") {
		b, err := os.ReadFile(creds[1:])
		if err != nil {
			common.PrintRuntimeErr(ctx, "plugin configure", "read_credentials", err)
			return nil
		}
		creds = strings.TrimSpace(string(b))
	}
	err = client.SavePlugin(&nexuslib.PluginConfig{
		PluginId:         pluginId,
		IsEnabled:        !configureOff,
		Credentials:      creds,
		PollIntervalSecs: pollInterval,
		Settings:         pluginSet,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugin configure", "save_plugin", err)
		return nil
	}
	fmt.Printf("nexushub: saved configuration for %s\n", pluginId)
	return nil
}

func pluginEnable(ctx *cli.Context) error {
	return setPluginEnabled(ctx, true)
}

func pluginDisable(ctx *cli.Context) error {
	return setPluginEnabled(ctx, false)
}

// setPluginEnabled flips the enabled flag on a stored config. The
// credentials field is cleared before re-saving: the daemon keeps the
// stored sealed blob when it is empty, so the secret never makes a
// round trip.
func setPluginEnabled(ctx *cli.Context, enabled bool) error {
	name := "disable"
	if enabled {
		name = "enable"
	}
	pluginId, client, err := pluginArg(ctx, name)
	if client == nil {
		return err
	}
	defer client.Close()
	r, err := client.GetPlugin(pluginId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugin "+name, "get_plugin", err)
		return nil
	}
	cfg := *r.Config
	cfg.IsEnabled = enabled
	cfg.Credentials = ""
	if err = client.SavePlugin(&cfg); err != nil {
		common.PrintRuntimeErr(ctx, "plugin "+name, "save_plugin", err)
		return nil
	}
	fmt.Printf("nexushub: %sd %s\n", name, pluginId)
	return nil
}

func pluginTest(ctx *cli.Context) error {
	pluginId, client, err := pluginArg(ctx, "test")
	if client == nil {
		return err
	}
	defer client.Close()
	fmt.Printf("nexushub: validating %s...\n", pluginId)
	r, err := client.ValidatePlugin(pluginId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugin test", "validate_plugin", err)
		return nil
	}
	fmt.Printf("nexushub: %s connection ok: %s\n", r.PluginId, r.Output)
	return nil
}

// pluginArg extracts the plugin id argument and opens a client. A nil
// client means the caller should return the error as is.
func pluginArg(ctx *cli.Context, action string) (string, *hubcli.Client, error) {
	pluginId := ctx.Args().First()
	if pluginId == "" {
		return "", nil, common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no plugin id provided"),
		)
	} else if pluginId == "help" {
		return "", nil, cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugin "+action, "new_client", err)
		return "", nil, nil
	}
	return pluginId, client, nil
}

func refresh(ctx *cli.Context) error {
	pluginId := ctx.Args().First()
	if pluginId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if pluginId == "" && !refreshAll {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no plugin id provided"),
		)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "refresh", "new_client", err)
		return nil
	}
	defer client.Close()
	client.CheckVersionMismatch(currentBuildArgs.Version)
	if !refreshAll {
		r, err := client.RefreshPlugin(pluginId)
		if err != nil {
			common.PrintRuntimeErr(ctx, "refresh", "refresh_plugin", err)
			return nil
		}
		fmt.Printf("nexushub: %s returned %d items\n", r.PluginId, r.ItemCount)
		return nil
	}
	l, err := client.ListPlugins()
	if err != nil {
		common.PrintRuntimeErr(ctx, "refresh", "list_plugins", err)
		return nil
	}
	var enabled []string
	for _, cfg := range l.Configs {
		if cfg.IsEnabled {
			enabled = append(enabled, cfg.PluginId)
		}
	}
	if len(enabled) == 0 {
		fmt.Println("nexushub: no enabled plugins to refresh")
		return nil
	}
	p := mpb.New(mpb.WithWidth(48))
	bar := common.InitRefreshBar(p, int64(len(enabled)))
	results := make([]string, 0, len(enabled))
	for _, id := range enabled {
		r, err := client.RefreshPlugin(id)
		if err != nil {
			results = append(results, fmt.Sprintf("%s: %s", id, err.Error()))
		} else {
			results = append(results, fmt.Sprintf("%s: %d items", r.PluginId, r.ItemCount))
		}
		bar.Increment()
	}
	p.Wait()
	for _, line := range results {
		fmt.Println(line)
	}
	return nil
}

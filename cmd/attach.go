package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/nexushub/nexushub/cmd/common"
	comm "github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/pkg/hubcli"
)

// attach streams items-updated events to the terminal until
// interrupted. A plugin id argument narrows the stream to one source.
func attach(ctx *cli.Context) error {
	pluginId := ctx.Args().First()
	if pluginId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}
	defer client.Close()
	client.CheckVersionMismatch(currentBuildArgs.Version)
	if err = client.Attach(); err != nil {
		common.PrintRuntimeErr(ctx, "attach", "client_attach", err)
		return nil
	}
	if pluginId != "" {
		fmt.Printf(">> Watching for updates from %s <<\n", pluginId)
	} else {
		fmt.Println(">> Watching for updates <<")
	}
	client.Dispatcher().AddHandler(
		comm.UPDATE_ITEMS_UPDATED,
		hubcli.NewItemsUpdatedHandler(pluginId, func(u *comm.ItemsUpdatedResponse) error {
			fmt.Printf("[%s] new items from %s\n",
				time.Now().Format("15:04:05"), u.PluginId)
			return nil
		}),
	)
	if err = client.Listen(); err != nil {
		common.PrintRuntimeErr(ctx, "attach", "listen", err)
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/nexushub/nexushub/cmd/common"
	"github.com/nexushub/nexushub/pkg/hubcli"
)

func settingGet(ctx *cli.Context) error {
	key := ctx.Args().First()
	if key == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no setting key provided"),
		)
	} else if key == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "settings get", "new_client", err)
		return nil
	}
	defer client.Close()
	r, err := client.GetSetting(key)
	if err != nil {
		common.PrintRuntimeErr(ctx, "settings get", "get_setting", err)
		return nil
	}
	if !r.Found {
		fmt.Printf("nexushub: setting %s is not set\n", key)
		return nil
	}
	fmt.Println(r.Value)
	return nil
}

func settingSet(ctx *cli.Context) error {
	key := ctx.Args().First()
	if key == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	value := ctx.Args().Get(1)
	if key == "" || value == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("usage: nexushub settings set <key> <value>"),
		)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "settings set", "new_client", err)
		return nil
	}
	defer client.Close()
	if err = client.SetSetting(key, value); err != nil {
		common.PrintRuntimeErr(ctx, "settings set", "set_setting", err)
		return nil
	}
	fmt.Printf("nexushub: set %s\n", key)
	return nil
}

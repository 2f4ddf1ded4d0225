package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"

	comm "github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/pluginrt"
)

var (
	entryPoint string

	pluginRunFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "entrypoint",
			Usage:       "plugin entry point to invoke",
			Destination: &entryPoint,
			Value:       pluginrt.EntryFetch,
		},
	}
)

// pluginRun is the sandbox side of plugin execution. It must stay
// silent on stdout except for the single result line the parent
// process parses, so logging goes to stderr.
func pluginRun(ctx *cli.Context) error {
	ref := ctx.Args().First()
	if ref == "" {
		return cli.NewExitError("plugin-run: no module reference provided", 1)
	}
	l := log.New(os.Stderr, "", log.LstdFlags)
	out, err := pluginrt.RunEntry(l, ref, entryPoint, os.Getenv(comm.PluginConfigEnv))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("plugin-run: %s", err.Error()), 1)
	}
	fmt.Println(out)
	return nil
}

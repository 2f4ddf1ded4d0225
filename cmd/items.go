package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/nexushub/nexushub/cmd/common"
	"github.com/nexushub/nexushub/pkg/hubcli"
)

var (
	itemSource string
	unreadOnly bool
	itemLimit  int64
	markUnread bool

	itemsFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "source, s",
			Usage:       "only show items from this source plugin",
			Destination: &itemSource,
		},
		cli.BoolFlag{
			Name:        "unread, u",
			Usage:       "only show unread items (default: false)",
			Destination: &unreadOnly,
		},
		cli.Int64Flag{
			Name:        "limit, n",
			Usage:       "maximum number of items to show",
			Destination: &itemLimit,
		},
	}

	readFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "undo, x",
			Usage:       "mark the item unread instead (default: false)",
			Destination: &markUnread,
		},
	}
)

func items(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "items", "new_client", err)
		return nil
	}
	defer client.Close()
	client.CheckVersionMismatch(currentBuildArgs.Version)
	l, err := client.GetItems(&hubcli.GetItemsOpts{
		Source:     itemSource,
		UnreadOnly: unreadOnly,
		Limit:      itemLimit,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "items", "get_items", err)
		return nil
	}
	if len(l.Items) == 0 {
		fmt.Println("nexushub: no items found")
		return nil
	}
	txt := "Here are your work items:"
	txt += "\n\n--------------------------------------------------------------------------------"
	txt += "\n|    Id    |          Title           |  Source  |   Type   |    When    |Read|"
	txt += "\n|----------|--------------------------|----------|----------|------------|----|"
	for _, item := range l.Items {
		title := item.Title
		if n := len(title); n > 24 {
			title = title[:21] + "..."
		}
		id := item.Id
		if len(id) > 8 {
			id = id[:8]
		}
		read := "    "
		if item.IsRead {
			read = " *  "
		}
		txt += fmt.Sprintf(
			"\n|%s|%s|%s|%s|%s|%s|",
			common.Beaut(id, 10),
			common.Beaut(title, 26),
			common.Beaut(item.Source, 10),
			common.Beaut(item.ItemType, 10),
			common.Beaut(time.Unix(item.Timestamp, 0).Format("2006-01-02"), 12),
			read,
		)
	}
	txt += "\n--------------------------------------------------------------------------------"
	txt += "\n\nRun `nexushub read <item-id>` to mark an item as read."
	fmt.Println(txt)
	return nil
}

func markRead(ctx *cli.Context) error {
	itemId := ctx.Args().First()
	if itemId == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no item id provided"),
		)
	} else if itemId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "read", "new_client", err)
		return nil
	}
	defer client.Close()
	itemId, err = resolveItemId(client, itemId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "read", "resolve_item", err)
		return nil
	}
	if err = client.MarkRead(itemId, !markUnread); err != nil {
		common.PrintRuntimeErr(ctx, "read", "mark_read", err)
		return nil
	}
	if markUnread {
		fmt.Printf("nexushub: marked %s as unread\n", itemId)
	} else {
		fmt.Printf("nexushub: marked %s as read\n", itemId)
	}
	return nil
}

// resolveItemId expands a short id prefix, as printed by the items
// table, into the full item id. An exact match always wins.
func resolveItemId(client *hubcli.Client, prefix string) (string, error) {
	l, err := client.GetItems(&hubcli.GetItemsOpts{})
	if err != nil {
		return "", err
	}
	var match string
	for _, item := range l.Items {
		if item.Id == prefix {
			return item.Id, nil
		}
		if strings.HasPrefix(item.Id, prefix) {
			if match != "" {
				return "", fmt.Errorf("item id %s is ambiguous", prefix)
			}
			match = item.Id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no item found with id %s", prefix)
	}
	return match, nil
}

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
	dismissAll bool

	dismissFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "dismiss every active notification (default: false)",
			Destination: &dismissAll,
		},
	}
)

func notifications(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "notifications", "new_client", err)
		return nil
	}
	defer client.Close()
	l, err := client.GetNotifications()
	if err != nil {
		common.PrintRuntimeErr(ctx, "notifications", "get_notifications", err)
		return nil
	}
	if len(l.Notifications) == 0 {
		fmt.Println("nexushub: no active notifications")
		return nil
	}
	txt := "Here are your notifications:"
	txt += "\n\n----------------------------------------------------------------"
	txt += "\n|    Id    |        Reason        | Urgency |        When        |"
	txt += "\n|----------|----------------------|---------|--------------------|"
	for _, n := range l.Notifications {
		id := n.Id
		if len(id) > 8 {
			id = id[:8]
		}
		reason := n.Reason
		if len(reason) > 20 {
			reason = reason[:17] + "..."
		}
		txt += fmt.Sprintf(
			"\n|%s|%s|%s|%s|",
			common.Beaut(id, 10),
			common.Beaut(reason, 22),
			common.Beaut(n.Urgency, 9),
			common.Beaut(time.Unix(n.CreatedAt, 0).Format("2006-01-02 15:04"), 20),
		)
	}
	txt += "\n----------------------------------------------------------------"
	txt += "\n\nRun `nexushub dismiss <notification-id>` to dismiss one."
	fmt.Println(txt)
	return nil
}

func dismiss(ctx *cli.Context) error {
	notifId := ctx.Args().First()
	if notifId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if notifId == "" && !dismissAll {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no notification id provided"),
		)
	}
	client, err := hubcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "dismiss", "new_client", err)
		return nil
	}
	defer client.Close()
	if dismissAll {
		if err = client.DismissAllNotifications(); err != nil {
			common.PrintRuntimeErr(ctx, "dismiss", "dismiss_all", err)
			return nil
		}
		fmt.Println("nexushub: dismissed all notifications")
		return nil
	}
	notifId, err = resolveNotificationId(client, notifId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "dismiss", "resolve_notification", err)
		return nil
	}
	if err = client.DismissNotification(notifId); err != nil {
		common.PrintRuntimeErr(ctx, "dismiss", "dismiss_notification", err)
		return nil
	}
	fmt.Printf("nexushub: dismissed %s\n", notifId)
	return nil
}

func resolveNotificationId(client *hubcli.Client, prefix string) (string, error) {
	l, err := client.GetNotifications()
	if err != nil {
		return "", err
	}
	var match string
	for _, n := range l.Notifications {
		if n.Id == prefix {
			return n.Id, nil
		}
		if strings.HasPrefix(n.Id, prefix) {
			if match != "" {
				return "", fmt.Errorf("notification id %s is ambiguous", prefix)
			}
			match = n.Id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no notification found with id %s", prefix)
	}
	return match, nil
}

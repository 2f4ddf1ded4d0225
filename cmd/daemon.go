package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/nexushub/nexushub/cmd/common"
	comm "github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/api"
	"github.com/nexushub/nexushub/internal/notify"
	"github.com/nexushub/nexushub/internal/pluginrt"
	"github.com/nexushub/nexushub/internal/scheduler"
	"github.com/nexushub/nexushub/internal/server"
	"github.com/nexushub/nexushub/pkg/credman"
	"github.com/nexushub/nexushub/pkg/logger"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

var (
	daemonTCPPort    int
	maxConcurrent    int
	heartbeatSecs    int
	pluginTimeoutSec int

	daemonFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "tcp-port, p",
			Usage:       "TCP fallback port for client connections",
			EnvVar:      comm.TCPPortEnv,
			Destination: &daemonTCPPort,
			Value:       comm.DefaultTCPPort,
		},
		cli.IntFlag{
			Name:        "max-concurrent, c",
			Usage:       "maximum number of plugins polled in parallel",
			Destination: &maxConcurrent,
			Value:       comm.DefMaxConcurrentPolls,
		},
		cli.IntFlag{
			Name:        "heartbeat, b",
			Usage:       "scheduler due-check interval in seconds",
			Destination: &heartbeatSecs,
			Value:       comm.DefHeartbeatSecs,
		},
		cli.IntFlag{
			Name:        "plugin-timeout, t",
			Usage:       "per-poll plugin execution timeout in seconds",
			Destination: &pluginTimeoutSec,
			Value:       comm.DefExecTimeoutSecs,
		},
	}
)

func daemon(ctx *cli.Context) error {
	lg := logger.NewStandardLogger(log.Default())
	defer lg.Close()
	l := lg.Raw()

	db, err := nexuslib.OpenDB(nexuslib.DatabasePath())
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "open_db", err)
		return nil
	}
	if err = db.SeedDefaultWeights(); err != nil {
		db.Close()
		common.PrintRuntimeErr(ctx, "daemon", "seed_weights", err)
		return nil
	}

	cm, err := credman.NewManager()
	if err != nil {
		db.Close()
		common.PrintRuntimeErr(ctx, "daemon", "credential_manager", err)
		return nil
	}

	exec, err := pluginrt.NewExecutor(l, time.Duration(pluginTimeoutSec)*time.Second)
	if err != nil {
		db.Close()
		common.PrintRuntimeErr(ctx, "daemon", "plugin_executor", err)
		return nil
	}

	notifier := server.NewRPCNotifier(l)

	poller := scheduler.NewPoller(l, db, exec, scheduler.Options{
		Heartbeat:     time.Duration(heartbeatSecs) * time.Second,
		MaxConcurrent: maxConcurrent,
		Alerter:       notify.NewExecAlerter(l),
		Unsealer:      cm,
	})

	// RPC bridge requires a shared secret; without one it stays off.
	var rpc *server.RPCServer
	if secret := os.Getenv(comm.RPCSecretEnv); secret != "" {
		rpc = server.NewRPCServer(&server.RPCConfig{
			Secret:  secret,
			Version: currentBuildArgs.Version,
		}, db, poller, cm, notifier)
	} else {
		lg.Info("%s is not set, JSON-RPC bridge disabled", comm.RPCSecretEnv)
	}

	serv := server.NewServer(l, rpc, daemonTCPPort)
	poller.SetEvents(server.NewEvents(serv.Pool(), notifier))

	s, err := api.NewApi(l, db, poller, cm, currentBuildArgs.Version)
	if err != nil {
		db.Close()
		common.PrintRuntimeErr(ctx, "daemon", "new_api", err)
		return nil
	}
	defer s.Close()
	s.RegisterHandlers(serv)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go poller.Run(runCtx)
	return serv.Start(runCtx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/conf"
	"negotiation_seller_agent/internal/service"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "negotiation-seller-agent"
	// Version is the version of the compiled software.
	Version string

	id, _ = os.Hostname()
)

// drainTimeout bounds how long shutdown waits for in-flight messages
const drainTimeout = 10 * time.Second

func newApp(logger log.Logger, hs *http.Server, negotiation *service.NegotiationService) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
		),
		kratos.AfterStop(func(ctx context.Context) error {
			// Let background message handling finish its relay calls
			dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			defer cancel()
			if err := negotiation.Drain(dctx); err != nil {
				logger.Log(log.LevelWarn, "msg", "Stopped before all messages were handled", "error", err)
			}
			return nil
		}),
	)
}

func main() {
	flags, err := parseFlags(os.Args[0], os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	c := config.New(
		config.WithSource(
			file.NewSource(flags.conf),
			env.NewSource(),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	applyDefaults(&bc)
	applyFlags(&bc, flags)

	logger := log.NewFilter(log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	), log.FilterLevel(kratosLevel(bc.Log.Level)))

	app, cleanup, err := wireApp(&bc, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}

// applyDefaults fills configuration sections the config file left out
func applyDefaults(bc *conf.Bootstrap) {
	if bc.Server == nil {
		bc.Server = &conf.Server{}
	}
	if bc.Server.Http == nil {
		bc.Server.Http = &conf.HTTP{}
	}
	if bc.Server.Http.Addr == "" {
		bc.Server.Http.Addr = fmt.Sprintf("0.0.0.0:%d", common.DefaultPort)
	}
	if bc.Agent == nil {
		bc.Agent = &conf.Agent{}
	}
	if bc.Services == nil {
		bc.Services = &conf.Services{}
	}
	if bc.Log == nil {
		bc.Log = &conf.Log{}
	}
	if bc.Log.Level == 0 {
		bc.Log.Level = 2
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cossteam/udpsock/config"
	"github.com/cossteam/udpsock/pkg/udp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var App = &cli.App{
	Name:     "udpsock",
	Usage:    "asynchronous UDP datagram socket toolbox",
	Version:  "0.1.0",
	Commands: []*cli.Command{},
}

var onlyOneSignalHandler = make(chan struct{})

// SetupSignalHandler registers for SIGTERM and SIGINT. A context is returned
// which is canceled on one of these signals. If a second signal is caught, the program
// is terminated with exit code 1.
func SetupSignalHandler() context.Context {
	close(onlyOneSignalHandler) // panics when called twice

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, shutdownSignals...)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1) // second signal. Exit directly.
	}()

	return ctx
}

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT}

func applyConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if ctx.String("config") != "" {
		loaded, err := config.Load(ctx.String("config"))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Apply command line flags, overriding configuration file values
	logLevel := ctx.String("loglevel")
	if logLevel != "" {
		cfg.Loglevel = logLevel
	}

	listen := ctx.String("listen")
	if listen != "" {
		cfg.Listen.Addr = listen
	}

	family := ctx.String("family")
	if family != "" {
		cfg.Listen.Family = family
	}

	if ctx.IsSet("echo") {
		cfg.Listen.Echo = ctx.Bool("echo")
	}

	profile := ctx.String("profile")
	if profile != "" {
		cfg.Listen.Profile = profile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// socketOptions maps a tuning profile onto socket options. The logger is
// attached to every socket built from them.
func socketOptions(c *config.Config, name string, logger *zap.Logger) ([]udp.Option, error) {
	opts := []udp.Option{udp.WithLogger(logger.With(zap.String("component", "socket")))}
	if name == "" {
		return opts, nil
	}

	p, ok := c.Profile(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}

	var spec config.TuningSpec
	if err := p.LoadProfileConfig(&spec); err != nil {
		return nil, fmt.Errorf("failed to decode profile %q: %w", name, err)
	}

	if spec.RecvBuffer > 0 {
		opts = append(opts, udp.WithRecvBuffer(spec.RecvBuffer))
	}
	if spec.SendBuffer > 0 {
		opts = append(opts, udp.WithSendBuffer(spec.SendBuffer))
	}
	return opts, nil
}

package cmd

import (
	"fmt"

	"github.com/cossteam/udpsock/pkg/controller"
	"github.com/cossteam/udpsock/pkg/log"
	"github.com/cossteam/udpsock/pkg/udp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	App.Commands = append(App.Commands, Listen)
}

var Listen = &cli.Command{
	Name:  "listen",
	Usage: "bind a datagram socket and log every datagram it receives",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file path",
		},
		&cli.StringFlag{
			Name:    "loglevel",
			Aliases: []string{"ll"},
			Usage:   "log level (debug info warn error dpanic panic fatal)",
		},
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "local endpoint to bind, host:port",
		},
		&cli.StringFlag{
			Name:    "family",
			Aliases: []string{"f"},
			Usage:   "address family (ipv4 or ipv6)",
		},
		&cli.BoolFlag{
			Name:  "echo",
			Usage: "send every datagram back to its sender",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "tuning profile name from the config file",
		},
	},
	Action: runListen,
}

func runListen(ctx *cli.Context) error {
	c, err := applyConfig(ctx)
	if err != nil {
		return err
	}

	logger, err := log.SetupLogger(c.Loglevel)
	if err != nil {
		return err
	}

	family, err := udp.ParseFamily(c.Listen.Family)
	if err != nil {
		return err
	}

	addr, err := udp.ResolveAddr(c.Listen.Addr)
	if err != nil {
		return fmt.Errorf("failed to resolve listen endpoint %q: %w", c.Listen.Addr, err)
	}

	opts, err := socketOptions(c, c.Listen.Profile, logger)
	if err != nil {
		return err
	}

	listener := controller.NewListener(
		logger.With(zap.String("controller", "listener")),
		family,
		addr,
		c.Listen.Echo,
		controller.WithListenerTuning(opts...),
	)

	ctrl := controller.NewManager(
		logger.With(zap.String("controller", "manager")),
		listener,
	)
	return ctrl.Start(SetupSignalHandler())
}

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/cossteam/udpsock/pkg/controller"
	"github.com/cossteam/udpsock/pkg/log"
	"github.com/cossteam/udpsock/pkg/udp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	App.Commands = append(App.Commands, Send)
}

var Send = &cli.Command{
	Name:      "send",
	Usage:     "send a datagram to a peer",
	ArgsUsage: "<host:port> <payload>",
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
			Name:    "family",
			Aliases: []string{"f"},
			Usage:   "address family (ipv4 or ipv6)",
		},
		&cli.StringFlag{
			Name:  "local",
			Usage: "local endpoint to bind before sending, host:port",
		},
		&cli.BoolFlag{
			Name:  "hex",
			Usage: "decode the payload argument as hex",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of copies to send",
			Value:   1,
		},
		&cli.DurationFlag{
			Name:    "wait",
			Aliases: []string{"w"},
			Usage:   "wait this long for a single reply (0 disables)",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "tuning profile name from the config file",
		},
	},
	Action: runSend,
}

func runSend(ctx *cli.Context) error {
	if ctx.Args().Len() < 2 {
		return fmt.Errorf("usage: send <host:port> <payload>")
	}

	c, err := applyConfig(ctx)
	if err != nil {
		return err
	}

	logger, err := log.SetupLogger(c.Loglevel)
	if err != nil {
		return err
	}

	family, err := udp.ParseFamily(ctx.String("family"))
	if err != nil {
		return err
	}

	peer, err := udp.ResolveAddr(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to resolve peer endpoint %q: %w", ctx.Args().Get(0), err)
	}

	payload := []byte(ctx.Args().Get(1))
	if ctx.Bool("hex") {
		payload, err = hex.DecodeString(ctx.Args().Get(1))
		if err != nil {
			return fmt.Errorf("failed to decode hex payload: %w", err)
		}
	}

	opts, err := socketOptions(c, ctx.String("profile"), logger)
	if err != nil {
		return err
	}

	senderOpts := []controller.SenderOption{
		controller.WithSenderCount(ctx.Int("count")),
		controller.WithSenderReplyWait(ctx.Duration("wait")),
		controller.WithSenderTuning(opts...),
	}
	if v := ctx.String("local"); v != "" {
		local, err := udp.ResolveAddr(v)
		if err != nil {
			return fmt.Errorf("failed to resolve local endpoint %q: %w", v, err)
		}
		senderOpts = append(senderOpts, controller.WithSenderLocal(local))
	}

	sender := controller.NewSender(
		logger.With(zap.String("controller", "sender")),
		family,
		peer,
		payload,
		senderOpts...,
	)

	ctrl := controller.NewManager(
		logger.With(zap.String("controller", "manager")),
		sender,
	)
	return ctrl.Start(SetupSignalHandler())
}

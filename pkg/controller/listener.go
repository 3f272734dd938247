package controller

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cossteam/udpsock/pkg/udp"
	"go.uber.org/zap"
)

var _ Runnable = &listenerController{}

func NewListener(
	logger *zap.Logger,
	family udp.Family,
	addr *udp.Addr,
	echo bool,
	opts ...ListenerOption,
) Runnable {
	lc := &listenerController{
		logger: logger,
		family: family,
		addr:   addr,
		echo:   echo,
	}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

type listenerController struct {
	logger *zap.Logger
	family udp.Family
	addr   *udp.Addr
	echo   bool

	sockOpts []udp.Option
	ready    func(*udp.Addr)
}

func (lc *listenerController) Start(ctx context.Context) error {
	lc.logger.Info("Starting listenerController")

	sock, err := udp.New(lc.family, lc.sockOpts...)
	if err != nil {
		return fmt.Errorf("failed to create socket: %w", err)
	}
	defer sock.Close()

	if err := sock.Bind(lc.addr); err != nil {
		return fmt.Errorf("failed to bind %s: %w", lc.addr, err)
	}

	local, err := sock.LocalAddr()
	if err != nil {
		return err
	}
	lc.logger.Info("listening", zap.Stringer("addr", local), zap.Bool("echo", lc.echo))

	if lc.ready != nil {
		lc.ready(local)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			lc.logger.Info("Shutting down listenerController")
			// Wake the receive blocked in the kernel. Linux answers
			// ENOTCONN for unconnected sockets and applies the state anyway.
			if err := sock.Shutdown(); err != nil {
				lc.logger.Debug("shutdown", zap.Error(err))
			}
		case <-done:
		}
	}()

	buffer := make([]byte, udp.MTU)
	for {
		res := <-sock.ReceiveFrom(buffer)
		if res.Err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(res.Err, udp.ErrTruncated) {
				lc.logger.Warn("datagram dropped",
					zap.Stringer("from", res.From),
					zap.Int("bytes", res.N),
					zap.Error(res.Err),
				)
				continue
			}
			return fmt.Errorf("receive failed: %w", res.Err)
		}

		lc.logger.Info("datagram received",
			zap.Stringer("from", res.From),
			zap.Int("bytes", res.N),
			zap.String("payload", preview(buffer[:res.N])),
		)

		if lc.echo {
			if sres := <-sock.SendTo(buffer[:res.N], res.From); sres.Err != nil {
				lc.logger.Warn("echo failed", zap.Stringer("to", res.From), zap.Error(sres.Err))
			}
		}
	}
}

// preview renders up to 32 payload bytes as hex for log lines.
func preview(p []byte) string {
	const max = 32
	if len(p) <= max {
		return hex.EncodeToString(p)
	}
	return hex.EncodeToString(p[:max]) + "..."
}

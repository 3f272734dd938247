package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/cossteam/udpsock/pkg/udp"
	"go.uber.org/zap"
)

var _ Runnable = &senderController{}

func NewSender(
	logger *zap.Logger,
	family udp.Family,
	peer *udp.Addr,
	payload []byte,
	opts ...SenderOption,
) Runnable {
	sc := &senderController{
		logger:  logger,
		family:  family,
		peer:    peer,
		payload: payload,
		count:   1,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

type senderController struct {
	logger  *zap.Logger
	family  udp.Family
	peer    *udp.Addr
	payload []byte

	local     *udp.Addr
	count     int
	replyWait time.Duration
	sockOpts  []udp.Option
}

func (sc *senderController) Start(ctx context.Context) error {
	sc.logger.Info("Starting senderController")

	sock, err := udp.New(sc.family, sc.sockOpts...)
	if err != nil {
		return fmt.Errorf("failed to create socket: %w", err)
	}
	defer sock.Close()

	if sc.local != nil {
		if err := sock.Bind(sc.local); err != nil {
			return fmt.Errorf("failed to bind %s: %w", sc.local, err)
		}
	}

	for i := 0; i < sc.count; i++ {
		select {
		case res := <-sock.SendTo(sc.payload, sc.peer):
			if res.Err != nil {
				return fmt.Errorf("send failed: %w", res.Err)
			}
			sc.logger.Info("datagram sent", zap.Stringer("to", sc.peer), zap.Int("bytes", res.N))
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if local, err := sock.LocalAddr(); err == nil {
		sc.logger.Debug("source endpoint", zap.Stringer("addr", local))
	}

	if sc.replyWait <= 0 {
		return nil
	}

	buffer := make([]byte, udp.MTU)
	recv := sock.ReceiveFrom(buffer)

	timer := time.NewTimer(sc.replyWait)
	defer timer.Stop()

	select {
	case res := <-recv:
		if res.Err != nil {
			return fmt.Errorf("reply receive failed: %w", res.Err)
		}
		sc.logger.Info("reply received",
			zap.Stringer("from", res.From),
			zap.Int("bytes", res.N),
			zap.String("payload", preview(buffer[:res.N])),
		)
		return nil
	case <-timer.C:
		// Unblock the pending receive before the descriptor goes away.
		if err := sock.Shutdown(); err != nil {
			sc.logger.Debug("shutdown", zap.Error(err))
		}
		return fmt.Errorf("no reply from %s within %s", sc.peer, sc.replyWait)
	case <-ctx.Done():
		if err := sock.Shutdown(); err != nil {
			sc.logger.Debug("shutdown", zap.Error(err))
		}
		return ctx.Err()
	}
}

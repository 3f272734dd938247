package controller

import (
	"time"

	"github.com/cossteam/udpsock/pkg/udp"
)

type SenderOption func(*senderController)

// WithSenderLocal binds the sending socket to a fixed local endpoint instead
// of letting the OS pick one on first send.
func WithSenderLocal(addr *udp.Addr) SenderOption {
	return func(sc *senderController) {
		sc.local = addr
	}
}

// WithSenderCount repeats the payload count times. Values below one are
// treated as one.
func WithSenderCount(count int) SenderOption {
	return func(sc *senderController) {
		if count > 0 {
			sc.count = count
		}
	}
}

// WithSenderReplyWait keeps the socket open after the last send and waits up
// to d for a single reply datagram.
func WithSenderReplyWait(d time.Duration) SenderOption {
	return func(sc *senderController) {
		sc.replyWait = d
	}
}

// WithSenderTuning forwards socket options to the sender's socket.
func WithSenderTuning(opts ...udp.Option) SenderOption {
	return func(sc *senderController) {
		sc.sockOpts = append(sc.sockOpts, opts...)
	}
}

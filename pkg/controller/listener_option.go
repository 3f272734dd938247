package controller

import "github.com/cossteam/udpsock/pkg/udp"

type ListenerOption func(*listenerController)

// WithListenerReady registers a callback invoked with the bound endpoint once
// the listener is about to receive. Useful when binding to port 0.
func WithListenerReady(fn func(*udp.Addr)) ListenerOption {
	return func(lc *listenerController) {
		lc.ready = fn
	}
}

// WithListenerTuning forwards socket options to the listener's socket.
func WithListenerTuning(opts ...udp.Option) ListenerOption {
	return func(lc *listenerController) {
		lc.sockOpts = append(lc.sockOpts, opts...)
	}
}

// Package udp wraps a single UDP socket descriptor with an asynchronous,
// completion-based API.
//
// A Socket is created unbound for one address family, optionally bound once,
// and then drives sends and receives through one-shot result channels: every
// SendTo and ReceiveFrom returns a channel that delivers exactly one
// completion and is then closed. The package adds no queueing, retries,
// timeouts, or protocol framing on top of the operating system; datagram
// boundaries, delivery order, and error codes are whatever the kernel
// provides. Shutdown and Close are split the same way the OS splits them:
// Shutdown stops traffic and wakes blocked receives, Close releases the
// descriptor exactly once.
//
// The implementation talks to BSD socket system calls directly and therefore
// only builds on unix-like platforms.
package udp

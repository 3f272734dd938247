//go:build unix

package udp

import (
	"fmt"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MTU is the buffer size the bundled controllers receive into. Large enough
// for jumbo frames; datagrams beyond it fail with ErrTruncated.
const MTU = 9001

// Socket owns one UDP descriptor from creation to release.
//
// SendTo and ReceiveFrom are asynchronous: each returns a channel that yields
// exactly one completion and is then closed. When several operations are
// outstanding the kernel decides which datagram lands in which receive and in
// what order completions fire; the Socket adds no queueing, locking, or
// reordering of its own. Bind is a configuration call and is not synchronized
// against concurrent use of the same socket.
//
// Close releases the descriptor but does not wake operations already blocked
// in the kernel. Call Shutdown first when operations may be in flight.
type Socket struct {
	family Family
	fd     int
	l      *zap.Logger

	// written only by Bind, before traffic starts
	bound bool

	disposed atomic.Bool
}

type options struct {
	logger  *zap.Logger
	recvBuf int
	sendBuf int
}

// Option tunes a Socket at creation time.
type Option func(*options)

// WithLogger attaches a logger to the socket. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecvBuffer sets SO_RCVBUF before the socket is handed out.
func WithRecvBuffer(bytes int) Option {
	return func(o *options) { o.recvBuf = bytes }
}

// WithSendBuffer sets SO_SNDBUF before the socket is handed out.
func WithSendBuffer(bytes int) Option {
	return func(o *options) { o.sendBuf = bytes }
}

// New creates an unbound UDP socket for the given address family. Anything
// other than IPv4 or IPv6 fails with ErrInvalidFamily.
func New(family Family, opts ...Option) (*Socket, error) {
	if family != IPv4 && family != IPv6 {
		return nil, opError("socket", nil, fmt.Errorf("%w: %d", ErrInvalidFamily, family))
	}

	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	syscall.ForkLock.Lock()
	fd, err := unix.Socket(family.af(), unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err == nil {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.Unlock()
	if err != nil {
		return nil, opError("socket", nil, err)
	}

	s := &Socket{
		family: family,
		fd:     fd,
		l:      o.logger,
	}

	if err := s.setBuffers(o); err != nil {
		unix.Close(fd)
		return nil, err
	}

	s.l.Debug("socket created", zap.Stringer("family", family), zap.Int("fd", fd))
	return s, nil
}

func (s *Socket) setBuffers(o *options) error {
	if o.recvBuf > 0 {
		if err := unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_RCVBUF, o.recvBuf); err != nil {
			return opError("setsockopt", nil, err)
		}
	}
	if o.sendBuf > 0 {
		if err := unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, o.sendBuf); err != nil {
			return opError("setsockopt", nil, err)
		}
	}
	return nil
}

// Family reports the addressing scheme fixed at creation.
func (s *Socket) Family() Family {
	return s.family
}

// Bind attaches the socket to a local endpoint. A nil addr binds to the
// family's unspecified address with an OS-chosen port. A bound socket cannot
// be rebound: the second call fails with ErrAlreadyBound. A failed bind
// leaves the socket unbound and may be retried.
func (s *Socket) Bind(addr *Addr) error {
	if s.disposed.Load() {
		return opError("bind", addr, ErrClosed)
	}
	if s.bound {
		return opError("bind", addr, ErrAlreadyBound)
	}

	sa, err := sockaddr(s.family, addr)
	if err != nil {
		return opError("bind", addr, err)
	}
	if sa == nil {
		sa = wildcard(s.family)
	}
	if err := unix.Bind(s.fd, sa); err != nil {
		return opError("bind", addr, err)
	}
	s.bound = true

	s.l.Debug("socket bound", zap.Stringer("addr", addr))
	return nil
}

// SendTo transmits p as a single datagram to raddr. The returned channel
// yields exactly one SendResult and is then closed; p must not be modified
// until then. A nil raddr is passed through to the kernel, which refuses it
// on an unconnected socket. A count short of len(p) completes with
// ErrShortSend and is never retried.
func (s *Socket) SendTo(p []byte, raddr *Addr) <-chan SendResult {
	ch := make(chan SendResult, 1)

	if s.disposed.Load() {
		ch <- SendResult{Err: opError("sendto", raddr, ErrClosed)}
		close(ch)
		return ch
	}
	sa, err := sockaddr(s.family, raddr)
	if err != nil {
		ch <- SendResult{Err: opError("sendto", raddr, err)}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		n, err := s.sendmsg(p, sa)
		if err != nil {
			ch <- SendResult{N: n, Err: opError("sendto", raddr, err)}
			return
		}
		ch <- SendResult{N: n}
	}()
	return ch
}

func (s *Socket) sendmsg(p []byte, sa unix.Sockaddr) (int, error) {
	for {
		n, err := unix.SendmsgN(s.fd, p, nil, sa, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n != len(p) {
			return n, ErrShortSend
		}
		return n, nil
	}
}

// ReceiveFrom waits for one datagram and copies it into p. The returned
// channel yields exactly one ReceiveResult and is then closed; p must not be
// read until then. A datagram longer than p completes with ErrTruncated
// after len(p) bytes have been copied. A receive woken by Shutdown completes
// with ErrShutdown.
func (s *Socket) ReceiveFrom(p []byte) <-chan ReceiveResult {
	ch := make(chan ReceiveResult, 1)

	if s.disposed.Load() {
		ch <- ReceiveResult{Err: opError("recvfrom", nil, ErrClosed)}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		n, flags, from, err := s.recvmsg(p)
		if err != nil {
			ch <- ReceiveResult{Err: opError("recvfrom", nil, err)}
			return
		}

		sender := fromSockaddr(from)
		if sender == nil {
			// A nameless zero-byte read is how the kernel reports a
			// shutdown wakeup on an unconnected socket; real empty
			// datagrams arrive with their source attached.
			ch <- ReceiveResult{Err: opError("recvfrom", nil, ErrShutdown)}
			return
		}
		if flags&unix.MSG_TRUNC != 0 {
			ch <- ReceiveResult{N: n, From: sender, Err: opError("recvfrom", sender, ErrTruncated)}
			return
		}
		ch <- ReceiveResult{N: n, From: sender}
	}()
	return ch
}

func (s *Socket) recvmsg(p []byte) (int, int, unix.Sockaddr, error) {
	for {
		n, _, flags, from, err := unix.Recvmsg(s.fd, p, nil, 0)
		if err == unix.EINTR {
			continue
		}
		return n, flags, from, err
	}
}

// Shutdown stops both directions of the socket without releasing the
// descriptor, waking any blocked receive. The OS result is returned
// unfiltered: Linux reports ENOTCONN for unconnected UDP sockets even though
// the shutdown state was applied, and repeated calls are equally the OS's
// business.
func (s *Socket) Shutdown() error {
	if s.disposed.Load() {
		return opError("shutdown", nil, ErrClosed)
	}
	if err := unix.Shutdown(s.fd, unix.SHUT_RDWR); err != nil {
		return opError("shutdown", nil, err)
	}

	s.l.Debug("socket shut down", zap.Int("fd", s.fd))
	return nil
}

// Close releases the socket descriptor. Only the first call has any effect
// and no call ever returns an error, so Close can back deferred cleanup on
// every exit path. Operations started after Close complete with ErrClosed.
func (s *Socket) Close() error {
	if !s.disposed.CompareAndSwap(false, true) {
		return nil
	}

	if err := unix.Close(s.fd); err != nil {
		s.l.Warn("failed to release descriptor", zap.Int("fd", s.fd), zap.Error(err))
		return nil
	}

	s.l.Debug("socket closed", zap.Int("fd", s.fd))
	return nil
}

// LocalAddr reports the socket's local endpoint as the OS sees it: the
// unspecified address before any bind, the bound endpoint after Bind, or the
// OS-assigned ephemeral endpoint after a send from an unbound socket.
func (s *Socket) LocalAddr() (*Addr, error) {
	if s.disposed.Load() {
		return nil, opError("getsockname", nil, ErrClosed)
	}
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, opError("getsockname", nil, err)
	}
	return fromSockaddr(sa), nil
}

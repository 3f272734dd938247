package udp

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by Socket operations. OS-level causes are wrapped
// next to these, so callers can match either with errors.Is.
var (
	ErrInvalidFamily  = errors.New("udp: invalid address family")
	ErrAlreadyBound   = errors.New("udp: socket already bound")
	ErrFamilyMismatch = errors.New("udp: endpoint family does not match socket family")
	ErrTruncated      = errors.New("udp: datagram truncated to buffer size")
	ErrShortSend      = errors.New("udp: short send")
	ErrShutdown       = errors.New("udp: socket has been shut down")
	ErrClosed         = errors.New("udp: use of closed socket")
)

// OpError ties a failed socket operation to the endpoint involved, following
// the shape of net.OpError. Op is the BSD-style operation name (socket, bind,
// sendto, recvfrom, shutdown, setsockopt, getsockname).
type OpError struct {
	Op   string
	Addr *Addr
	Err  error
}

func (e *OpError) Error() string {
	if e.Addr == nil {
		return fmt.Sprintf("udp %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("udp %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, addr *Addr, err error) *OpError {
	return &OpError{Op: op, Addr: addr, Err: err}
}

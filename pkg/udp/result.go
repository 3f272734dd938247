package udp

// SendResult is the single completion value of a SendTo operation. N is the
// number of bytes the kernel accepted.
type SendResult struct {
	N   int
	Err error
}

// ReceiveResult is the single completion value of a ReceiveFrom operation.
// N is the number of bytes copied into the caller's buffer and From is the
// datagram's source endpoint. From is also set on ErrTruncated completions;
// it is nil when no datagram was involved, such as a shutdown wakeup.
type ReceiveResult struct {
	N    int
	From *Addr
	Err  error
}

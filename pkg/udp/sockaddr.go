//go:build unix

package udp

import (
	"net"

	"golang.org/x/sys/unix"
)

func (f Family) af() int {
	if f == IPv6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

// sockaddr builds the kernel form of addr in the socket's family. A nil addr
// maps to a nil sockaddr so unaddressed sends surface the kernel's own
// refusal; a nil IP maps to the family's unspecified address. An IP that is
// not representable in the family fails with ErrFamilyMismatch.
func sockaddr(f Family, addr *Addr) (unix.Sockaddr, error) {
	if addr == nil {
		return nil, nil
	}

	switch f {
	case IPv4:
		sa := &unix.SockaddrInet4{Port: int(addr.Port)}
		if addr.IP != nil {
			ip4 := addr.IP.To4()
			if ip4 == nil {
				return nil, ErrFamilyMismatch
			}
			copy(sa.Addr[:], ip4)
		}
		return sa, nil
	case IPv6:
		sa := &unix.SockaddrInet6{Port: int(addr.Port)}
		if addr.IP != nil {
			ip16 := addr.IP.To16()
			if ip16 == nil {
				return nil, ErrFamilyMismatch
			}
			copy(sa.Addr[:], ip16)
		}
		return sa, nil
	}
	return nil, ErrInvalidFamily
}

// wildcard is the any-address endpoint a nil bind target falls back to.
func wildcard(f Family) unix.Sockaddr {
	if f == IPv6 {
		return &unix.SockaddrInet6{}
	}
	return &unix.SockaddrInet4{}
}

// fromSockaddr converts a kernel-reported address. It returns nil for the
// nameless source a shutdown wakeup reports.
func fromSockaddr(sa unix.Sockaddr) *Addr {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return NewAddr(net.IP(v.Addr[:]), uint16(v.Port))
	case *unix.SockaddrInet6:
		return NewAddr(net.IP(v.Addr[:]), uint16(v.Port))
	}
	return nil
}

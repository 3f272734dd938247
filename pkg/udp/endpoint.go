package udp

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
)

// Addr is a UDP endpoint, an IP address and port pair. The zero Port and a
// nil or unspecified IP stand for "let the OS choose" when binding.
type Addr struct {
	IP   net.IP
	Port uint16
}

var (
	_ net.Addr                   = &Addr{}
	_ encoding.BinaryMarshaler   = &Addr{}
	_ encoding.BinaryUnmarshaler = &Addr{}
)

func NewAddr(ip net.IP, port uint16) *Addr {
	addr := Addr{IP: make([]byte, net.IPv6len), Port: port}
	copy(addr.IP, ip.To16())
	return &addr
}

// ResolveAddr resolves a "host:port" string into an endpoint.
func ResolveAddr(s string) (*Addr, error) {
	ua, err := net.ResolveUDPAddr("udp", s)
	if err != nil {
		return nil, err
	}
	return FromUDPAddr(ua), nil
}

func FromUDPAddr(ua *net.UDPAddr) *Addr {
	if ua == nil {
		return nil
	}
	return &Addr{IP: ua.IP, Port: uint16(ua.Port)}
}

func (a *Addr) Network() string {
	return "udp"
}

func (a *Addr) String() string {
	if a == nil {
		return "<nil>"
	}
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(int(a.Port)))
}

func (a *Addr) UDPAddr() *net.UDPAddr {
	if a == nil {
		return nil
	}
	return &net.UDPAddr{
		IP:   a.IP,
		Port: int(a.Port),
	}
}

func (a *Addr) Copy() *Addr {
	if a == nil {
		return nil
	}

	nu := Addr{
		Port: a.Port,
		IP:   make(net.IP, len(a.IP)),
	}

	copy(nu.IP, a.IP)
	return &nu
}

// MarshalBinary encodes the endpoint as ip||port in network byte order:
// 6 bytes for IPv4, 18 for IPv6.
func (a *Addr) MarshalBinary() ([]byte, error) {
	ipBytes := a.IP.To4()
	if ipBytes == nil {
		ipBytes = a.IP.To16()
		if ipBytes == nil {
			return nil, fmt.Errorf("invalid IP address")
		}
	}
	b := make([]byte, 0, len(ipBytes)+2)
	b = append(b, ipBytes...)
	b = binary.BigEndian.AppendUint16(b, a.Port)
	return b, nil
}

func (a *Addr) UnmarshalBinary(data []byte) error {
	switch len(data) {
	case net.IPv4len + 2:
		a.IP = net.IPv4(data[0], data[1], data[2], data[3])
		a.Port = binary.BigEndian.Uint16(data[net.IPv4len:])
	case net.IPv6len + 2:
		a.IP = append(net.IP(nil), data[:net.IPv6len]...)
		a.Port = binary.BigEndian.Uint16(data[net.IPv6len:])
	default:
		return fmt.Errorf("invalid endpoint encoding length %d", len(data))
	}
	return nil
}

func (a *Addr) Equals(t *Addr) bool {
	if t == nil || a == nil {
		return t == nil && a == nil
	}
	return a.IP.Equal(t.IP) && a.Port == t.Port
}

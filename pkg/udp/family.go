package udp

import (
	"fmt"
	"strings"
)

// Family selects the addressing scheme a socket is created with. The zero
// value is deliberately not a valid family.
type Family uint8

const (
	IPv4 Family = iota + 1
	IPv6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "invalid"
	}
}

// ParseFamily maps the spellings accepted in flags and config files onto a
// Family. The empty string means IPv4.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "", "ipv4", "udp4", "4":
		return IPv4, nil
	case "ipv6", "udp6", "6":
		return IPv6, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFamily, s)
}

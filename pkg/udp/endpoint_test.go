package udp

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddrString(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9000", NewAddr(net.ParseIP("127.0.0.1"), 9000).String())
	assert.Equal(t, "[::1]:53", NewAddr(net.ParseIP("::1"), 53).String())
	assert.Equal(t, "<nil>", (*Addr)(nil).String())
	assert.Equal(t, "udp", NewAddr(net.ParseIP("::1"), 53).Network())
}

func TestAddrMarshalBinary(t *testing.T) {
	t.Run("ipv4", func(t *testing.T) {
		a := NewAddr(net.ParseIP("10.1.2.3"), 4500)
		b, err := a.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, b, net.IPv4len+2)

		var back Addr
		require.NoError(t, back.UnmarshalBinary(b))
		assert.True(t, a.Equals(&back), "got %s, want %s", &back, a)
	})

	t.Run("ipv6", func(t *testing.T) {
		a := NewAddr(net.ParseIP("fd00::1234"), 19302)
		b, err := a.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, b, net.IPv6len+2)

		var back Addr
		require.NoError(t, back.UnmarshalBinary(b))
		assert.True(t, a.Equals(&back), "got %s, want %s", &back, a)
	})
}

func TestAddrUnmarshalBinaryRejectsBadLength(t *testing.T) {
	var a Addr
	assert.Error(t, a.UnmarshalBinary(nil))
	assert.Error(t, a.UnmarshalBinary(make([]byte, 5)))
	assert.Error(t, a.UnmarshalBinary(make([]byte, 17)))
}

func TestAddrCopy(t *testing.T) {
	a := NewAddr(net.ParseIP("192.168.0.7"), 7777)
	c := a.Copy()
	require.True(t, a.Equals(c))

	c.IP[0] = 99
	c.Port = 1
	assert.True(t, a.IP.Equal(net.ParseIP("192.168.0.7")), "copy must not alias the original")
	assert.EqualValues(t, 7777, a.Port)

	assert.Nil(t, (*Addr)(nil).Copy())
}

func TestAddrEquals(t *testing.T) {
	a := NewAddr(net.ParseIP("127.0.0.1"), 80)
	// Mapped and plain forms of the same address compare equal.
	b := &Addr{IP: net.IPv4(127, 0, 0, 1).To4(), Port: 80}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(NewAddr(net.ParseIP("127.0.0.1"), 81)))
	assert.False(t, a.Equals(nil))
	assert.True(t, (*Addr)(nil).Equals(nil))
}

func TestResolveAddr(t *testing.T) {
	a, err := ResolveAddr("127.0.0.1:8053")
	require.NoError(t, err)
	assert.True(t, a.IP.Equal(net.ParseIP("127.0.0.1")))
	assert.EqualValues(t, 8053, a.Port)

	_, err = ResolveAddr("not-an-endpoint")
	assert.Error(t, err)
}

func TestFromUDPAddr(t *testing.T) {
	assert.Nil(t, FromUDPAddr(nil))

	ua := &net.UDPAddr{IP: net.ParseIP("::1"), Port: 443}
	a := FromUDPAddr(ua)
	assert.True(t, a.IP.Equal(ua.IP))
	assert.EqualValues(t, 443, a.Port)
	assert.Equal(t, ua.String(), a.UDPAddr().String())
}

func TestParseFamily(t *testing.T) {
	cases := []struct {
		in   string
		want Family
		ok   bool
	}{
		{"", IPv4, true},
		{"ipv4", IPv4, true},
		{"udp4", IPv4, true},
		{"4", IPv4, true},
		{"IPv6", IPv6, true},
		{"udp6", IPv6, true},
		{"6", IPv6, true},
		{"unix", 0, false},
		{"ip", 0, false},
	}
	for _, c := range cases {
		got, err := ParseFamily(c.in)
		if !c.ok {
			assert.ErrorIs(t, err, ErrInvalidFamily, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestFamilyString(t *testing.T) {
	assert.Equal(t, "ipv4", IPv4.String())
	assert.Equal(t, "ipv6", IPv6.String())
	assert.Equal(t, "invalid", Family(0).String())
}

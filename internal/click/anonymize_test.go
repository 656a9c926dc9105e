package click_test

import (
	"testing"

	"github.com/linklite/linklite/internal/click"
	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"ipv4 loses its last octet", "203.0.113.45", "203.0.113.0"},
		{"already zeroed stays stable", "203.0.113.0", "203.0.113.0"},
		{"unknown passes through", "unknown", "unknown"},
		{"empty passes through", "", ""},
		{"ipv6 passes through", "2001:db8::1", "2001:db8::1"},
		{"garbage passes through", "not-an-ip", "not-an-ip"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, click.AnonymizeIP(tc.in))
		})
	}
}

func TestRoundCoordinate(t *testing.T) {
	assert.Equal(t, 52.0, click.RoundCoordinate(52.379))
	assert.Equal(t, 53.0, click.RoundCoordinate(52.5))
	assert.Equal(t, -7.0, click.RoundCoordinate(-6.8))
	assert.Equal(t, 0.0, click.RoundCoordinate(0.2))
}

package click

import (
	"fmt"
	"math"
	"net"
)

// AnonymizeIP truncates an IPv4 address to its first three octets followed by
// ".0". Values that are not IPv4 addresses (including "unknown") pass through
// unchanged.
func AnonymizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}

	v4 := parsed.To4()
	if v4 == nil {
		return ip
	}

	return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
}

// RoundCoordinate rounds a coordinate to the nearest whole degree.
func RoundCoordinate(v float64) float64 {
	return math.Round(v)
}

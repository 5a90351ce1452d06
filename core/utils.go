package core

import (
	"math"
	"net"
)

const (
	udp4Network = "udp4"
	udp6Network = "udp6"
)

func isIPv4(ip net.IP) bool {
	return ip.To4() != nil
}

// udpNetwork returns the network matching the family of ip.
func udpNetwork(ip net.IP) string {
	if isIPv4(ip) {
		return udp4Network
	}
	return udp6Network
}

// RoundHalfAway rounds v to the nearest integer, ties away from zero.
func RoundHalfAway(v float64) int {
	return int(math.Round(v))
}

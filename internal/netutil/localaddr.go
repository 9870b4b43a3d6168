// Package netutil holds small networking helpers for the presentation
// layer.
package netutil

import (
	"net"
	"os"
	"time"
)

// probeAddrs are well-known resolvers used to discover the preferred
// outbound interface. Dialing UDP sends no packet; only the route lookup
// happens.
var probeAddrs = []string{
	"8.8.8.8:80",
	"1.1.1.1:80",
	"114.114.114.114:80",
	"223.5.5.5:80",
}

const probeTimeout = time.Second

// BestEffortLocalAddress returns a LAN address suitable for a
// human-readable connect hint. It is purely cosmetic: it never blocks the
// server lifecycle and has no failure mode beyond ok=false.
//
// Resolution order: hostname lookup, outbound-route probes, interface
// enumeration. Loopback and link-local addresses are skipped throughout.
func BestEffortLocalAddress() (string, bool) {
	if hostname, err := os.Hostname(); err == nil {
		if addrs, err := net.LookupHost(hostname); err == nil {
			for _, a := range addrs {
				if ip := net.ParseIP(a); usable(ip) {
					return ip.String(), true
				}
			}
		}
	}

	for _, probe := range probeAddrs {
		conn, err := net.DialTimeout("udp", probe, probeTimeout)
		if err != nil {
			continue
		}
		local, _ := conn.LocalAddr().(*net.UDPAddr)
		conn.Close()
		if local != nil && usable(local.IP) {
			return local.IP.String(), true
		}
	}

	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if ok && usable(ipNet.IP) && ipNet.IP.To4() != nil {
				return ipNet.IP.String(), true
			}
		}
	}

	return "", false
}

func usable(ip net.IP) bool {
	return ip != nil && !ip.IsLoopback() && !ip.IsLinkLocalUnicast() && !ip.IsUnspecified()
}

// Package safeurl rejects fetch targets that must never reach the
// browser: non-HTTP schemes, loopback hosts, and private or link-local
// address literals. Checks use real prefix containment rather than
// string matching, so public hostnames that merely start with "172." or
// "10." pass, while ranges like 169.254/16 and ::1 are blocked.
package safeurl

import (
	"net/netip"
	"net/url"
	"strings"
)

var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),    // v4 loopback
	netip.MustParsePrefix("10.0.0.0/8"),     // RFC1918
	netip.MustParsePrefix("172.16.0.0/12"),  // RFC1918
	netip.MustParsePrefix("192.168.0.0/16"), // RFC1918
	netip.MustParsePrefix("169.254.0.0/16"), // v4 link-local
	netip.MustParsePrefix("100.64.0.0/10"),  // CGNAT
	netip.MustParsePrefix("::1/128"),        // v6 loopback
	netip.MustParsePrefix("fe80::/10"),      // v6 link-local
	netip.MustParsePrefix("fc00::/7"),       // v6 ULA
}

// Validate reports whether raw is safe to fetch. Malformed URLs fail
// closed.
func Validate(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		// Not an IP literal. DNS resolution is deliberately out of scope;
		// the fetch layer never follows redirects back into this gate.
		return true
	}
	if addr.IsUnspecified() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsPrivate() {
		return false
	}
	addr = addr.Unmap()
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

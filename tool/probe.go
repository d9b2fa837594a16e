package tool

import (
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// QuickProbe sends a single ICMP echo to check host reachability before
// starting a session. Falls back to unprivileged UDP ping so it works
// without CAP_NET_RAW. A false result is advisory only, some networks
// filter ICMP.
func QuickProbe(host string, timeout time.Duration) bool {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		DefaultLogger.Debugf("probe: failed to create pinger for %s: %v", host, err)
		return false
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		DefaultLogger.Debugf("probe: ping %s failed: %v", host, err)
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

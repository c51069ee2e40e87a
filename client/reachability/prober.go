package reachability

import (
	"context"
	"net"
	"time"
)

// Prober reports whether the network path is currently usable.
type Prober interface {
	Probe(ctx context.Context) bool
}

// ProberFunc adapts a function into a Prober.
type ProberFunc func(ctx context.Context) bool

// Probe calls f(ctx).
func (f ProberFunc) Probe(ctx context.Context) bool { return f(ctx) }

// Static returns a Prober that always reports the given status.
func Static(connected bool) Prober {
	return ProberFunc(func(context.Context) bool { return connected })
}

// InterfaceProber reports connected when at least one interface is up,
// is not a loopback, and carries a unicast address.
func InterfaceProber() Prober {
	return ProberFunc(func(context.Context) bool {
		ifaces, err := net.Interfaces()
		if err != nil {
			return false
		}

		for _, iface := range ifaces {
			if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
				continue
			}

			addrs, err := iface.Addrs()
			if err != nil {
				continue
			}

			for _, addr := range addrs {
				ipNet, ok := addr.(*net.IPNet)
				if ok && ipNet.IP.IsGlobalUnicast() {
					return true
				}
			}
		}

		return false
	})
}

// DialProber reports connected when a connection to address can be
// established within timeout.
func DialProber(network, address string, timeout time.Duration) Prober {
	d := net.Dialer{Timeout: timeout}

	return ProberFunc(func(ctx context.Context) bool {
		conn, err := d.DialContext(ctx, network, address)
		if err != nil {
			return false
		}
		_ = conn.Close()

		return true
	})
}

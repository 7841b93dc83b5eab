package port

import (
	"fmt"
	"net"
)

const (
	// MinPort and MaxPort bound valid TCP/UDP port numbers.
	MinPort = 1
	MaxPort = 65535
)

// Scanner checks whether ports are free on the host machine.
type Scanner struct {
	// Host is the address ports are bound on. Empty means all interfaces.
	Host string
}

// NewScanner creates a Scanner that binds on all interfaces.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable reports whether port can be bound for protocol ("tcp" or
// "udp"). Unknown protocols and out-of-range ports are reported as
// unavailable.
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	if port < MinPort || port > MaxPort {
		return false
	}
	addr := net.JoinHostPort(s.Host, fmt.Sprint(port))

	switch protocol {
	case "tcp":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		_ = listener.Close()
		return true

	case "udp":
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true

	default:
		return false
	}
}

// FindAvailablePort returns the first port in [startPort, endPort] that is
// free for protocol. The search is sequential, so repeated calls on an
// unchanged host return the same port.
func (s *Scanner) FindAvailablePort(startPort, endPort int, protocol string) (int, error) {
	if startPort > endPort {
		return 0, fmt.Errorf("invalid port range %d-%d", startPort, endPort)
	}
	for port := max(startPort, MinPort); port <= min(endPort, MaxPort); port++ {
		if s.IsPortAvailable(port, protocol) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available %s port found in range %d-%d", protocol, startPort, endPort)
}

package query

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Cause is a coarse classification of a transport failure, used for logging.
type Cause string

const (
	CauseTimeout Cause = "timeout"
	CauseDNS     Cause = "dns"
	CauseRefused Cause = "connection-refused"
	CauseTLS     Cause = "tls"
	CauseOther   Cause = "other"
)

// Classify inspects a transport error. The user only ever sees a fixed
// network-error string; the cause goes to the log.
func Classify(err error) Cause {
	switch {
	case err == nil:
		return ""
	case isTimeout(err):
		return CauseTimeout
	case isDNS(err):
		return CauseDNS
	case isRefused(err):
		return CauseRefused
	case isTLS(err):
		return CauseTLS
	}
	return CauseOther
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") ||
		strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate") ||
		strings.Contains(s, "handshake")
}

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

func transportKind(err error) Kind {
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &dnsErr):
		return KindDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindConnectionRefused
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	}
	return KindNetwork
}

func transportMessage(kind Kind, baseURL string) string {
	var what string
	switch kind {
	case KindCanceled:
		return "Request canceled"
	case KindTimeout:
		what = "the request timed out"
	case KindConnectionRefused:
		what = "the connection was refused"
	case KindDNS:
		what = "the server name could not be resolved"
	default:
		what = "the server could not be reached"
	}
	return fmt.Sprintf("Network error: %s.\nCheck that:\n"+
		"  - the API URL is correct (%s)\n"+
		"  - this device is online\n"+
		"  - the backend server is running", what, baseURL)
}

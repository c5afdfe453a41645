package client

import (
	"errors"
	"os"
	"strings"
	"time"
)

var errNoTimezone = errors.New("timezone not resolvable")

var localtimePath = "/etc/localtime"

// ResolveTimezone returns the IANA name of the local zone, trying TZ, then
// the /etc/localtime link, then time.Local.
func ResolveTimezone() (string, error) {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz, nil
		}
	}

	if target, err := os.Readlink(localtimePath); err == nil {
		if i := strings.LastIndex(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):], nil
		}
	}

	if name := time.Local.String(); name != "" && name != "Local" {
		return name, nil
	}
	return "", errNoTimezone
}

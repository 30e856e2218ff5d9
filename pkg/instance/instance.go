package instance

import (
	"os"
	"strings"
)

// ID names the running process in logs and lock ownership. The platform
// dyno name wins, then an explicit STOREFRONT_INSTANCE_ID, then the hostname.
func ID() string {
	for _, key := range []string{"DYNO", "STOREFRONT_INSTANCE_ID"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}

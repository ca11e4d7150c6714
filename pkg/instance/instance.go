package instance

import (
	"os"

	"github.com/bdshop/storefront-backend/pkg/env"
)

const fallbackID = "local"

// ID identifies this process in logs. STOREFRONT_INSTANCE_ID wins over the
// platform's DYNO, which wins over the hostname.
func ID() string {
	if id := env.First("STOREFRONT_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}

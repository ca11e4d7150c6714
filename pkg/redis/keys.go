package redis

import "strings"

const DefaultKeyspace Keyspace = "sf"

const (
	idempotencySegment = "idempotency"
	basketSegment      = "basket"
)

// Keyspace prefixes every key so several deployments can share one Redis.
type Keyspace string

func NewKeyspace(prefix string) Keyspace {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		return DefaultKeyspace
	}
	return Keyspace(prefix)
}

// Key joins the namespace and parts with ":", skipping blank parts.
func (k Keyspace) Key(parts ...string) string {
	if k == "" {
		k = DefaultKeyspace
	}
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, string(k))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return strings.Join(segments, ":")
}

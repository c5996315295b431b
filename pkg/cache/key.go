package cache

import (
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "dex"

// Key identifies a cached response.
type Key struct {
	// Endpoint is the API path, e.g. "/pokemon/bulbasaur".
	Endpoint string

	// Query holds the query parameters, e.g. limit and offset.
	Query url.Values
}

// String generates a deterministic key string.
// Format: dex:endpoint:q1=v1:q2=v2
//
// Example:
//
//	dex:pokemon:limit=1025:offset=0
func (k Key) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, strings.ToLower(endpoint))
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			parts = append(parts, name+"="+strings.Join(values, ","))
		}
	}

	return strings.Join(parts, ":")
}

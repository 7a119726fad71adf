package constant

import (
	"fmt"
	"strings"
)

const (
	// BasePrefix namespaces every key this service writes.
	BasePrefix = "shorturl:"

	// Resolution is the cache entry for one resolved code (lowercased,
	// lookups are case-insensitive). An empty value marks a cached miss.
	Resolution = BasePrefix + "resolve:%s"
)

// Cache TTLs in seconds.
const (
	ResolutionTTL = 3600
	// NegativeTTL keeps cached misses short so fresh links become
	// resolvable quickly.
	NegativeTTL = 300
)

// GetResolutionKey builds the cache key for a short code.
func GetResolutionKey(code string) string {
	return fmt.Sprintf(Resolution, strings.ToLower(code))
}

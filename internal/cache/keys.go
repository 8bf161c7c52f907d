package cache

import (
	"fmt"
	"strings"
	"time"
)

// Source tags used for TTL selection.
const (
	SourceDinum      = "dinum"
	SourceInsee      = "insee"
	SourceInfogreffe = "infogreffe"
	SourceBodacc     = "bodacc"
	SourceNews       = "news"
	SourceReport     = "report"
)

// sourceTTL holds the TTL policy per source category. Legal-identity facts
// rarely change; notices and press content go stale quickly.
var sourceTTL = map[string]time.Duration{
	SourceDinum:      30 * 24 * time.Hour,
	SourceInsee:      30 * 24 * time.Hour,
	SourceInfogreffe: 7 * 24 * time.Hour,
	SourceBodacc:     time.Hour,
	SourceNews:       30 * time.Minute,
	SourceReport:     30 * 24 * time.Hour,
}

// TTLFor returns the TTL for a source tag, defaulting to one hour for
// unknown tags.
func TTLFor(sourceTag string) time.Duration {
	if ttl, ok := sourceTTL[sourceTag]; ok {
		return ttl
	}
	return time.Hour
}

func ReportKey(siren string, variant string) string {
	return fmt.Sprintf("report:%s:%s", siren, variant)
}

func CompanyKey(siren string) string {
	return fmt.Sprintf("company:%s", siren)
}

func SearchKey(query string) string {
	return fmt.Sprintf("search:%s", strings.ToLower(strings.TrimSpace(query)))
}

func CollectorKey(source, siren string) string {
	return fmt.Sprintf("%s:%s", source, siren)
}

func RateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}

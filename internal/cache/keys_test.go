package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLFor(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, TTLFor(SourceDinum))
	assert.Equal(t, 30*24*time.Hour, TTLFor(SourceInsee))
	assert.Equal(t, 7*24*time.Hour, TTLFor(SourceInfogreffe))
	assert.Equal(t, time.Hour, TTLFor(SourceBodacc))
	assert.Equal(t, 30*time.Minute, TTLFor(SourceNews))
	assert.Equal(t, 30*24*time.Hour, TTLFor(SourceReport))
	assert.Equal(t, time.Hour, TTLFor("unknown-source"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "report:552032534:standard", ReportKey("552032534", "standard"))
	assert.Equal(t, "company:552032534", CompanyKey("552032534"))
	assert.Equal(t, "search:danone", SearchKey("  Danone "))
	assert.Equal(t, "bodacc:552032534", CollectorKey(SourceBodacc, "552032534"))
	assert.Equal(t, "ratelimit:10.0.0.1", RateLimitKey("10.0.0.1"))
}

package click

import (
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/enrich"
)

// TopicLinkAccessed carries raw access events from the resolver to the recorder.
const TopicLinkAccessed = "link.accessed"

// AccessEvent is the raw request metadata published on every successful
// resolution, before any enrichment or anonymization.
type AccessEvent struct {
	LinkID    uuid.UUID `json:"linkId"`
	Slug      string    `json:"slug"`
	Timestamp time.Time `json:"timestamp"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
}

// Location is the coarse, rounded geography attached to a click event.
type Location struct {
	Country   string   `json:"country,omitempty"`
	Region    string   `json:"region,omitempty"`
	City      string   `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Event is one immutable record of a successful resolution. It is never
// updated after creation; anonymization is applied before the write.
type Event struct {
	ID        uuid.UUID
	LinkID    uuid.UUID
	Timestamp time.Time
	IP        string // truncated before storage, never the full client address
	UserAgent string
	Device    enrich.DeviceClass
	Browser   string
	OS        string
	Referrer  string
	Location  Location
}

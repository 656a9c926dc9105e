package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Location is coarse geography resolved from an IP address.
type Location struct {
	Country   string
	Region    string
	City      string
	Latitude  *float64
	Longitude *float64
}

// Locator resolves an IP address to a coarse location. Implementations return
// (nil, nil) when the address cannot be resolved; callers proceed without
// location data.
type Locator interface {
	Locate(ctx context.Context, ip string) (*Location, error)
}

// HTTPLocator resolves locations against an ipapi.co-compatible JSON endpoint.
// Every lookup carries a bounded timeout; any failure (timeout, non-2xx,
// malformed body) yields no location rather than an error on the caller's path.
type HTTPLocator struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewHTTPLocator creates a locator for the given endpoint with the given
// per-lookup timeout.
func NewHTTPLocator(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPLocator {
	return &HTTPLocator{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger,
	}
}

type locationResponse struct {
	Country   string   `json:"country_name"`
	Region    string   `json:"region"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l *HTTPLocator) Locate(ctx context.Context, ip string) (*Location, error) {
	if ip == "" || ip == "unknown" {
		return nil, nil
	}

	url := fmt.Sprintf("%s/%s/json/", l.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))

		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Debug("geolocation lookup rejected",
			zap.String("ip", ip),
			zap.Int("status", resp.StatusCode),
		)

		return nil, nil
	}

	var body locationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		l.logger.Debug("geolocation response malformed", zap.String("ip", ip), zap.Error(err))

		return nil, nil
	}

	return &Location{
		Country:   body.Country,
		Region:    body.Region,
		City:      body.City,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	}, nil
}

// NoopLocator never resolves a location. Useful when no geolocation endpoint
// is configured.
type NoopLocator struct{}

func (NoopLocator) Locate(context.Context, string) (*Location, error) {
	return nil, nil
}

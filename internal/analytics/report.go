package analytics

import "time"

// Range is a named reporting window ending now.
type Range string

const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
)

// Days returns the window length in calendar days. Unknown ranges fall back
// to seven days.
func (r Range) Days() int {
	switch r {
	case Range30d:
		return 30
	case Range90d:
		return 90
	default:
		return 7
	}
}

// Window returns the [from, to] interval of the range ending at now.
func (r Range) Window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -r.Days()), now
}

// Entry is one row of a top-N breakdown.
type Entry struct {
	Label  string `json:"label"`
	Clicks int64  `json:"clicks"`
}

// Summary is the aggregated analytics payload for one link and range. The
// same shape is produced whether it is computed from click events or read
// from a cached rollup.
type Summary struct {
	Labels           []string         `json:"labels"`
	Series           []int64          `json:"data"`
	TotalClicks      int64            `json:"totalClicks"`
	Growth           float64          `json:"growth"`
	DeviceBreakdown  map[string]int64 `json:"deviceBreakdown"`
	BrowserBreakdown map[string]int64 `json:"browserBreakdown"`
	TopReferrers     []Entry          `json:"topReferrers"`
	TopCountries     []Entry          `json:"topCountries"`
}

package analytics

import (
	"sort"

	"github.com/linklite/linklite/internal/click"
)

// Placeholder values for click events missing a categorical attribute.
const (
	placeholderDevice   = "other"
	placeholderBrowser  = "unknown"
	placeholderCountry  = "Unknown"
	placeholderReferrer = "Direct"
)

const topN = 5

// BuildSummary computes the full analytics payload from a chronologically
// ascending slice of click events.
func BuildSummary(events []*click.Event) *Summary {
	labels, series := dailySeries(events)

	var total int64
	for _, n := range series {
		total += n
	}

	return &Summary{
		Labels:           labels,
		Series:           series,
		TotalClicks:      total,
		Growth:           growth(series),
		DeviceBreakdown:  breakdown(events, deviceLabel),
		BrowserBreakdown: breakdown(events, browserLabel),
		TopReferrers:     top(events, referrerLabel),
		TopCountries:     top(events, countryLabel),
	}
}

// dailySeries buckets events by the UTC calendar date of their timestamp.
// Dates without events are omitted; the input ordering keeps the output
// chronological.
func dailySeries(events []*click.Event) ([]string, []int64) {
	labels := make([]string, 0)
	series := make([]int64, 0)

	for _, e := range events {
		date := e.Timestamp.UTC().Format("2006-01-02")

		if n := len(labels); n > 0 && labels[n-1] == date {
			series[n-1]++

			continue
		}

		labels = append(labels, date)
		series = append(series, 1)
	}

	return labels, series
}

// growth compares the last two daily buckets. Fewer than two buckets means no
// growth; a zero prior bucket followed by clicks counts as 100%.
func growth(series []int64) float64 {
	if len(series) < 2 {
		return 0
	}

	latest := series[len(series)-1]
	previous := series[len(series)-2]

	if previous == 0 {
		if latest > 0 {
			return 100
		}

		return 0
	}

	return float64(latest-previous) / float64(previous) * 100
}

func breakdown(events []*click.Event, label func(*click.Event) string) map[string]int64 {
	out := make(map[string]int64)

	for _, e := range events {
		out[label(e)]++
	}

	return out
}

// top returns at most topN entries ordered by descending count. Ties keep
// first-encountered order.
func top(events []*click.Event, label func(*click.Event) string) []Entry {
	counts := make(map[string]int64)
	order := make([]string, 0)

	for _, e := range events {
		key := label(e)

		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}

		counts[key]++
	}

	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, Entry{Label: key, Clicks: counts[key]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Clicks > entries[j].Clicks
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}

	return entries
}

func deviceLabel(e *click.Event) string {
	if e.Device == "" {
		return placeholderDevice
	}

	return string(e.Device)
}

func browserLabel(e *click.Event) string {
	if e.Browser == "" {
		return placeholderBrowser
	}

	return e.Browser
}

func countryLabel(e *click.Event) string {
	if e.Location.Country == "" {
		return placeholderCountry
	}

	return e.Location.Country
}

func referrerLabel(e *click.Event) string {
	if e.Referrer == "" {
		return placeholderReferrer
	}

	return e.Referrer
}

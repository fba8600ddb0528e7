package normalize

import "time"

// timestampLayouts are tried in order of likelihood for AirNow exports.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp tries each known layout. Layouts without a zone are
// interpreted as UTC, which is what the column name promises.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

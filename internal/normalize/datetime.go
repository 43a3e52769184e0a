// Package normalize converts raw report cell text into canonical field
// values: friendly timestamps into ISO dates and advisor free text into
// agent/store attribution.
package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Report timestamps arrive without a year, e.g. "Dec 2, 1:29 pm".
var friendlyLayouts = []string{
	"2006 Jan 2, 3:04 pm",
	"2006 Jan 2, 3:04 PM",
}

// DateTime parses a friendly timestamp, assuming the given processing year.
// On success it returns an ISO calendar date and a 12-hour clock string. On
// any parse failure it returns the original string as the date and an empty
// time; the failure is non-fatal and downstream validation still applies.
func DateTime(raw string, year int) (date, clock string) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range friendlyLayouts {
		t, err := time.Parse(layout, fmt.Sprintf("%d %s", year, trimmed))
		if err == nil {
			return t.Format("2006-01-02"), t.Format("03:04 PM")
		}
	}
	return raw, ""
}

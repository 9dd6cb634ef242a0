package parsers

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateLayouts = []string{time.DateOnly, "02/01/2006", "2/1/2006", "02.01.2006"}

// ParseDate reads a tournament date: ISO or day-first numeric dates, or
// natural language ("last thursday", "yesterday") relative to now.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, input, time.UTC); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(strings.ToLower(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize date %q", input)
	}
	y, m, d := r.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Package datetime provides date utility functions for activity logs.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/plantation-analytics/pkg/constants"
)

const (
	// DateLayout is the format expected for activity dates in config files.
	DateLayout = constants.ActivityDateLayout

	hoursPerDay = 24
)

// ParseDate parses an activity date. Surrounding whitespace is ignored.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid activity date %q: %w", date, err)
	}
	return t, nil
}

// DaysBetween returns the whole days from firstDate to secondDate, negative
// when secondDate comes first.
func DaysBetween(firstDate string, secondDate string) (int, error) {
	firstDateT, err := ParseDate(firstDate)
	if err != nil {
		return 0, err
	}
	secondDateT, err := ParseDate(secondDate)
	if err != nil {
		return 0, err
	}
	return int(secondDateT.Sub(firstDateT).Hours() / hoursPerDay), nil
}

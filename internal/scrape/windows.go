package scrape

import (
	"errors"
	"fmt"
	"time"
)

// Windowing methods accepted by Windows.
const (
	MethodDaily  = "daily"
	MethodWeekly = "weekly"
)

// ErrUnsupportedMethod is returned for any windowing method other than
// "daily" or "weekly". It is a configuration error and is raised before
// any network activity begins.
var ErrUnsupportedMethod = errors.New("unsupported windowing method")

// Windows slices [start, end) into scheduling units. Daily windowing
// produces one single-day window per calendar day, end exclusive. Weekly
// windowing produces one 7-day window per full week; a trailing partial
// week is dropped.
func Windows(start, end time.Time, method string) ([]Window, error) {
	start, end = midnightUTC(start), midnightUTC(end)
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}

	switch method {
	case MethodDaily:
		windows := make([]Window, 0, days)
		for i := 0; i < days; i++ {
			day := start.AddDate(0, 0, i)
			windows = append(windows, Window{Start: day, End: day})
		}
		return windows, nil
	case MethodWeekly:
		weeks := days / 7
		windows := make([]Window, 0, weeks)
		for i := 0; i < weeks; i++ {
			windows = append(windows, Window{
				Start: start.AddDate(0, 0, i*7),
				End:   start.AddDate(0, 0, (i+1)*7),
			})
		}
		return windows, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrUnsupportedMethod, method, MethodDaily, MethodWeekly)
	}
}

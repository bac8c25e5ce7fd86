package util

import (
	"strconv"
	"strings"
	"time"

	"cinematix/models"
)

// DateFormat is the wire format for dates.
const DateFormat = "2006-01-02"

// DefaultPreviews is the padding added to a movie's runtime to estimate when
// the feature actually ends.
const DefaultPreviews = 20 * time.Minute

// ResolveQuickDate resolves the symbolic tokens "today" and "tomorrow"
// against the app's current date. Literal dates pass through unchanged. An
// unset today resolves the tokens to "".
func ResolveQuickDate(today, date string) string {
	switch date {
	case models.DateToday:
		return today
	case models.DateTomorrow:
		if today == "" {
			return ""
		}
		t, err := time.ParseInLocation(DateFormat, today, time.Local)
		if err != nil {
			return ""
		}
		return t.AddDate(0, 0, 1).Format(DateFormat)
	default:
		return date
	}
}

// ResolveDate turns a quick date or literal date into a local midnight
// instant, using the wall clock for the symbolic tokens.
func ResolveDate(date string) time.Time {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	switch date {
	case models.DateToday:
		return midnight
	case models.DateTomorrow:
		return midnight.AddDate(0, 0, 1)
	default:
		t, err := time.ParseInLocation(DateFormat, date, time.Local)
		if err != nil {
			return midnight
		}
		return t
	}
}

// CarryEndDate keeps the date range valid when startDate changes: endDate is
// carried forward when it would precede the new start, and clamped back when
// the implied range exceeds seven days.
func CarryEndDate(startDate, endDate string) string {
	start := ResolveDate(startDate)
	end := ResolveDate(endDate)

	if start.After(end) {
		return startDate
	}

	limit := start.AddDate(0, 0, 7)
	if end.After(limit) {
		return limit.Format(DateFormat)
	}

	return endDate
}

// TimeWindow evaluates per-day start/end time-of-day bounds against concrete
// showtimes. Bounds are anchored onto each showtime's own calendar date; a
// window crossing midnight rolls the end bound into the next day unless the
// rolled bound would land before the dataset-wide end-of-day cutover.
type TimeWindow struct {
	startTime string
	endTime   string
	previews  time.Duration
	cutover   time.Time
}

// NewTimeWindow builds an evaluator. today is the app's current date
// (yyyy-MM-dd, possibly empty before the first tick).
func NewTimeWindow(today, startTime, endTime string, previews time.Duration) *TimeWindow {
	var cutover time.Time
	if today != "" {
		if t, err := time.ParseInLocation(DateFormat, today, time.Local); err == nil {
			cutover = t.AddDate(0, 0, 1)
		}
	}

	return &TimeWindow{
		startTime: startTime,
		endTime:   endTime,
		previews:  previews,
		cutover:   cutover,
	}
}

// Include reports whether the showtime falls inside the window. A showtime
// with an unparseable start never qualifies.
func (w *TimeWindow) Include(s *models.Showtime) bool {
	if w.startTime == "" && w.endTime == "" {
		return true
	}

	start, err := s.Start()
	if err != nil {
		return false
	}

	if w.startTime != "" {
		if start.Before(anchorClock(start, w.startTime)) {
			return false
		}
	}

	if w.endTime != "" {
		bound := anchorClock(start, w.endTime)
		if w.startTime != "" && w.endTime < w.startTime {
			rolled := bound.AddDate(0, 0, 1)
			if w.cutover.IsZero() || !rolled.Before(w.cutover) {
				bound = rolled
			}
		}

		if d := s.Duration(); d > 0 {
			if start.Add(d + w.previews).After(bound) {
				return false
			}
		} else if start.After(bound) {
			// Unknown runtime: the show is treated as ending at its start.
			return false
		}
	}

	return true
}

// HasFutureShowtimes reports whether any showtime falls on a calendar date
// other than today. Drives whether rows render absolute dates.
func HasFutureShowtimes(showtimes []models.Showtime, today string) bool {
	if today == "" {
		return false
	}
	for i := range showtimes {
		start, err := showtimes[i].Start()
		if err != nil {
			continue
		}
		if start.In(time.Local).Format(DateFormat) != today {
			return true
		}
	}
	return false
}

// anchorClock re-anchors an "HH:mm" time of day onto the base's calendar
// date, in the base's zone.
func anchorClock(base time.Time, hhmm string) time.Time {
	parts := strings.SplitN(hhmm, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute := 0
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

package simulation

import "time"

type Season string

const (
	Summer     Season = "summer"
	Winter     Season = "winter"
	Transition Season = "transition"
)

// SeasonOf maps a calendar month onto a season: April through September is
// summer, March, October and November are transition, December through
// February is winter.
func SeasonOf(date time.Time) Season {
	switch m := date.Month(); {
	case m >= time.April && m <= time.September:
		return Summer
	case m == time.March || m == time.October || m == time.November:
		return Transition
	default:
		return Winter
	}
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysInMonth returns the true length of date's calendar month.
func DaysInMonth(date time.Time) int {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

package utils

import "time"

// DayLayout is the calendar-day key used for streaks and history grouping.
const DayLayout = "2006-01-02"

// Day returns the calendar day of t in loc.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// PrevDay returns the day before the given day key, or "" if the key is malformed.
func PrevDay(day string) string {
	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(DayLayout)
}

// AddDays shifts a day key by n days, or returns "" if the key is malformed.
func AddDays(day string, n int) string {
	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, n).Format(DayLayout)
}

// DaysBetween counts whole calendar days from a to b. Both are day keys.
func DaysBetween(a, b string) (int, error) {
	da, err := time.Parse(DayLayout, a)
	if err != nil {
		return 0, err
	}
	db, err := time.Parse(DayLayout, b)
	if err != nil {
		return 0, err
	}
	return int(db.Sub(da).Hours() / 24), nil
}

// FormatLocal returns t formatted in loc for terminal output.
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Mon, 02 Jan 2006 15:04")
}

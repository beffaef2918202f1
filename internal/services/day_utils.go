package services

import "time"

const dayKeyLayout = "2006-01-02"

// DateAtLocation truncates a timestamp to midnight of its calendar day in
// the given location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns the [start, end) bounds of the calendar day containing
// value.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// DayKey formats a calendar day as the yyyy-MM-dd string used for bucketing
// and URLs.
func DayKey(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(dayKeyLayout)
}

// MonthStart returns midnight of the first day of the month containing
// value.
func MonthStart(value time.Time, location *time.Location) time.Time {
	day := DateAtLocation(value, location)
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, location)
}

// MonthKey formats a month as yyyy-MM.
func MonthKey(value time.Time, location *time.Location) string {
	return MonthStart(value, location).Format("2006-01")
}

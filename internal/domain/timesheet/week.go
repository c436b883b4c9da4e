package timesheet

import "time"

// MondayOf devuelve el lunes (00:00, misma zona) de la semana ISO de t.
func MondayOf(t time.Time) time.Time {
	day := truncateDay(t)
	wd := int(day.Weekday())
	if wd == 0 { // domingo
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// WeekEnd devuelve el domingo de la semana cuyo lunes es weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6)
}

// InWeek indica si date cae dentro de la semana [weekStart, weekStart+6].
func InWeek(date, weekStart time.Time) bool {
	d := truncateDay(date)
	return !d.Before(truncateDay(weekStart)) && !d.After(WeekEnd(truncateDay(weekStart)))
}

// truncateDay pone la hora del día en cero (día calendario local).
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

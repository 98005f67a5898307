package service

import (
	"time"

	"github.com/aulanet/aulanet-api/internal/models"
)

// spanishWeekdays maps time.Weekday ordinals (Sunday first) to the
// weekday names stored in dias_de_clase.
var spanishWeekdays = [...]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// SessionDates walks the class date range and returns every day whose
// weekday appears in the class days list, as ISO day strings in order.
// Both endpoints are inclusive. A class missing either date or any
// class days yields no sessions.
func SessionDates(class models.Class) []string {
	if class.StartDate.IsZero() || class.EndDate.IsZero() {
		return nil
	}
	wanted := make(map[string]struct{})
	for _, d := range class.Weekdays() {
		wanted[d] = struct{}{}
	}
	if len(wanted) == 0 {
		return nil
	}

	start := dayOf(class.StartDate)
	end := dayOf(class.EndDate)
	var dates []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if _, ok := wanted[spanishWeekdays[day.Weekday()]]; ok {
			dates = append(dates, day.Format("2006-01-02"))
		}
	}
	return dates
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

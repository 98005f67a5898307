package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aulanet/aulanet-api/internal/models"
)

func classWithSchedule(start, end, days string) models.Class {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return models.Class{StartDate: s, EndDate: e, ClassDays: days}
}

func TestSessionDatesWeekdayFilter(t *testing.T) {
	// 2024-01-01 is a Monday.
	class := classWithSchedule("2024-01-01", "2024-01-07", "Lunes,Miércoles")
	assert.Equal(t, []string{"2024-01-01", "2024-01-03"}, SessionDates(class))
}

func TestSessionDatesInclusiveEndpoints(t *testing.T) {
	class := classWithSchedule("2024-01-01", "2024-01-15", "Lunes")
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15"}, SessionDates(class))
}

func TestSessionDatesSingleDay(t *testing.T) {
	class := classWithSchedule("2024-01-03", "2024-01-03", "Miércoles")
	assert.Equal(t, []string{"2024-01-03"}, SessionDates(class))
}

func TestSessionDatesMissingDates(t *testing.T) {
	assert.Nil(t, SessionDates(models.Class{ClassDays: "Lunes"}))
	assert.Nil(t, SessionDates(models.Class{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ClassDays: "Lunes",
	}))
}

func TestSessionDatesNoMatchingWeekday(t *testing.T) {
	class := classWithSchedule("2024-01-01", "2024-01-05", "Sábado,Domingo")
	assert.Empty(t, SessionDates(class))
}

func TestSessionDatesEmptySchedule(t *testing.T) {
	class := classWithSchedule("2024-01-01", "2024-01-31", "")
	assert.Nil(t, SessionDates(class))
}

func TestSessionDatesAccentedWeekdays(t *testing.T) {
	class := classWithSchedule("2024-01-01", "2024-01-07", "Miércoles,Sábado")
	assert.Equal(t, []string{"2024-01-03", "2024-01-06"}, SessionDates(class))
}

package domain

import (
	"time"

	"github.com/bookwell/appointment-service/pkg/types"
)

// WorkingHour one row per (business, weekday), weekday 0=Sunday..6=Saturday
type WorkingHour struct {
	ID         int64
	BusinessID int64
	DayOfWeek  int
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
}

// DaySchedule resolved open/close window for one calendar date
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// ScheduleForDate resolves the business schedule for a calendar date.
// Если строки для дня недели нет, либо день помечен закрытым, либо окно
// некорректно - бизнес считается закрытым (fail safe, никогда не "открыт по умолчанию").
func ScheduleForDate(hours []WorkingHour, date time.Time) DaySchedule {
	weekday := int(date.Weekday()) // 0=Sunday, совпадает с хранимым форматом

	for _, wh := range hours {
		if wh.DayOfWeek != weekday {
			continue
		}
		if !wh.IsOpen {
			return DaySchedule{IsOpen: false}
		}
		if wh.OpenTime.Validate() != nil || wh.CloseTime.Validate() != nil {
			return DaySchedule{IsOpen: false}
		}
		if !wh.OpenTime.IsBefore(wh.CloseTime) {
			return DaySchedule{IsOpen: false}
		}
		return DaySchedule{
			IsOpen:    true,
			OpenTime:  wh.OpenTime,
			CloseTime: wh.CloseTime,
		}
	}

	return DaySchedule{IsOpen: false}
}

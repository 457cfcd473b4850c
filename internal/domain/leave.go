package domain

import (
	"time"

	"github.com/bookwell/appointment-service/pkg/types"
)

// LeaveType тип отсутствия сотрудника
type LeaveType string

const (
	LeaveFullDay  LeaveType = "full_day"
	LeaveMultiDay LeaveType = "multi_day"
	LeavePartial  LeaveType = "partial"
)

// LeaveStatus статус заявки на отсутствие
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// StaffLeave represents a staff member's registered unavailability window.
// StartTime/EndTime are set and meaningful only for LeavePartial.
type StaffLeave struct {
	ID        int64
	StaffID   int64
	Type      LeaveType
	StartDate time.Time
	EndDate   time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Status    LeaveStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the leave spans the given calendar date
func (l *StaffLeave) Covers(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(l.StartDate)) && !d.After(dateOnly(l.EndDate))
}

// MakesUnavailableAt reports whether this leave makes the staff member
// unavailable at the given time of day (on a date already covered by the leave).
// FULL_DAY и MULTI_DAY закрывают весь день; PARTIAL сравнивает время
// с полуоткрытым интервалом [StartTime, EndTime).
func (l *StaffLeave) MakesUnavailableAt(timeOfDay types.TimeString) bool {
	switch l.Type {
	case LeaveFullDay, LeaveMultiDay:
		return true
	case LeavePartial:
		if l.StartTime == nil || l.EndTime == nil {
			return false
		}
		t, err := timeOfDay.Minutes()
		if err != nil {
			return false
		}
		start, err := l.StartTime.Minutes()
		if err != nil {
			return false
		}
		end, err := l.EndTime.Minutes()
		if err != nil {
			return false
		}
		return t >= start && t < end
	default:
		return false
	}
}

// AnyLeaveCovers reports whether any of the leave rows makes the staff member
// unavailable at the given time of day. Перекрывающиеся заявки объединяются:
// сотрудник недоступен, если недоступен хотя бы по одной из них.
func AnyLeaveCovers(leaves []*StaffLeave, timeOfDay types.TimeString) bool {
	for _, l := range leaves {
		if l.MakesUnavailableAt(timeOfDay) {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

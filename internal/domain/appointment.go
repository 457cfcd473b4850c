package domain

import (
	"time"

	"github.com/bookwell/appointment-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a committed reservation of a service slot
type Appointment struct {
	ID         int64
	BusinessID int64
	ServiceID  int64
	StaffID    *int64 // nil = не закреплено за конкретным сотрудником
	Date       time.Time
	StartTime  types.TimeString

	// Denormalized service data, authoritative for this appointment
	DurationMinutes int
	ServiceName     string
	ServicePrice    float64

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Notes         *string

	Status AppointmentStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the end of the occupied interval (start + service duration)
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// BlocksSlot returns true if the appointment occupies its interval
// for conflict purposes (only pending and confirmed appointments do)
func (a *Appointment) BlocksSlot() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsTerminal returns true if no further status transitions are allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo returns true if the lifecycle allows moving to the given status
// Переходы управляются извне (владелец бизнеса/админ), терминальные статусы финальны
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if !IsValidStatus(next) {
		return false
	}
	if a.IsTerminal() {
		return false
	}
	if next == a.Status {
		return false
	}
	// Возврат в pending не поддерживается
	if next == StatusPending {
		return false
	}
	return true
}

// Overlaps reports whether the appointment's occupied interval intersects
// [slotStart, slotEnd), both expressed in minutes since midnight.
// Boundary-touching intervals do not overlap (half-open semantics).
func (a *Appointment) Overlaps(slotStartMinutes, slotEndMinutes int) bool {
	start, err := a.StartTime.Minutes()
	if err != nil {
		return false
	}
	end := start + a.DurationMinutes
	return start < slotEndMinutes && end > slotStartMinutes
}

// IsValidStatus проверяет, что статус входит в множество допустимых
func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// BusinessAppointmentsFilter фильтр для получения записей бизнеса
type BusinessAppointmentsFilter struct {
	BusinessID      int64               // Обязательный параметр
	StaffID         *int64              // Фильтр по сотруднику (nil - без фильтра, см. StaffUnassigned)
	StaffUnassigned bool                // true - только записи без закреплённого сотрудника (staff_id IS NULL)
	StartDate       *time.Time          // Начало периода (опционально)
	EndDate         *time.Time          // Конец периода (опционально)
	Status          *AppointmentStatus  // Фильтр по статусу (опционально)
	Statuses        []AppointmentStatus // Явное множество статусов (имеет приоритет над Status)
	IncludeInactive bool                // Включать ли отменённые и no-show записи
}

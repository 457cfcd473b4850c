package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
// Гостевая запись: имя и телефон клиента обязательны
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: appointmentDate is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: appointmentTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid appointmentTime format: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must be at most %d characters",
			ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}
	if len(phone) < domain.MinCustomerPhoneLength || len(phone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customerPhone must be %d to %d characters",
			ErrInvalidInput, domain.MinCustomerPhoneLength, domain.MaxCustomerPhoneLength)
	}

	if req.CustomerEmail != nil && !strings.Contains(*req.CustomerEmail, "@") {
		return fmt.Errorf("%w: invalid customerEmail", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters",
			ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата попадает в допустимое окно записи
func validateDate(apptDate time.Time, now time.Time, maxAdvanceBookingDays int) error {
	if isDateInPast(apptDate, now) {
		return ErrInvalidDate
	}

	// Если maxAdvanceBookingDays = 0, нет ограничений на глубину записи
	if maxAdvanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceBookingDays)

	apptDateOnly := time.Date(apptDate.Year(), apptDate.Month(), apptDate.Day(), 0, 0, 0, 0, apptDate.Location())

	if apptDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceBookingDays)
	}

	return nil
}

// validateSlotAlignment проверяет, что время попадает в сетку слотов:
// внутри рабочих часов и кратно slotDuration от времени открытия
func validateSlotAlignment(startTime types.TimeString, schedule domain.DaySchedule, slotDuration int) error {
	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	openMinutes, err := schedule.OpenTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	closeMinutes, err := schedule.CloseTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if startMinutes < openMinutes || startMinutes >= closeMinutes {
		return fmt.Errorf("%w: time is outside working hours", ErrInvalidTimeSlot)
	}

	if (startMinutes-openMinutes)%slotDuration != 0 {
		return fmt.Errorf("%w: time does not match the slot grid", ErrInvalidTimeSlot)
	}

	return nil
}

// validateBookingTime проверяет минимальное время до записи
// Начало записи должно быть строго в будущем и не ближе minAdvanceBookingHours
func validateBookingTime(
	apptDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minAdvanceBookingHours int,
) error {
	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	startAbs := time.Date(apptDate.Year(), apptDate.Month(), apptDate.Day(),
		startMinutes/60, startMinutes%60, 0, 0, now.Location())

	if !startAbs.After(now) {
		return ErrInvalidTimeSlot
	}

	if startAbs.Sub(now) < time.Duration(minAdvanceBookingHours)*time.Hour {
		return fmt.Errorf("%w: must book at least %d hours in advance", ErrTooLateToBook, minAdvanceBookingHours)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

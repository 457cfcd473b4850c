package get_available_slots

import (
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/types"
)

// generationInput все данные, необходимые для генерации слотов на день
type generationInput struct {
	Schedule        domain.DaySchedule
	Settings        domain.AppointmentSettings
	ServiceDuration int
	Date            time.Time
	Now             time.Time
	ConflictSet     []*domain.Appointment
	Leaves          []*domain.StaffLeave
	CapReached      bool
}

// generateSlots генерирует полный список слотов на день с флагом доступности
//
// Слоты идут с фиксированным шагом slotDuration от времени открытия, пока
// начало слота строго раньше закрытия. Шаг НЕ зависит от длительности услуги:
// сетка слотов настраивается бизнесом, а занимаемый слотом интервал
// [start, start+serviceDuration) определяется выбранной услугой.
func generateSlots(in generationInput) ([]Slot, error) {
	if !in.Schedule.IsOpen {
		return []Slot{}, nil
	}

	openMinutes, err := in.Schedule.OpenTime.Minutes()
	if err != nil {
		return nil, err
	}
	closeMinutes, err := in.Schedule.CloseTime.Minutes()
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, (closeMinutes-openMinutes)/in.Settings.SlotDurationMinutes+1)

	for slotMinutes := openMinutes; slotMinutes < closeMinutes; slotMinutes += in.Settings.SlotDurationMinutes {
		slotTime, err := types.NewTimeStringFromMinutes(slotMinutes)
		if err != nil {
			return nil, err
		}

		slots = append(slots, Slot{
			StartTime: slotTime,
			Available: isSlotAvailable(in, slotMinutes, slotTime),
		})
	}

	return slots, nil
}

// isSlotAvailable вычисляет доступность слота как конъюнкцию всех политик
func isSlotAvailable(in generationInput, slotMinutes int, slotTime types.TimeString) bool {
	// Дневной лимит записей исчерпан - весь день недоступен
	if in.CapReached {
		return false
	}

	// Запись день-в-день запрещена настройками
	if isSameDay(in.Date, in.Now) && !in.Settings.AllowSameDayBooking {
		return false
	}

	// Начало слота должно быть строго в будущем
	slotStart := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(),
		slotMinutes/60, slotMinutes%60, 0, 0, in.Now.Location())
	if !slotStart.After(in.Now) {
		return false
	}

	// Минимальное время до записи
	if slotStart.Sub(in.Now) < time.Duration(in.Settings.MinAdvanceBookingHours)*time.Hour {
		return false
	}

	// Пересечение с существующими записями: слот занимает интервал
	// длиной в услугу, граничные случаи пересечением не считаются
	slotEndMinutes := slotMinutes + in.ServiceDuration
	for _, existing := range in.ConflictSet {
		if existing.Overlaps(slotMinutes, slotEndMinutes) {
			return false
		}
	}

	// Отсутствие сотрудника в это время дня
	if domain.AnyLeaveCovers(in.Leaves, slotTime) {
		return false
	}

	return true
}

package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна
	// или принадлежит другому бизнесу
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден, неактивен
	// или принадлежит другому бизнесу
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = errors.New("create_appointment: business is closed on this date")

	// ErrSameDayBookingDisabled возвращается, когда запись день-в-день запрещена настройками
	ErrSameDayBookingDisabled = errors.New("create_appointment: same-day booking is disabled")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов
	// или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTooLateToBook возвращается при нарушении минимального времени до записи
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrStaffUnavailable возвращается, когда сотрудник отсутствует в это время
	ErrStaffUnavailable = errors.New("create_appointment: staff member is unavailable")

	// ErrSlotNotAvailable возвращается, когда выбранный слот уже занят
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrDailyLimitReached возвращается, когда дневной лимит записей исчерпан
	ErrDailyLimitReached = errors.New("create_appointment: daily appointment limit reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

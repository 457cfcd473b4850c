package domain

// Default appointment settings values
const (
	DefaultSlotDurationMinutes    = 60
	DefaultBufferTimeMinutes      = 15
	DefaultMaxAdvanceBookingDays  = 30
	DefaultMinAdvanceBookingHours = 2
	DefaultMaxDailyAppointments   = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MaxAdvanceBookingDaysLimit  = 365 // 1 year
	MaxAdvanceBookingHoursLimit = 168 // 1 week
	MaxDailyAppointmentsLimit   = 500
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 120
	MinCustomerPhoneLength      = 5
	MaxCustomerPhoneLength      = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ConflictStatuses статусы, при которых запись занимает свой интервал
// Используются при формировании conflict set для генерации слотов и проверки пересечений
var ConflictStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы записей, исключаемых из выборок по умолчанию
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

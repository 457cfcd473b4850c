package models

import "github.com/bookwell/appointment-service/internal/domain"

// Request модели

// UpdateSettingsRequest запрос на обновление настроек записи бизнеса
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	UserID                 int64  `json:"-"`
	UserRole               string `json:"-"`
	SlotDurationMinutes    *int   `json:"slotDuration,omitempty"`
	BufferTimeMinutes      *int   `json:"bufferTime,omitempty"`
	MaxAdvanceBookingDays  *int   `json:"maxAdvanceBookingDays,omitempty"`
	MinAdvanceBookingHours *int   `json:"minAdvanceBookingHours,omitempty"`
	AllowSameDayBooking    *bool  `json:"allowSameDayBooking,omitempty"`
	MaxDailyAppointments   *int   `json:"maxDailyAppointments,omitempty"`
	AutoConfirmation       *bool  `json:"autoConfirmation,omitempty"`
}

// Response модели

// SettingsResponse ответ с действующими настройками записи бизнеса
type SettingsResponse struct {
	BusinessID             int64 `json:"businessId"`
	SlotDurationMinutes    int   `json:"slotDuration"`
	BufferTimeMinutes      int   `json:"bufferTime"`
	MaxAdvanceBookingDays  int   `json:"maxAdvanceBookingDays"`
	MinAdvanceBookingHours int   `json:"minAdvanceBookingHours"`
	AllowSameDayBooking    bool  `json:"allowSameDayBooking"`
	MaxDailyAppointments   int   `json:"maxDailyAppointments"`
	AutoConfirmation       bool  `json:"autoConfirmation"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(businessID int64, s domain.AppointmentSettings) *SettingsResponse {
	return &SettingsResponse{
		BusinessID:             businessID,
		SlotDurationMinutes:    s.SlotDurationMinutes,
		BufferTimeMinutes:      s.BufferTimeMinutes,
		MaxAdvanceBookingDays:  s.MaxAdvanceBookingDays,
		MinAdvanceBookingHours: s.MinAdvanceBookingHours,
		AllowSameDayBooking:    s.AllowSameDayBooking,
		MaxDailyAppointments:   s.MaxDailyAppointments,
		AutoConfirmation:       s.AutoConfirmation,
	}
}

// ApplyToSettings применяет обновления к существующим настройкам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyToSettings(settings *domain.AppointmentSettings) {
	if r.SlotDurationMinutes != nil {
		settings.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BufferTimeMinutes != nil {
		settings.BufferTimeMinutes = *r.BufferTimeMinutes
	}
	if r.MaxAdvanceBookingDays != nil {
		settings.MaxAdvanceBookingDays = *r.MaxAdvanceBookingDays
	}
	if r.MinAdvanceBookingHours != nil {
		settings.MinAdvanceBookingHours = *r.MinAdvanceBookingHours
	}
	if r.AllowSameDayBooking != nil {
		settings.AllowSameDayBooking = *r.AllowSameDayBooking
	}
	if r.MaxDailyAppointments != nil {
		settings.MaxDailyAppointments = *r.MaxDailyAppointments
	}
	if r.AutoConfirmation != nil {
		settings.AutoConfirmation = *r.AutoConfirmation
	}
}

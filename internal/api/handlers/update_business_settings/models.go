package update_business_settings

import "github.com/bookwell/appointment-service/internal/service/settings/models"

// UpdateSettingsRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	SlotDurationMinutes    *int  `json:"slotDuration,omitempty"`
	BufferTimeMinutes      *int  `json:"bufferTime,omitempty"`
	MaxAdvanceBookingDays  *int  `json:"maxAdvanceBookingDays,omitempty"`
	MinAdvanceBookingHours *int  `json:"minAdvanceBookingHours,omitempty"`
	AllowSameDayBooking    *bool `json:"allowSameDayBooking,omitempty"`
	MaxDailyAppointments   *int  `json:"maxDailyAppointments,omitempty"`
	AutoConfirmation       *bool `json:"autoConfirmation,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID int64, userRole string) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                 userID,
		UserRole:               userRole,
		SlotDurationMinutes:    r.SlotDurationMinutes,
		BufferTimeMinutes:      r.BufferTimeMinutes,
		MaxAdvanceBookingDays:  r.MaxAdvanceBookingDays,
		MinAdvanceBookingHours: r.MinAdvanceBookingHours,
		AllowSameDayBooking:    r.AllowSameDayBooking,
		MaxDailyAppointments:   r.MaxDailyAppointments,
		AutoConfirmation:       r.AutoConfirmation,
	}
}

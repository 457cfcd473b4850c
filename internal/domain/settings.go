package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSettingsParse возвращается, когда сохранённый блоб настроек не парсится
// Вызывающая сторона логирует ошибку и продолжает работу на дефолтах
var ErrSettingsParse = errors.New("domain: failed to parse appointment settings")

// AppointmentSettings per-business booking engine configuration.
// Immutable value: resolve produces a fresh record, никогда не мутируется на месте.
type AppointmentSettings struct {
	SlotDurationMinutes int `json:"slotDuration"`
	// BufferTimeMinutes зарезервировано, в расстановке слотов пока не участвует
	BufferTimeMinutes      int  `json:"bufferTime"`
	MaxAdvanceBookingDays  int  `json:"maxAdvanceBookingDays"`
	MinAdvanceBookingHours int  `json:"minAdvanceBookingHours"`
	AllowSameDayBooking    bool `json:"allowSameDayBooking"`
	MaxDailyAppointments   int  `json:"maxDailyAppointments"`
	AutoConfirmation       bool `json:"autoConfirmation"`
}

// settingsPatch промежуточная форма для merge-парсинга: отсутствующие в блобе
// ключи остаются nil и не перетирают дефолты
type settingsPatch struct {
	SlotDurationMinutes    *int  `json:"slotDuration"`
	BufferTimeMinutes      *int  `json:"bufferTime"`
	MaxAdvanceBookingDays  *int  `json:"maxAdvanceBookingDays"`
	MinAdvanceBookingHours *int  `json:"minAdvanceBookingHours"`
	AllowSameDayBooking    *bool `json:"allowSameDayBooking"`
	MaxDailyAppointments   *int  `json:"maxDailyAppointments"`
	AutoConfirmation       *bool `json:"autoConfirmation"`
}

// DefaultAppointmentSettings returns the settings applied when a business
// has no stored configuration
func DefaultAppointmentSettings() AppointmentSettings {
	return AppointmentSettings{
		SlotDurationMinutes:    DefaultSlotDurationMinutes,
		BufferTimeMinutes:      DefaultBufferTimeMinutes,
		MaxAdvanceBookingDays:  DefaultMaxAdvanceBookingDays,
		MinAdvanceBookingHours: DefaultMinAdvanceBookingHours,
		AllowSameDayBooking:    true,
		MaxDailyAppointments:   DefaultMaxDailyAppointments,
		AutoConfirmation:       true,
	}
}

// ParseAppointmentSettings parses the stored blob, merging present keys into
// the defaults key-by-key. Некорректный блоб даёт полные дефолты и ошибку
// (ошибка для логирования, не для проброса клиенту). Невалидные значения
// отдельных полей заменяются дефолтами, чтобы нулевой или отрицательный
// slotDuration не попал делителем в генерацию слотов.
func ParseAppointmentSettings(blob []byte) (AppointmentSettings, error) {
	settings := DefaultAppointmentSettings()

	if len(blob) == 0 {
		return settings, nil
	}

	var patch settingsPatch
	if err := json.Unmarshal(blob, &patch); err != nil {
		return DefaultAppointmentSettings(), fmt.Errorf("%w: %v", ErrSettingsParse, err)
	}

	if patch.SlotDurationMinutes != nil {
		settings.SlotDurationMinutes = *patch.SlotDurationMinutes
	}
	if patch.BufferTimeMinutes != nil {
		settings.BufferTimeMinutes = *patch.BufferTimeMinutes
	}
	if patch.MaxAdvanceBookingDays != nil {
		settings.MaxAdvanceBookingDays = *patch.MaxAdvanceBookingDays
	}
	if patch.MinAdvanceBookingHours != nil {
		settings.MinAdvanceBookingHours = *patch.MinAdvanceBookingHours
	}
	if patch.AllowSameDayBooking != nil {
		settings.AllowSameDayBooking = *patch.AllowSameDayBooking
	}
	if patch.MaxDailyAppointments != nil {
		settings.MaxDailyAppointments = *patch.MaxDailyAppointments
	}
	if patch.AutoConfirmation != nil {
		settings.AutoConfirmation = *patch.AutoConfirmation
	}

	return settings.sanitized(), nil
}

// sanitized заменяет семантически невалидные значения дефолтами
func (s AppointmentSettings) sanitized() AppointmentSettings {
	if s.SlotDurationMinutes <= 0 {
		s.SlotDurationMinutes = DefaultSlotDurationMinutes
	}
	if s.BufferTimeMinutes < 0 {
		s.BufferTimeMinutes = DefaultBufferTimeMinutes
	}
	if s.MaxAdvanceBookingDays < 0 {
		s.MaxAdvanceBookingDays = DefaultMaxAdvanceBookingDays
	}
	if s.MinAdvanceBookingHours < 0 {
		s.MinAdvanceBookingHours = DefaultMinAdvanceBookingHours
	}
	if s.MaxDailyAppointments < 0 {
		s.MaxDailyAppointments = DefaultMaxDailyAppointments
	}
	return s
}

// Marshal сериализует настройки обратно в блоб для хранения
func (s AppointmentSettings) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

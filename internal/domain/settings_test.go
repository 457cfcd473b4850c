package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppointmentSettings_EmptyBlobGivesDefaults(t *testing.T) {
	settings, err := ParseAppointmentSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAppointmentSettings(), settings)

	settings, err = ParseAppointmentSettings([]byte{})
	require.NoError(t, err)
	assert.Equal(t, DefaultAppointmentSettings(), settings)
}

func TestParseAppointmentSettings_MergesPresentKeysOnly(t *testing.T) {
	blob := []byte(`{"slotDuration": 30, "allowSameDayBooking": false}`)

	settings, err := ParseAppointmentSettings(blob)
	require.NoError(t, err)

	assert.Equal(t, 30, settings.SlotDurationMinutes)
	assert.False(t, settings.AllowSameDayBooking)
	// Отсутствующие ключи остаются дефолтными
	assert.Equal(t, DefaultBufferTimeMinutes, settings.BufferTimeMinutes)
	assert.Equal(t, DefaultMaxAdvanceBookingDays, settings.MaxAdvanceBookingDays)
	assert.Equal(t, DefaultMinAdvanceBookingHours, settings.MinAdvanceBookingHours)
	assert.True(t, settings.AutoConfirmation)
}

func TestParseAppointmentSettings_CorruptBlob(t *testing.T) {
	settings, err := ParseAppointmentSettings([]byte(`{not json`))

	assert.ErrorIs(t, err, ErrSettingsParse)
	// При ошибке парсинга возвращаются полные дефолты
	assert.Equal(t, DefaultAppointmentSettings(), settings)
}

func TestParseAppointmentSettings_SanitizesInvalidValues(t *testing.T) {
	blob := []byte(`{"slotDuration": 0, "bufferTime": -5, "maxDailyAppointments": -1}`)

	settings, err := ParseAppointmentSettings(blob)
	require.NoError(t, err)

	// Нулевой slotDuration не должен попасть делителем в генерацию слотов
	assert.Equal(t, DefaultSlotDurationMinutes, settings.SlotDurationMinutes)
	assert.Equal(t, DefaultBufferTimeMinutes, settings.BufferTimeMinutes)
	assert.Equal(t, DefaultMaxDailyAppointments, settings.MaxDailyAppointments)
}

func TestAppointmentSettings_MarshalRoundTrip(t *testing.T) {
	original := AppointmentSettings{
		SlotDurationMinutes:    45,
		BufferTimeMinutes:      10,
		MaxAdvanceBookingDays:  60,
		MinAdvanceBookingHours: 4,
		AllowSameDayBooking:    false,
		MaxDailyAppointments:   12,
		AutoConfirmation:       false,
	}

	blob, err := original.Marshal()
	require.NoError(t, err)

	parsed, err := ParseAppointmentSettings(blob)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

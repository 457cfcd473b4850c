package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		want    int
		wantErr bool
	}{
		{name: "midnight", value: "00:00", want: 0},
		{name: "morning", value: "09:30", want: 570},
		{name: "end of day boundary", value: "24:00", want: 1440},
		{name: "last minute", value: "23:59", want: 1439},
		{name: "past end of day", value: "24:01", wantErr: true},
		{name: "hour out of range", value: "25:00", wantErr: true},
		{name: "minute out of range", value: "10:60", wantErr: true},
		{name: "missing separator", value: "1000", wantErr: true},
		{name: "with seconds", value: "10:00:00", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Minutes()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(570)
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	ts, err = NewTimeStringFromMinutes(1440)
	require.NoError(t, err)
	assert.Equal(t, "24:00", ts.String())

	_, err = NewTimeStringFromMinutes(-1)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = NewTimeStringFromMinutes(1441)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:15").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:00"), ts)

	// Сдвиг за границу суток недопустим
	_, err = TimeString("23:30").AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:30").IsAfter("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("10:00"))

	// Некорректные значения никогда не "раньше" и не "позже"
	assert.False(t, TimeString("bad").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("bad"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	// Колонки TIME приходят с секундами
	require.NoError(t, ts.Scan("18:45:00"))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan([]byte("07:05")))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 3, 1, 13, 20, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("13:20"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

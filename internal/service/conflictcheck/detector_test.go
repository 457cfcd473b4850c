package conflictcheck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/ptr"
	"github.com/bookwell/appointment-service/pkg/types"
)

type stubAppointmentRepo struct {
	appointments []*domain.Appointment
	lastFilter   domain.BusinessAppointmentsFilter
}

func (s *stubAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	s.lastFilter = filter
	return s.appointments, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func TestDetector_HasConflict(t *testing.T) {
	repo := &stubAppointmentRepo{
		appointments: []*domain.Appointment{
			{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}
	detector := NewDetector(repo, nopLogger{})

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{name: "overlapping interval", start: "10:30", end: "11:30", want: true},
		{name: "contained interval", start: "10:15", end: "10:45", want: true},
		{name: "touching end boundary", start: "11:00", end: "12:00", want: false},
		{name: "touching start boundary", start: "09:00", end: "10:00", want: false},
		{name: "disjoint interval", start: "14:00", end: "15:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detector.HasConflict(context.Background(), 1, nil, testDate,
				types.TimeString(tt.start), types.TimeString(tt.end), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetector_HasConflict_ExcludesAppointment(t *testing.T) {
	repo := &stubAppointmentRepo{
		appointments: []*domain.Appointment{
			{ID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}
	detector := NewDetector(repo, nopLogger{})

	// Редактируемая запись не конфликтует с самой собой
	got, err := detector.HasConflict(context.Background(), 1, nil, testDate,
		"10:00", "11:00", ptr.Ptr(int64(1)))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestDetector_ConflictSet_StaffFilterIsLiteral(t *testing.T) {
	repo := &stubAppointmentRepo{}
	detector := NewDetector(repo, nopLogger{})

	// Без сотрудника: только записи без закрепления
	_, err := detector.ConflictSet(context.Background(), 1, nil, testDate)
	require.NoError(t, err)
	assert.Nil(t, repo.lastFilter.StaffID)
	assert.True(t, repo.lastFilter.StaffUnassigned)
	assert.Equal(t, domain.ConflictStatuses, repo.lastFilter.Statuses)

	// С сотрудником: только записи этого сотрудника
	_, err = detector.ConflictSet(context.Background(), 1, ptr.Ptr(int64(5)), testDate)
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.StaffID)
	assert.Equal(t, int64(5), *repo.lastFilter.StaffID)
	assert.False(t, repo.lastFilter.StaffUnassigned)
}

package leaves

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/types"
)

type stubLeaveRepo struct {
	leaves []*domain.StaffLeave
}

func (s *stubLeaveRepo) GetApprovedForDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error) {
	return s.leaves, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestRegistry_IsUnavailable(t *testing.T) {
	start := types.TimeString("13:00")
	end := types.TimeString("15:00")
	repo := &stubLeaveRepo{
		leaves: []*domain.StaffLeave{
			{Type: domain.LeavePartial, StartTime: &start, EndTime: &end, Status: domain.LeaveStatusApproved},
		},
	}
	registry := NewRegistry(repo, nopLogger{})
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	unavailable, err := registry.IsUnavailable(context.Background(), 5, date, "14:00")
	require.NoError(t, err)
	assert.True(t, unavailable)

	unavailable, err = registry.IsUnavailable(context.Background(), 5, date, "15:00")
	require.NoError(t, err)
	assert.False(t, unavailable)

	// Без заявок сотрудник доступен
	repo.leaves = nil
	unavailable, err = registry.IsUnavailable(context.Background(), 5, date, "14:00")
	require.NoError(t, err)
	assert.False(t, unavailable)
}

package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwell/appointment-service/internal/domain"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	catalogRepo "github.com/bookwell/appointment-service/internal/infra/storage/catalog"
	"github.com/bookwell/appointment-service/pkg/ptr"
)

type stubAppointmentRepo struct {
	count int
	err   error
}

func (s *stubAppointmentRepo) CountOnDate(ctx context.Context, businessID int64, date time.Time) (int, error) {
	return s.count, s.err
}

type stubBusinessRepo struct {
	business *domain.Business
	hours    []domain.WorkingHour
	err      error
}

func (s *stubBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.business, nil
}

func (s *stubBusinessRepo) GetWorkingHours(ctx context.Context, businessID int64) ([]domain.WorkingHour, error) {
	return s.hours, nil
}

type stubCatalogRepo struct {
	service    *domain.Service
	serviceErr error
	staff      *domain.Staff
	staffErr   error
}

func (s *stubCatalogRepo) GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	if s.serviceErr != nil {
		return nil, s.serviceErr
	}
	return s.service, nil
}

func (s *stubCatalogRepo) GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	if s.staffErr != nil {
		return nil, s.staffErr
	}
	return s.staff, nil
}

type stubSettingsResolver struct {
	settings domain.AppointmentSettings
}

func (s *stubSettingsResolver) Resolve(ctx context.Context, businessID int64) (domain.AppointmentSettings, error) {
	return s.settings, nil
}

type stubConflictDetector struct {
	conflicts []*domain.Appointment
}

func (s *stubConflictDetector) ConflictSet(ctx context.Context, businessID int64, staffID *int64, date time.Time) ([]*domain.Appointment, error) {
	return s.conflicts, nil
}

type stubLeaveRegistry struct {
	leaves []*domain.StaffLeave
	calls  int
}

func (s *stubLeaveRegistry) LeavesOn(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error) {
	s.calls++
	return s.leaves, nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type useCaseDeps struct {
	appointments *stubAppointmentRepo
	businesses   *stubBusinessRepo
	catalog      *stubCatalogRepo
	settings     *stubSettingsResolver
	conflicts    *stubConflictDetector
	leaves       *stubLeaveRegistry
	now          time.Time
}

func defaultDeps() *useCaseDeps {
	settings := domain.DefaultAppointmentSettings()
	settings.MinAdvanceBookingHours = 0

	return &useCaseDeps{
		appointments: &stubAppointmentRepo{},
		businesses: &stubBusinessRepo{
			business: &domain.Business{ID: 1, IsActive: true},
			hours: []domain.WorkingHour{
				// 2025-06-10 - вторник (weekday 2)
				{DayOfWeek: 2, IsOpen: true, OpenTime: "09:00", CloseTime: "12:00"},
			},
		},
		catalog: &stubCatalogRepo{
			service: &domain.Service{ID: 10, BusinessID: 1, DurationMinutes: 60, IsActive: true},
			staff:   &domain.Staff{ID: 5, BusinessID: 1, IsActive: true},
		},
		settings:  &stubSettingsResolver{settings: settings},
		conflicts: &stubConflictDetector{},
		leaves:    &stubLeaveRegistry{},
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (d *useCaseDeps) build() *UseCase {
	uc := NewUseCase(d.appointments, d.businesses, d.catalog, d.settings, d.conflicts, d.leaves, nopLogger{})
	uc.timeProvider = &fixedTime{now: d.now}
	return uc
}

func validRequest() *Request {
	return &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	deps := defaultDeps()
	uc := deps.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.BusinessID)
	assert.Len(t, resp.Slots, 3)
	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
	// Без указанного сотрудника реестр отсутствий не опрашивается
	assert.Zero(t, deps.leaves.calls)
}

func TestUseCase_Execute_ValidationErrors(t *testing.T) {
	uc := defaultDeps().build()

	tests := []struct {
		name string
		mut  func(*Request)
	}{
		{name: "non-positive business id", mut: func(r *Request) { r.BusinessID = 0 }},
		{name: "non-positive service id", mut: func(r *Request) { r.ServiceID = -1 }},
		{name: "non-positive staff id", mut: func(r *Request) { r.StaffID = ptr.Ptr(int64(0)) }},
		{name: "zero date", mut: func(r *Request) { r.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mut(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_BusinessNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.businesses.err = businessRepo.ErrBusinessNotFound
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUseCase_Execute_InactiveBusinessTreatedAsNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.businesses.business.IsActive = false
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUseCase_Execute_ServiceNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.serviceErr = catalogRepo.ErrServiceNotFound
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_InactiveStaffTreatedAsNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.staff.IsActive = false
	uc := deps.build()

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(5))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUseCase_Execute_DateInPast(t *testing.T) {
	uc := defaultDeps().build()

	req := validRequest()
	req.Date = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUseCase_Execute_DateTooFarInFuture(t *testing.T) {
	deps := defaultDeps()
	deps.settings.settings.MaxAdvanceBookingDays = 7
	uc := deps.build()

	req := validRequest()
	req.Date = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err, "date on the boundary is allowed")

	req.Date = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestUseCase_Execute_ClosedDayReturnsEmptySlots(t *testing.T) {
	deps := defaultDeps()
	deps.businesses.hours = nil
	uc := deps.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_ConflictsMarkSlotsUnavailable(t *testing.T) {
	deps := defaultDeps()
	deps.conflicts.conflicts = []*domain.Appointment{
		{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := deps.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	byTime := map[string]bool{}
	for _, s := range resp.Slots {
		byTime[s.StartTime.String()] = s.Available
	}
	assert.True(t, byTime["09:00"])
	assert.False(t, byTime["10:00"])
	assert.True(t, byTime["11:00"])
}

func TestUseCase_Execute_StaffLeavesApplied(t *testing.T) {
	deps := defaultDeps()
	deps.leaves.leaves = []*domain.StaffLeave{{Type: domain.LeaveFullDay}}
	uc := deps.build()

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(5))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, deps.leaves.calls)
	for _, s := range resp.Slots {
		assert.False(t, s.Available, "slot %s", s.StartTime)
	}
}

func TestUseCase_Execute_DailyCap(t *testing.T) {
	deps := defaultDeps()
	deps.settings.settings.MaxDailyAppointments = 3
	deps.appointments.count = 3
	uc := deps.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 3)
	for _, s := range resp.Slots {
		assert.False(t, s.Available, "slot %s", s.StartTime)
	}
}

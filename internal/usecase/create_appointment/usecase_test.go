package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwell/appointment-service/internal/domain"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
	"github.com/bookwell/appointment-service/pkg/ptr"
	"github.com/bookwell/appointment-service/pkg/simpletxmanager"
	"github.com/bookwell/appointment-service/pkg/txmanager"
	"github.com/bookwell/appointment-service/pkg/types"
)

type stubAppointmentRepo struct {
	created *domain.Appointment
	count   int
}

func (s *stubAppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	created := *appt
	created.ID = 42
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.created = &created
	return &created, nil
}

func (s *stubAppointmentRepo) CountOnDate(ctx context.Context, businessID int64, date time.Time) (int, error) {
	return s.count, nil
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
	service *domain.Service
	staff   *domain.Staff
}

func (s *stubCatalogRepo) GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	return s.service, nil
}

func (s *stubCatalogRepo) GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	return s.staff, nil
}

type stubSettingsResolver struct {
	settings domain.AppointmentSettings
}

func (s *stubSettingsResolver) Resolve(ctx context.Context, businessID int64) (domain.AppointmentSettings, error) {
	return s.settings, nil
}

type stubConflictDetector struct {
	hasConflict bool
	start       types.TimeString
	end         types.TimeString
}

func (s *stubConflictDetector) HasConflict(ctx context.Context, businessID int64, staffID *int64,
	date time.Time, start, end types.TimeString, excludeAppointmentID *int64) (bool, error) {
	s.start = start
	s.end = end
	return s.hasConflict, nil
}

type stubLeaveRegistry struct {
	unavailable bool
}

func (s *stubLeaveRegistry) IsUnavailable(ctx context.Context, staffID int64, date time.Time, timeOfDay types.TimeString) (bool, error) {
	return s.unavailable, nil
}

type stubNotifyClient struct {
	mu     sync.Mutex
	events []*notifyservice.AppointmentCreatedEvent
	done   chan struct{}
}

func newStubNotifyClient() *stubNotifyClient {
	return &stubNotifyClient{done: make(chan struct{}, 1)}
}

func (s *stubNotifyClient) SendAppointmentCreated(ctx context.Context, event *notifyservice.AppointmentCreatedEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

// inlineTxManager выполняет функцию без реальной транзакции
type inlineTxManager struct {
	err error
}

func (m *inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

func (m *inlineTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
	notify       *stubNotifyClient
	tx           *inlineTxManager
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
				{DayOfWeek: 2, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
			},
		},
		catalog: &stubCatalogRepo{
			service: &domain.Service{
				ID: 10, BusinessID: 1, Name: "Haircut", Price: 50,
				DurationMinutes: 90, IsActive: true,
			},
			staff: &domain.Staff{ID: 5, BusinessID: 1, IsActive: true},
		},
		settings:  &stubSettingsResolver{settings: settings},
		conflicts: &stubConflictDetector{},
		leaves:    &stubLeaveRegistry{},
		notify:    newStubNotifyClient(),
		tx:        &inlineTxManager{},
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (d *useCaseDeps) build() *UseCase {
	uc := NewUseCase(d.appointments, d.businesses, d.catalog, d.settings,
		d.conflicts, d.leaves, d.notify, d.tx, nopLogger{})
	uc.timeProvider = &fixedTime{now: d.now}
	return uc
}

func validRequest() *Request {
	return &Request{
		BusinessID:    1,
		ServiceID:     10,
		Date:          time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		CustomerName:  "Анна Петрова",
		CustomerPhone: "+79991234567",
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	deps := defaultDeps()
	uc := deps.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	// Новая запись всегда PENDING, независимо от autoConfirmation
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// Данные услуги денормализуются на момент записи
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 50.0, resp.ServicePrice)
	assert.Equal(t, 90, resp.DurationMinutes)

	// Проверка конфликтов идёт по интервалу длиной в услугу
	assert.Equal(t, types.TimeString("10:00"), deps.conflicts.start)
	assert.Equal(t, types.TimeString("11:30"), deps.conflicts.end)

	// Уведомление отправляется в фоне
	select {
	case <-deps.notify.done:
	case <-time.After(time.Second):
		t.Fatal("expected creation notification")
	}
	assert.Equal(t, int64(42), deps.notify.events[0].AppointmentID)
}

func TestUseCase_Execute_ValidationErrors(t *testing.T) {
	uc := defaultDeps().build()

	longNotes := string(make([]byte, domain.MaxNotesLength+1))

	tests := []struct {
		name string
		mut  func(*Request)
	}{
		{name: "missing customer name", mut: func(r *Request) { r.CustomerName = "  " }},
		{name: "missing customer phone", mut: func(r *Request) { r.CustomerPhone = "" }},
		{name: "phone too short", mut: func(r *Request) { r.CustomerPhone = "123" }},
		{name: "invalid email", mut: func(r *Request) { r.CustomerEmail = ptr.Ptr("not-an-email") }},
		{name: "notes too long", mut: func(r *Request) { r.Notes = &longNotes }},
		{name: "missing time", mut: func(r *Request) { r.StartTime = "" }},
		{name: "bad time format", mut: func(r *Request) { r.StartTime = "25:99" }},
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

func TestUseCase_Execute_BusinessClosed(t *testing.T) {
	deps := defaultDeps()
	deps.businesses.hours = nil
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestUseCase_Execute_SlotGridAlignment(t *testing.T) {
	deps := defaultDeps()
	uc := deps.build()

	// Сетка с шагом 60 минут от 09:00: 10:30 мимо сетки
	req := validRequest()
	req.StartTime = "10:30"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	// Вне рабочих часов
	req = validRequest()
	req.StartTime = "08:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	// Время закрытия не является началом слота
	req = validRequest()
	req.StartTime = "18:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestUseCase_Execute_LeadTime(t *testing.T) {
	deps := defaultDeps()
	deps.settings.settings.MinAdvanceBookingHours = 2
	deps.now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	uc := deps.build()

	req := validRequest()
	req.StartTime = "10:00"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)

	// Ровно два часа до начала - допустимо
	req = validRequest()
	req.StartTime = "11:00"
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestUseCase_Execute_SameDayBookingDisabled(t *testing.T) {
	deps := defaultDeps()
	deps.settings.settings.AllowSameDayBooking = false
	deps.now = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSameDayBookingDisabled)
}

func TestUseCase_Execute_StaffOnLeave(t *testing.T) {
	deps := defaultDeps()
	deps.leaves.unavailable = true
	uc := deps.build()

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(5))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffUnavailable)
}

func TestUseCase_Execute_DailyLimitReached(t *testing.T) {
	deps := defaultDeps()
	deps.settings.settings.MaxDailyAppointments = 5
	deps.appointments.count = 5
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestUseCase_Execute_SlotConflict(t *testing.T) {
	deps := defaultDeps()
	deps.conflicts.hasConflict = true
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, deps.appointments.created)
}

func TestUseCase_Execute_SerializationFailureMapsToSlotNotAvailable(t *testing.T) {
	// Конкурентная транзакция заняла пересекающийся интервал.
	// Оба менеджера транзакций (с метриками и без) должны отдавать
	// один и тот же sentinel, иначе вызывающий получит 500 вместо 409
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "txmanager",
			err:  fmt.Errorf("%w: %v", txmanager.ErrSerializationFailure, errors.New("pq: could not serialize access")),
		},
		{
			name: "simpletxmanager",
			err:  fmt.Errorf("%w: %v", simpletxmanager.ErrSerializationFailure, errors.New("pq: could not serialize access")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.tx.err = tt.err
			uc := deps.build()

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		})
	}
}

func TestUseCase_Execute_InactiveBusiness(t *testing.T) {
	deps := defaultDeps()
	deps.businesses.business.IsActive = false
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUseCase_Execute_BusinessNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.businesses.err = businessRepo.ErrBusinessNotFound
	uc := deps.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

package appointments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwell/appointment-service/internal/domain"
	appointmentRepo "github.com/bookwell/appointment-service/internal/infra/storage/appointment"
	inviteRepoStorage "github.com/bookwell/appointment-service/internal/infra/storage/reviewinvite"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
	"github.com/bookwell/appointment-service/internal/service/appointments/models"
)

type stubAppointmentRepo struct {
	appointment   *domain.Appointment
	getErr        error
	updatedStatus *domain.AppointmentStatus
	cancelled     bool
	cancelReason  string
	listed        []*domain.Appointment
	lastFilter    domain.BusinessAppointmentsFilter
}

func (s *stubAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.appointment, nil
}

func (s *stubAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	s.lastFilter = filter
	return s.listed, nil
}

func (s *stubAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	s.updatedStatus = &status
	return nil
}

func (s *stubAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	s.cancelled = true
	s.cancelReason = reason
	return nil
}

type stubBusinessRepo struct {
	business *domain.Business
}

func (s *stubBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	return s.business, nil
}

type stubInviteRepo struct {
	created   *domain.ReviewInvitation
	createErr error
}

func (s *stubInviteRepo) Create(ctx context.Context, invite *domain.ReviewInvitation) (*domain.ReviewInvitation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := *invite
	created.ID = 7
	s.created = &created
	return &created, nil
}

func (s *stubInviteRepo) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.ReviewInvitation, error) {
	if s.created == nil {
		return nil, inviteRepoStorage.ErrInviteNotFound
	}
	return s.created, nil
}

type stubNotifyClient struct {
	mu     sync.Mutex
	events []*notifyservice.ReviewInviteEvent
	done   chan struct{}
}

func newStubNotifyClient() *stubNotifyClient {
	return &stubNotifyClient{done: make(chan struct{}, 1)}
}

func (s *stubNotifyClient) SendReviewInvite(ctx context.Context, event *notifyservice.ReviewInviteEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type serviceDeps struct {
	appointments *stubAppointmentRepo
	businesses   *stubBusinessRepo
	invites      *stubInviteRepo
	notify       *stubNotifyClient
}

func defaultDeps() *serviceDeps {
	return &serviceDeps{
		appointments: &stubAppointmentRepo{
			appointment: &domain.Appointment{
				ID:              42,
				BusinessID:      1,
				ServiceID:       10,
				Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				StartTime:       "10:00",
				DurationMinutes: 60,
				CustomerPhone:   "+79991234567",
				Status:          domain.StatusConfirmed,
			},
		},
		businesses: &stubBusinessRepo{
			business: &domain.Business{ID: 1, OwnerUserID: 100, IsActive: true},
		},
		invites: &stubInviteRepo{},
		notify:  newStubNotifyClient(),
	}
}

func (d *serviceDeps) build() *Service {
	return NewService(d.appointments, d.businesses, d.invites, d.notify, nopLogger{})
}

func TestService_GetByID_OwnerAccess(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	resp, err := svc.GetByID(context.Background(), 42, 100, "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
}

func TestService_GetByID_AdminBypassesOwnership(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	_, err := svc.GetByID(context.Background(), 42, 999, RoleAdmin)
	assert.NoError(t, err)
}

func TestService_GetByID_ForeignUserDenied(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	_, err := svc.GetByID(context.Background(), 42, 999, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetByID_NotFound(t *testing.T) {
	deps := defaultDeps()
	deps.appointments.getErr = appointmentRepo.ErrAppointmentNotFound
	svc := deps.build()

	_, err := svc.GetByID(context.Background(), 42, 100, "")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_Cancel(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	err := svc.Cancel(context.Background(), 42, &models.CancelAppointmentRequest{
		UserID:             100,
		CancellationReason: "клиент попросил перенести",
	})
	require.NoError(t, err)
	assert.True(t, deps.appointments.cancelled)
	assert.Equal(t, "клиент попросил перенести", deps.appointments.cancelReason)
}

func TestService_Cancel_TerminalStatus(t *testing.T) {
	deps := defaultDeps()
	deps.appointments.appointment.Status = domain.StatusCompleted
	svc := deps.build()

	err := svc.Cancel(context.Background(), 42, &models.CancelAppointmentRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.False(t, deps.appointments.cancelled)
}

func TestService_Cancel_ReasonTooLong(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	longReason := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range longReason {
		longReason[i] = 'x'
	}

	err := svc.Cancel(context.Background(), 42, &models.CancelAppointmentRequest{
		UserID:             100,
		CancellationReason: string(longReason),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateStatus_ValidTransition(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		UserID: 100,
		Status: "no_show",
	})
	require.NoError(t, err)
	require.NotNil(t, deps.appointments.updatedStatus)
	assert.Equal(t, domain.StatusNoShow, *deps.appointments.updatedStatus)
	// no_show не порождает приглашение на отзыв
	assert.Nil(t, deps.invites.created)
}

func TestService_UpdateStatus_UnknownStatus(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		UserID: 100,
		Status: "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateStatus_InvalidTransition(t *testing.T) {
	deps := defaultDeps()
	deps.appointments.appointment.Status = domain.StatusCancelled
	svc := deps.build()

	err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		UserID: 100,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, deps.appointments.updatedStatus)
}

func TestService_UpdateStatus_CompletedCreatesReviewInvite(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		UserID: 100,
		Status: "completed",
	})
	require.NoError(t, err)

	require.NotNil(t, deps.invites.created)
	assert.Equal(t, int64(42), deps.invites.created.AppointmentID)
	assert.Equal(t, "+79991234567", deps.invites.created.CustomerPhone)
	assert.NotEmpty(t, deps.invites.created.Token)

	select {
	case <-deps.notify.done:
	case <-time.After(time.Second):
		t.Fatal("expected review invite notification")
	}
	assert.Equal(t, deps.invites.created.Token, deps.notify.events[0].Token)
}

func TestService_UpdateStatus_CompletedWithoutPhoneSkipsInvite(t *testing.T) {
	deps := defaultDeps()
	deps.appointments.appointment.CustomerPhone = ""
	svc := deps.build()

	err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		UserID: 100,
		Status: "completed",
	})
	require.NoError(t, err)
	assert.Nil(t, deps.invites.created)
}

func TestService_UpdateStatus_DuplicateInviteTolerated(t *testing.T) {
	deps := defaultDeps()
	deps.invites.createErr = inviteRepoStorage.ErrInviteAlreadyExists
	svc := deps.build()

	// Повторное завершение не должно падать из-за существующего приглашения
	err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		UserID: 100,
		Status: "completed",
	})
	assert.NoError(t, err)
}

func TestService_GetByBusiness_FilterMapping(t *testing.T) {
	deps := defaultDeps()
	deps.appointments.listed = []*domain.Appointment{deps.appointments.appointment}
	svc := deps.build()

	status := "confirmed"
	resp, err := svc.GetByBusiness(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     100,
		BusinessID: 1,
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	require.NotNil(t, deps.appointments.lastFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *deps.appointments.lastFilter.Status)
}

func TestService_GetByBusiness_AccessDenied(t *testing.T) {
	deps := defaultDeps()
	svc := deps.build()

	_, err := svc.GetByBusiness(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     999,
		BusinessID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

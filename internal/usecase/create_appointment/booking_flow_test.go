package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/internal/service/conflictcheck"
	getAvailableSlots "github.com/bookwell/appointment-service/internal/usecase/get_available_slots"
	"github.com/bookwell/appointment-service/pkg/types"
)

// memAppointmentStore хранит записи в памяти и реализует контракты
// репозитория и для создания записи, и для детектора конфликтов.
// Позволяет прогонять повторные коммиты через настоящую перепроверку
// конфликтов вместо заглушки
type memAppointmentStore struct {
	nextID       int64
	appointments []*domain.Appointment
}

func (s *memAppointmentStore) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.nextID++
	created := *appt
	created.ID = s.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.appointments = append(s.appointments, &created)
	return &created, nil
}

func (s *memAppointmentStore) CountOnDate(ctx context.Context, businessID int64, date time.Time) (int, error) {
	count := 0
	for _, a := range s.appointments {
		if a.BusinessID == businessID && a.Date.Equal(date) && a.BlocksSlot() {
			count++
		}
	}
	return count, nil
}

func (s *memAppointmentStore) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range s.appointments {
		if a.BusinessID != filter.BusinessID {
			continue
		}
		if filter.StaffUnassigned && a.StaffID != nil {
			continue
		}
		if filter.StaffID != nil && (a.StaffID == nil || *a.StaffID != *filter.StaffID) {
			continue
		}
		if filter.StartDate != nil && a.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && a.Date.After(*filter.EndDate) {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(filter.Statuses, a.Status) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func statusIn(statuses []domain.AppointmentStatus, s domain.AppointmentStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// emptyLeaveCalendar реестр отсутствий без единого отсутствия
type emptyLeaveCalendar struct{}

func (emptyLeaveCalendar) LeavesOn(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error) {
	return nil, nil
}

// bookingEnv связывает создание записи и чтение слотов через общее
// in-memory хранилище и общий детектор конфликтов
type bookingEnv struct {
	store  *memAppointmentStore
	notify *stubNotifyClient
	create *UseCase
	slots  *getAvailableSlots.UseCase
	date   time.Time
}

func newBookingEnv() *bookingEnv {
	store := &memAppointmentStore{}
	detector := conflictcheck.NewDetector(store, nopLogger{})

	settings := domain.DefaultAppointmentSettings()
	settings.MinAdvanceBookingHours = 0

	// Открыты каждый день, чтобы дата вперёд на неделю всегда была рабочей
	hours := make([]domain.WorkingHour, 0, 7)
	for day := 0; day < 7; day++ {
		hours = append(hours, domain.WorkingHour{
			DayOfWeek: day, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00",
		})
	}

	businesses := &stubBusinessRepo{
		business: &domain.Business{ID: 1, IsActive: true},
		hours:    hours,
	}
	catalog := &stubCatalogRepo{
		service: &domain.Service{
			ID: 10, BusinessID: 1, Name: "Haircut", Price: 50,
			DurationMinutes: 90, IsActive: true,
		},
	}
	resolver := &stubSettingsResolver{settings: settings}
	notify := newStubNotifyClient()

	env := &bookingEnv{
		store:  store,
		notify: notify,
	}
	env.create = NewUseCase(store, businesses, catalog, resolver,
		detector, &stubLeaveRegistry{}, notify, &inlineTxManager{}, nopLogger{})
	env.slots = getAvailableSlots.NewUseCase(store, businesses, catalog, resolver,
		detector, emptyLeaveCalendar{}, nopLogger{})

	now := time.Now().UTC()
	env.date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7)
	return env
}

func (e *bookingEnv) request(start types.TimeString) *Request {
	return &Request{
		BusinessID:    1,
		ServiceID:     10,
		Date:          e.date,
		StartTime:     start,
		CustomerName:  "Анна Петрова",
		CustomerPhone: "+79991234567",
	}
}

func (e *bookingEnv) waitNotify(t *testing.T) {
	t.Helper()
	select {
	case <-e.notify.done:
	case <-time.After(time.Second):
		t.Fatal("expected creation notification")
	}
}

func slotAvailable(slots []getAvailableSlots.Slot, start types.TimeString) bool {
	for _, s := range slots {
		if s.StartTime == start {
			return s.Available
		}
	}
	return false
}

func TestUseCase_Execute_RepeatedBookingOfSameSlot(t *testing.T) {
	env := newBookingEnv()

	resp, err := env.create.Execute(context.Background(), env.request("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	env.waitNotify(t)

	// Повторный коммит того же интервала упирается в перепроверку
	// конфликтов внутри транзакции
	_, err = env.create.Execute(context.Background(), env.request("10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, env.store.appointments, 1)
}

func TestUseCase_Execute_OverlappingBookingRejected(t *testing.T) {
	env := newBookingEnv()

	_, err := env.create.Execute(context.Background(), env.request("10:00"))
	require.NoError(t, err)
	env.waitNotify(t)

	// 11:00 + 90 минут услуги пересекает занятый интервал 10:00-11:30
	_, err = env.create.Execute(context.Background(), env.request("11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, env.store.appointments, 1)

	// Непересекающийся интервал проходит
	_, err = env.create.Execute(context.Background(), env.request("12:00"))
	require.NoError(t, err)
	env.waitNotify(t)
	assert.Len(t, env.store.appointments, 2)
}

func TestUseCase_Execute_CommittedBookingBlocksSlotRead(t *testing.T) {
	env := newBookingEnv()
	slotsReq := &getAvailableSlots.Request{BusinessID: 1, ServiceID: 10, Date: env.date}

	before, err := env.slots.Execute(context.Background(), slotsReq)
	require.NoError(t, err)
	assert.True(t, slotAvailable(before.Slots, "10:00"))

	_, err = env.create.Execute(context.Background(), env.request("10:00"))
	require.NoError(t, err)
	env.waitNotify(t)

	// Занятый интервал 10:00-11:30 гасит все пересекающиеся с ним слоты
	after, err := env.slots.Execute(context.Background(), slotsReq)
	require.NoError(t, err)
	assert.False(t, slotAvailable(after.Slots, "09:00"))
	assert.False(t, slotAvailable(after.Slots, "10:00"))
	assert.False(t, slotAvailable(after.Slots, "11:00"))
	assert.True(t, slotAvailable(after.Slots, "12:00"))
}

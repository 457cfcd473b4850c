package conflictcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/types"
)

// Detector проверяет пересечение предлагаемого интервала с существующими записями
//
// Conflict set - записи бизнеса на дату в статусах pending/confirmed.
// Фильтр по сотруднику буквальный: при заданном staffID сравниваются только
// записи этого сотрудника, при незаданном - только записи без сотрудника.
// Запись без сотрудника НЕ конфликтует с записью, закреплённой за сотрудником.
//
// Вызов внутри транзакции автоматически блокирует строки дня (FOR UPDATE
// добавляет репозиторий) - повторная проверка при коммите закрывает гонку
// между чтением слотов и созданием записи.
type Detector struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewDetector создает новый экземпляр детектора конфликтов
func NewDetector(appointmentRepo AppointmentRepository, logger Logger) *Detector {
	return &Detector{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// HasConflict проверяет, пересекается ли [start, end) с активной записью
// excludeAppointmentID позволяет перепроверять редактируемую запись без
// конфликта с самой собой
func (d *Detector) HasConflict(
	ctx context.Context,
	businessID int64,
	staffID *int64,
	date time.Time,
	start types.TimeString,
	end types.TimeString,
	excludeAppointmentID *int64,
) (bool, error) {
	conflictSet, err := d.ConflictSet(ctx, businessID, staffID, date)
	if err != nil {
		return false, err
	}

	startMinutes, err := start.Minutes()
	if err != nil {
		return false, fmt.Errorf("conflictcheck: invalid start time %q: %w", start, err)
	}
	endMinutes, err := end.Minutes()
	if err != nil {
		return false, fmt.Errorf("conflictcheck: invalid end time %q: %w", end, err)
	}

	for _, existing := range conflictSet {
		if excludeAppointmentID != nil && existing.ID == *excludeAppointmentID {
			continue
		}
		if existing.Overlaps(startMinutes, endMinutes) {
			d.logger.Info("HasConflict: interval %s-%s overlaps appointment id=%d (%s, %d min)",
				start, end, existing.ID, existing.StartTime, existing.DurationMinutes)
			return true, nil
		}
	}

	return false, nil
}

// ConflictSet возвращает записи, занимающие интервалы на дату
// для (бизнес, сотрудник-или-без-сотрудника)
func (d *Detector) ConflictSet(ctx context.Context, businessID int64, staffID *int64, date time.Time) ([]*domain.Appointment, error) {
	filter := domain.BusinessAppointmentsFilter{
		BusinessID:      businessID,
		StaffID:         staffID,
		StaffUnassigned: staffID == nil,
		StartDate:       &date,
		EndDate:         &date,
		Statuses:        domain.ConflictStatuses,
	}

	appointments, err := d.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("conflictcheck: failed to get conflict set: %w", err)
	}

	return appointments, nil
}

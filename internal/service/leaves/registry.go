package leaves

import (
	"context"
	"fmt"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/types"
)

// Registry отвечает на вопрос "недоступен ли сотрудник в этот момент"
// Несколько пересекающихся одобренных заявок объединяются: сотрудник
// недоступен, если недоступен хотя бы по одной из них
type Registry struct {
	leaveRepo LeaveRepository
	logger    Logger
}

// NewRegistry создает новый экземпляр реестра отсутствий
func NewRegistry(leaveRepo LeaveRepository, logger Logger) *Registry {
	return &Registry{
		leaveRepo: leaveRepo,
		logger:    logger,
	}
}

// LeavesOn возвращает одобренные заявки сотрудника, покрывающие дату
// Генератор слотов забирает заявки один раз и проверяет каждый слот локально
func (r *Registry) LeavesOn(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error) {
	leaves, err := r.leaveRepo.GetApprovedForDate(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("leaves: failed to get approved leaves for staff=%d: %w", staffID, err)
	}
	return leaves, nil
}

// IsUnavailable проверяет, недоступен ли сотрудник на дату в указанное время дня
// FULL_DAY и MULTI_DAY закрывают весь день, PARTIAL сравнивает время
// с полуоткрытым интервалом [startTime, endTime)
func (r *Registry) IsUnavailable(ctx context.Context, staffID int64, date time.Time, timeOfDay types.TimeString) (bool, error) {
	leaves, err := r.LeavesOn(ctx, staffID, date)
	if err != nil {
		return false, err
	}

	if domain.AnyLeaveCovers(leaves, timeOfDay) {
		r.logger.Info("IsUnavailable: staff=%d is on leave at %s %s", staffID, date.Format(domain.DateFormat), timeOfDay)
		return true, nil
	}

	return false, nil
}

package staffleave

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/dbmetrics"
	"github.com/bookwell/appointment-service/pkg/psqlbuilder"
	"github.com/bookwell/appointment-service/pkg/types"
)

// Repository репозиторий заявок на отсутствие сотрудников
// Движок бронирования читает только одобренные заявки; создание и модерация
// заявок идут через отдельные CRUD-потоки
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отсутствий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetApprovedForDate получает одобренные заявки сотрудника, покрывающие дату
// (start_date <= date <= end_date)
func (r *Repository) GetApprovedForDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"leave_type",
		"start_date",
		"end_date",
		"start_time",
		"end_time",
		"status",
		"created_at",
		"updated_at",
	).
		From("staff_leaves").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"status": domain.LeaveStatusApproved}).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetApprovedForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetApprovedForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	leaves := make([]*domain.StaffLeave, 0)

	for rows.Next() {
		var leave domain.StaffLeave
		var startTime, endTime sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&leave.ID,
			&leave.StaffID,
			&leave.Type,
			&leave.StartDate,
			&leave.EndDate,
			&startTime,
			&endTime,
			&leave.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetApprovedForDate - scan row: %v", ErrScanRow, err)
		}

		if startTime.Valid {
			if ts, err := types.NewTimeStringFromString(trimSeconds(startTime.String)); err == nil {
				leave.StartTime = &ts
			}
		}
		if endTime.Valid {
			if ts, err := types.NewTimeStringFromString(trimSeconds(endTime.String)); err == nil {
				leave.EndTime = &ts
			}
		}

		leave.CreatedAt = createdAt.Time
		leave.UpdatedAt = updatedAt.Time

		leaves = append(leaves, &leave)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetApprovedForDate - rows error: %v", ErrScanRow, err)
	}

	return leaves, nil
}

// trimSeconds отбрасывает секунды у значений TIME колонок ("10:00:00" -> "10:00")
func trimSeconds(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/dbmetrics"
	"github.com/bookwell/appointment-service/pkg/psqlbuilder"
	"github.com/bookwell/appointment-service/pkg/types"
)

// Repository репозиторий для работы с бизнесами и их рабочими часами
// Движок бронирования только читает эти данные; мутации (кроме настроек)
// идут через отдельные CRUD-потоки владельца
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бизнес по ID вместе с блобом настроек
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBusinesses().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBusiness(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetBySlug получает бизнес по уникальному slug витрины
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBusinesses().
		Where(squirrel.Eq{"slug": slug}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBusiness(executor.QueryRowContext(ctx, query, args...), "GetBySlug")
}

// GetWorkingHours получает строки рабочих часов бизнеса (максимум одна на день недели)
// Отсутствие строк означает "закрыто" - интерпретация на стороне domain.ScheduleForDate
func (r *Repository) GetWorkingHours(ctx context.Context, businessID int64) ([]domain.WorkingHour, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"day_of_week",
		"is_open",
		"open_time",
		"close_time",
	).
		From("business_working_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.WorkingHour, 0, 7)
	for rows.Next() {
		var wh domain.WorkingHour
		var openTime, closeTime sql.NullString

		err := rows.Scan(
			&wh.ID,
			&wh.BusinessID,
			&wh.DayOfWeek,
			&wh.IsOpen,
			&openTime,
			&closeTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWorkingHours - scan row: %v", ErrScanRow, err)
		}

		if openTime.Valid {
			wh.OpenTime = domainTime(openTime.String)
		}
		if closeTime.Valid {
			wh.CloseTime = domainTime(closeTime.String)
		}

		hours = append(hours, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// UpdateSettings сохраняет блоб настроек бронирования бизнеса
func (r *Repository) UpdateSettings(ctx context.Context, businessID int64, blob []byte) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("businesses").
		Set("appointment_settings", blob).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBusinessNotFound
	}

	return nil
}

// domainTime конвертирует строку TIME колонки в TimeString
// Невалидное значение даёт пустой TimeString, ScheduleForDate трактует его как "закрыто"
func domainTime(s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		if len(s) > 5 {
			if trimmed, err2 := types.NewTimeStringFromString(s[:5]); err2 == nil {
				return trimmed
			}
		}
		return ""
	}
	return ts
}

func selectBusinesses() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"name",
		"slug",
		"owner_user_id",
		"appointment_settings",
		"is_active",
		"created_at",
		"updated_at",
	).From("businesses")
}

func (r *Repository) scanBusiness(row *sql.Row, op string) (*domain.Business, error) {
	var b domain.Business
	var settings []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Slug,
		&b.OwnerUserID,
		&settings,
		&b.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan business: %v", ErrScanRow, op, err)
	}

	b.SettingsBlob = settings
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

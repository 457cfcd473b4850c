package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/dbmetrics"
	"github.com/bookwell/appointment-service/pkg/psqlbuilder"
)

// Repository репозиторий каталога бизнеса: услуги и сотрудники
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID с проверкой принадлежности бизнесу
// Чужая услуга неотличима от несуществующей - в обоих случаях ErrServiceNotFound
func (r *Repository) GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"price",
		"duration_minutes",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID}).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.BusinessID,
		&svc.Name,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}

// GetStaff получает сотрудника по ID с проверкой принадлежности бизнесу
func (r *Repository) GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": staffID}).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var st domain.Staff
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&st.ID,
		&st.BusinessID,
		&st.Name,
		&st.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}

	st.CreatedAt = createdAt.Time
	st.UpdatedAt = updatedAt.Time

	return &st, nil
}

// ListStaff получает список активных сотрудников бизнеса
func (r *Repository) ListStaff(ctx context.Context, businessID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		var st domain.Staff
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&st.ID,
			&st.BusinessID,
			&st.Name,
			&st.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStaff - scan row: %v", ErrScanRow, err)
		}

		st.CreatedAt = createdAt.Time
		st.UpdatedAt = updatedAt.Time
		staff = append(staff, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaff - rows error: %v", ErrScanRow, err)
	}

	return staff, nil
}

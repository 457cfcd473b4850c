package reviewinvite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/pkg/dbmetrics"
	"github.com/bookwell/appointment-service/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки postgres "duplicate key value"
const pgUniqueViolation = "23505"

// Repository репозиторий приглашений на отзыв
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория приглашений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает приглашение на отзыв для завершённой записи
// На запись может существовать не более одного приглашения (unique по appointment_id)
func (r *Repository) Create(ctx context.Context, invite *domain.ReviewInvitation) (*domain.ReviewInvitation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("review_invitations").
		Columns(
			"appointment_id",
			"token",
			"customer_phone",
		).
		Values(
			invite.AppointmentID,
			invite.Token,
			invite.CustomerPhone,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&invite.ID, &createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrInviteAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	invite.CreatedAt = createdAt.Time

	return invite, nil
}

// GetByAppointmentID получает приглашение по ID записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.ReviewInvitation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"token",
		"customer_phone",
		"created_at",
	).
		From("review_invitations").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	var invite domain.ReviewInvitation
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&invite.ID,
		&invite.AppointmentID,
		&invite.Token,
		&invite.CustomerPhone,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - scan invitation: %v", ErrScanRow, err)
	}

	invite.CreatedAt = createdAt.Time

	return &invite, nil
}

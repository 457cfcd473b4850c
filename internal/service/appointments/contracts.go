package appointments

import (
	"context"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ReviewInviteRepository интерфейс репозитория приглашений на отзыв
type ReviewInviteRepository interface {
	Create(ctx context.Context, invite *domain.ReviewInvitation) (*domain.ReviewInvitation, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.ReviewInvitation, error)
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	SendReviewInvite(ctx context.Context, event *notifyservice.ReviewInviteEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

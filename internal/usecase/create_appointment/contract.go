package create_appointment

import (
	"context"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
	"github.com/bookwell/appointment-service/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// CountOnDate считает активные записи бизнеса на дату (для дневного лимита)
	CountOnDate(ctx context.Context, businessID int64, date time.Time) (int, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetWorkingHours(ctx context.Context, businessID int64) ([]domain.WorkingHour, error)
}

// CatalogRepository интерфейс репозитория услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error)
}

// SettingsResolver интерфейс сервиса настроек записи
type SettingsResolver interface {
	Resolve(ctx context.Context, businessID int64) (domain.AppointmentSettings, error)
}

// ConflictDetector интерфейс детектора конфликтов
// Вызов внутри транзакции блокирует строки дня (FOR UPDATE)
type ConflictDetector interface {
	HasConflict(ctx context.Context, businessID int64, staffID *int64, date time.Time,
		start types.TimeString, end types.TimeString, excludeAppointmentID *int64) (bool, error)
}

// LeaveRegistry интерфейс реестра отсутствий сотрудников
type LeaveRegistry interface {
	IsUnavailable(ctx context.Context, staffID int64, date time.Time, timeOfDay types.TimeString) (bool, error)
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	SendAppointmentCreated(ctx context.Context, event *notifyservice.AppointmentCreatedEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

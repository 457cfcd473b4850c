package get_available_slots

import (
	"context"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
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
type ConflictDetector interface {
	// ConflictSet возвращает записи, занимающие интервалы на дату
	ConflictSet(ctx context.Context, businessID int64, staffID *int64, date time.Time) ([]*domain.Appointment, error)
}

// LeaveRegistry интерфейс реестра отсутствий сотрудников
type LeaveRegistry interface {
	LeavesOn(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error)
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

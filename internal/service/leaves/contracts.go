package leaves

import (
	"context"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
)

// LeaveRepository интерфейс репозитория отсутствий
type LeaveRepository interface {
	GetApprovedForDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.StaffLeave, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

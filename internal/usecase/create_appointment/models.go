package create_appointment

import (
	"time"

	"github.com/bookwell/appointment-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID    int64
	ServiceID     int64
	StaffID       *int64 // nil - без закрепления за сотрудником
	Date          time.Time
	StartTime     types.TimeString
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Notes         *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	BusinessID      int64
	ServiceID       int64
	StaffID         *int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	ServiceName     string
	ServicePrice    float64
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	Notes           *string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

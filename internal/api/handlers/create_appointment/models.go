package create_appointment

import (
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	createAppointment "github.com/bookwell/appointment-service/internal/usecase/create_appointment"
	"github.com/bookwell/appointment-service/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID      int64   `json:"businessId"`
	ServiceID       int64   `json:"serviceId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	AppointmentDate string  `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime string  `json:"appointmentTime"` // HH:MM
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"businessId"`
	ServiceID       int64     `json:"serviceId"`
	StaffID         *int64    `json:"staffId,omitempty"`
	AppointmentDate string    `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"`
	DurationMinutes int       `json:"durationMinutes"`
	ServiceName     string    `json:"serviceName"`
	ServicePrice    float64   `json:"servicePrice"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   *string   `json:"customerEmail,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Парсит дату и время, ошибки парсинга возвращаются как есть
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.AppointmentTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		BusinessID:    r.BusinessID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		StaffID:         resp.StaffID,
		AppointmentDate: resp.Date.Format(domain.DateFormat),
		AppointmentTime: resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		CustomerEmail:   resp.CustomerEmail,
		Notes:           resp.Notes,
		Status:          resp.Status,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}

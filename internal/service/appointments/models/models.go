package models

import (
	"fmt"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"-"`
	UserRole           string `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID   int64  `json:"-"`
	UserRole string `json:"-"`
	Status   string `json:"status"`
}

// GetBusinessAppointmentsRequest запрос на список записей бизнеса
// Все фильтры опциональны
type GetBusinessAppointmentsRequest struct {
	UserID          int64
	UserRole        string
	BusinessID      int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	IncludeInactive bool
}

// ToDomainFilter конвертирует запрос в фильтр репозитория
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.BusinessAppointmentsFilter, error) {
	filter := domain.BusinessAppointmentsFilter{
		BusinessID:      r.BusinessID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return domain.BusinessAppointmentsFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	BusinessID         int64      `json:"businessId"`
	ServiceID          int64      `json:"serviceId"`
	StaffID            *int64     `json:"staffId,omitempty"`
	Date               string     `json:"appointmentDate"` // YYYY-MM-DD
	StartTime          string     `json:"appointmentTime"` // HH:MM
	EndTime            string     `json:"endTime,omitempty"`
	DurationMinutes    int        `json:"durationMinutes"`
	ServiceName        string     `json:"serviceName"`
	ServicePrice       float64    `json:"servicePrice"`
	CustomerName       string     `json:"customerName"`
	CustomerPhone      string     `json:"customerPhone"`
	CustomerEmail      *string    `json:"customerEmail,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		BusinessID:         a.BusinessID,
		ServiceID:          a.ServiceID,
		StaffID:            a.StaffID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          string(a.StartTime),
		DurationMinutes:    a.DurationMinutes,
		ServiceName:        a.ServiceName,
		ServicePrice:       a.ServicePrice,
		CustomerName:       a.CustomerName,
		CustomerPhone:      a.CustomerPhone,
		CustomerEmail:      a.CustomerEmail,
		Notes:              a.Notes,
		Status:             string(a.Status),
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if end, err := a.EndTime(); err == nil {
		resp.EndTime = string(end)
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в статус записи
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !domain.IsValidStatus(status) {
		return "", fmt.Errorf("unknown appointment status: %s", s)
	}
	return status, nil
}

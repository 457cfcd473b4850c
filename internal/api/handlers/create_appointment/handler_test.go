package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createAppointment "github.com/bookwell/appointment-service/internal/usecase/create_appointment"
)

type stubUseCase struct {
	resp    *createAppointment.Response
	err     error
	lastReq *createAppointment.Request
}

func (s *stubUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func doRequest(t *testing.T, uc *stubUseCase, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"businessId":      1,
		"serviceId":       10,
		"appointmentDate": "2025-06-10",
		"appointmentTime": "10:00",
		"customerName":    "Анна Петрова",
		"customerPhone":   "+79991234567",
	}
}

func TestHandler_Handle_Created(t *testing.T) {
	uc := &stubUseCase{
		resp: &createAppointment.Response{
			ID:              42,
			BusinessID:      1,
			ServiceID:       10,
			Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          "pending",
		},
	}

	rec := doRequest(t, uc, validBody())

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "2025-06-10", resp.AppointmentDate)
	assert.Equal(t, "10:00", resp.AppointmentTime)
	assert.Equal(t, "pending", resp.Status)

	// Дата и время распарсены в модель use case
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "10:00", uc.lastReq.StartTime.String())
}

func TestHandler_Handle_InvalidBody(t *testing.T) {
	uc := &stubUseCase{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.lastReq)
}

func TestHandler_Handle_BadDateFormat(t *testing.T) {
	body := validBody()
	body["appointmentDate"] = "10.06.2025"

	rec := doRequest(t, &stubUseCase{}, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Handle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "slot conflict", err: createAppointment.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "staff on leave", err: createAppointment.ErrStaffUnavailable, wantStatus: http.StatusConflict},
		{name: "daily limit", err: createAppointment.ErrDailyLimitReached, wantStatus: http.StatusConflict},
		{name: "business not found", err: createAppointment.ErrBusinessNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", err: createAppointment.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "staff not found", err: createAppointment.ErrStaffNotFound, wantStatus: http.StatusNotFound},
		{name: "business closed", err: createAppointment.ErrBusinessClosed, wantStatus: http.StatusBadRequest},
		{name: "same day disabled", err: createAppointment.ErrSameDayBookingDisabled, wantStatus: http.StatusBadRequest},
		{name: "off-grid slot", err: createAppointment.ErrInvalidTimeSlot, wantStatus: http.StatusBadRequest},
		{name: "too late to book", err: createAppointment.ErrTooLateToBook, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: createAppointment.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal error", err: createAppointment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &stubUseCase{err: tt.err}, validBody())
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

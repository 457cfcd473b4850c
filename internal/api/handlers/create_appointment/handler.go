package create_appointment

import (
	"errors"
	"net/http"

	"github.com/bookwell/appointment-service/internal/api/handlers"
	createAppointment "github.com/bookwell/appointment-service/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgBusinessClosed     = "бизнес закрыт в выбранную дату"
	msgSameDayDisabled    = "запись на сегодня недоступна"
	msgInvalidDate        = "некорректная дата записи"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для записи на этот слот"
	msgStaffUnavailable   = "сотрудник недоступен в выбранное время"
	msgDailyLimitReached  = "на выбранную дату больше нет свободных мест"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: business_id=%d, date=%s, time=%s",
				req.BusinessID, req.AppointmentDate, req.AppointmentTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrStaffUnavailable):
			h.logger.Warn("POST /appointments - Staff unavailable: business_id=%d, staff_id=%v",
				req.BusinessID, req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgStaffUnavailable)

		case errors.Is(err, createAppointment.ErrDailyLimitReached):
			h.logger.Warn("POST /appointments - Daily limit reached: business_id=%d, date=%s",
				req.BusinessID, req.AppointmentDate)
			handlers.RespondError(w, http.StatusConflict, msgDailyLimitReached)

		case errors.Is(err, createAppointment.ErrBusinessNotFound):
			h.logger.Warn("POST /appointments - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: business_id=%d, service_id=%d",
				req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: business_id=%d, staff_id=%v",
				req.BusinessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrBusinessClosed):
			h.logger.Warn("POST /appointments - Business closed: business_id=%d, date=%s",
				req.BusinessID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, createAppointment.ErrSameDayBookingDisabled):
			h.logger.Warn("POST /appointments - Same-day booking disabled: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgSameDayDisabled)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: business_id=%d, date=%s",
				req.BusinessID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: business_id=%d, date=%s",
				req.BusinessID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: business_id=%d, time=%s",
				req.BusinessID, req.AppointmentTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: business_id=%d, time=%s",
				req.BusinessID, req.AppointmentTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: business_id=%d, error=%v",
				req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, business_id=%d",
		result.ID, result.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

package get_available_slots

import (
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	getAvailableSlots "github.com/bookwell/appointment-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	BusinessID int64           `json:"businessId"`
	ServiceID  int64           `json:"serviceId"`
	StaffID    *int64          `json:"staffId,omitempty"`
	Date       string          `json:"date"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:      slot.StartTime.String(),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		StaffID:    resp.StaffID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(businessID, serviceID int64, staffID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       date,
	}, nil
}

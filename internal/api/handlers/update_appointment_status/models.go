package update_appointment_status

import "github.com/bookwell/appointment-service/internal/service/appointments/models"

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(userID int64, userRole string) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID:   userID,
		UserRole: userRole,
		Status:   r.Status,
	}
}

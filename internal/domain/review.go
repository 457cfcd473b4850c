package domain

import "time"

// ReviewInvitation a one-shot token issued when an appointment is completed.
// Отзыв привязывается к завершённой записи по совпадению номера телефона,
// токен передаётся клиенту в приглашении.
type ReviewInvitation struct {
	ID            int64
	AppointmentID int64
	Token         string
	CustomerPhone string
	CreatedAt     time.Time
}

package notifyservice

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AppointmentCreatedEvent уведомление о созданной записи
type AppointmentCreatedEvent struct {
	AppointmentID int64  `json:"appointmentId"`
	BusinessID    int64  `json:"businessId"`
	ServiceName   string `json:"serviceName"`
	Date          string `json:"date"`      // YYYY-MM-DD
	StartTime     string `json:"startTime"` // HH:MM
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

// ReviewInviteEvent уведомление-приглашение оставить отзыв
type ReviewInviteEvent struct {
	AppointmentID int64  `json:"appointmentId"`
	BusinessID    int64  `json:"businessId"`
	Token         string `json:"token"`
	CustomerPhone string `json:"customerPhone"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

package get_business_settings

import (
	"context"

	"github.com/bookwell/appointment-service/internal/service/settings/models"
)

type SettingsService interface {
	Get(ctx context.Context, businessID, userID int64, userRole string) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookwell/appointment-service/internal/domain"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	"github.com/bookwell/appointment-service/internal/service/settings/models"
)

// RoleAdmin роль платформенного администратора - имеет доступ к настройкам любого бизнеса
const RoleAdmin = "admin"

// Service сервис для работы с настройками записи бизнеса
type Service struct {
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(businessRepo BusinessRepository, logger Logger) *Service {
	return &Service{
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// Resolve возвращает действующие настройки бизнеса: сохранённый блоб поверх дефолтов.
// Нечитаемый блоб логируется и не ломает выдачу - движок продолжает работать на дефолтах
func (s *Service) Resolve(ctx context.Context, businessID int64) (domain.AppointmentSettings, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("Resolve: business id=%d not found", businessID)
			return domain.AppointmentSettings{}, ErrBusinessNotFound
		}
		s.logger.Error("Resolve: failed to get business id=%d: %v", businessID, err)
		return domain.AppointmentSettings{}, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	resolved, err := domain.ParseAppointmentSettings(business.SettingsBlob)
	if err != nil {
		s.logger.Error("Resolve: corrupt settings blob for business id=%d, falling back to defaults: %v",
			businessID, err)
	}

	return resolved, nil
}

// Get получает настройки записи бизнеса
// Доступно только владельцу бизнеса и администраторам
func (s *Service) Get(ctx context.Context, businessID, userID int64, userRole string) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for business=%d by user=%d", businessID, userID)

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("Get: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Get: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if !s.canManage(business, userID, userRole) {
		s.logger.Warn("Get: user=%d is not the owner of business=%d", userID, businessID)
		return nil, ErrAccessDenied
	}

	resolved, err := domain.ParseAppointmentSettings(business.SettingsBlob)
	if err != nil {
		s.logger.Error("Get: corrupt settings blob for business id=%d, falling back to defaults: %v",
			businessID, err)
	}

	s.logger.Info("Get: successfully fetched settings for business=%d", businessID)
	return models.FromDomainSettings(businessID, resolved), nil
}

// Update обновляет настройки записи бизнеса
// Доступно только владельцу бизнеса и администраторам
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, businessID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for business=%d by user=%d", businessID, req.UserID)

	// 1. Получаем бизнес для проверки прав доступа и текущих настроек
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("Update: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа (только владелец или администратор)
	if !s.canManage(business, req.UserID, req.UserRole) {
		s.logger.Warn("Update: user=%d is not the owner of business=%d", req.UserID, businessID)
		return nil, ErrAccessDenied
	}

	// 3. Применяем обновления поверх текущих действующих настроек
	resolved, err := domain.ParseAppointmentSettings(business.SettingsBlob)
	if err != nil {
		s.logger.Error("Update: corrupt settings blob for business id=%d, applying patch over defaults: %v",
			businessID, err)
	}
	req.ApplyToSettings(&resolved)

	// 4. Валидируем итоговые настройки
	if err := s.validateSettings(resolved); err != nil {
		s.logger.Warn("Update: validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	// 5. Сохраняем настройки в БД
	blob, err := resolved.Marshal()
	if err != nil {
		s.logger.Error("Update: failed to marshal settings for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - marshal error: %v", ErrInternal, err)
	}

	if err := s.businessRepo.UpdateSettings(ctx, businessID, blob); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("Update: business id=%d not found during update", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings for business=%d", businessID)
	return models.FromDomainSettings(businessID, resolved), nil
}

// Вспомогательные методы

// canManage проверяет, что пользователь является владельцем бизнеса или администратором
func (s *Service) canManage(business *domain.Business, userID int64, userRole string) bool {
	if userRole == RoleAdmin {
		return true
	}
	return business.OwnerUserID == userID
}

// validateSettings валидирует параметры настроек записи
func (s *Service) validateSettings(settings domain.AppointmentSettings) error {
	if settings.SlotDurationMinutes < domain.MinSlotDurationMinutes ||
		settings.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDuration must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if settings.BufferTimeMinutes < 0 || settings.BufferTimeMinutes > settings.SlotDurationMinutes {
		return fmt.Errorf("%w: bufferTime must be between 0 and slotDuration", ErrInvalidInput)
	}

	if settings.MaxAdvanceBookingDays < 0 || settings.MaxAdvanceBookingDays > domain.MaxAdvanceBookingDaysLimit {
		return fmt.Errorf("%w: maxAdvanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDaysLimit)
	}

	if settings.MinAdvanceBookingHours < 0 || settings.MinAdvanceBookingHours > domain.MaxAdvanceBookingHoursLimit {
		return fmt.Errorf("%w: minAdvanceBookingHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingHoursLimit)
	}

	if settings.MaxDailyAppointments < 0 || settings.MaxDailyAppointments > domain.MaxDailyAppointmentsLimit {
		return fmt.Errorf("%w: maxDailyAppointments must be between 0 and %d",
			ErrInvalidInput, domain.MaxDailyAppointmentsLimit)
	}

	return nil
}

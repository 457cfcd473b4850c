package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/appointment-service/internal/domain"
	appointmentRepo "github.com/bookwell/appointment-service/internal/infra/storage/appointment"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	inviteRepo "github.com/bookwell/appointment-service/internal/infra/storage/reviewinvite"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
	"github.com/bookwell/appointment-service/internal/service/appointments/models"
)

// RoleAdmin роль платформенного администратора
const RoleAdmin = "admin"

// notifyTimeout таймаут на фоновую отправку уведомления
const notifyTimeout = 5 * time.Second

// Service сервис для работы с жизненным циклом записей
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	inviteRepo      ReviewInviteRepository
	notifyClient    NotifyClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	inviteRepo ReviewInviteRepository,
	notifyClient NotifyClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		inviteRepo:      inviteRepo,
		notifyClient:    notifyClient,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Доступно только владельцу бизнеса и администраторам
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, userRole string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkBusinessAccess(ctx, appt.BusinessID, userID, userRole); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetByBusiness получает записи бизнеса с фильтрацией
// Доступно только владельцу бизнеса и администраторам
func (s *Service) GetByBusiness(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetByBusiness: fetching appointments for business=%d by user=%d", req.BusinessID, req.UserID)

	// Проверяем права доступа
	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID, req.UserRole); err != nil {
		s.logger.Warn("GetByBusiness: access denied for user=%d to business=%d", req.UserID, req.BusinessID)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetByBusiness: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByBusiness: successfully fetched %d appointments for business=%d",
		len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Доступно только владельцу бизнеса и администраторам
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for appointment id=%d", appointmentID)
		return fmt.Errorf("%w: cancellationReason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// Получаем запись
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkBusinessAccess(ctx, appt.BusinessID, req.UserID, req.UserRole); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return err
	}

	// Проверяем, можно ли отменить запись
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Отменяем запись
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// UpdateStatus обновляет статус записи
// Доступно только владельцу бизнеса и администраторам
// Переход в completed создает приглашение оставить отзыв
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	// Получаем запись
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkBusinessAccess(ctx, appt.BusinessID, req.UserID, req.UserRole); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return err
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return ErrInvalidStatus
	}

	// Проверяем допустимость перехода
	if !appt.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appt.Status, newStatus, appointmentID)
		return ErrInvalidTransition
	}

	// Обновляем статус
	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)

	// Завершённая запись порождает приглашение оставить отзыв
	if newStatus == domain.StatusCompleted {
		s.createReviewInvite(ctx, appt)
	}

	return nil
}

// Вспомогательные методы

// createReviewInvite создает приглашение оставить отзыв о завершённой записи
// Ошибки не прерывают смену статуса: запись уже завершена
func (s *Service) createReviewInvite(ctx context.Context, appt *domain.Appointment) {
	if appt.CustomerPhone == "" {
		s.logger.Warn("createReviewInvite: appointment id=%d has no customer phone, skipping invite", appt.ID)
		return
	}

	invite, err := s.inviteRepo.Create(ctx, &domain.ReviewInvitation{
		AppointmentID: appt.ID,
		Token:         uuid.NewString(),
		CustomerPhone: appt.CustomerPhone,
	})
	if err != nil {
		if errors.Is(err, inviteRepo.ErrInviteAlreadyExists) {
			s.logger.Warn("createReviewInvite: invite already exists for appointment id=%d", appt.ID)
			return
		}
		s.logger.Error("createReviewInvite: failed to create invite for appointment id=%d: %v", appt.ID, err)
		return
	}

	s.logger.Info("createReviewInvite: created invite id=%d for appointment id=%d", invite.ID, appt.ID)

	// Отправка уведомления не должна блокировать ответ клиенту
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		event := &notifyservice.ReviewInviteEvent{
			AppointmentID: appt.ID,
			BusinessID:    appt.BusinessID,
			Token:         invite.Token,
			CustomerPhone: invite.CustomerPhone,
		}
		if err := s.notifyClient.SendReviewInvite(notifyCtx, event); err != nil {
			s.logger.Warn("createReviewInvite: failed to send invite for appointment id=%d: %v", appt.ID, err)
		}
	}()
}

// checkBusinessAccess проверяет, что пользователь является владельцем бизнеса или администратором
func (s *Service) checkBusinessAccess(ctx context.Context, businessID, userID int64, userRole string) error {
	if userRole == RoleAdmin {
		return nil
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkBusinessAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkBusinessAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkBusinessAccess - repository error: %v", ErrInternal, err)
	}

	if business.OwnerUserID != userID {
		return ErrAccessDenied
	}

	return nil
}

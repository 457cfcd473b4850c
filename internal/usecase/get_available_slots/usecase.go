package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookwell/appointment-service/internal/domain"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	catalogRepo "github.com/bookwell/appointment-service/internal/infra/storage/catalog"
)

// UseCase use case для получения слотов на день
type UseCase struct {
	appointmentRepo  AppointmentRepository
	businessRepo     BusinessRepository
	catalogRepo      CatalogRepository
	settingsResolver SettingsResolver
	conflictDetector ConflictDetector
	leaveRegistry    LeaveRegistry
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	catalogRepo CatalogRepository,
	settingsResolver SettingsResolver,
	conflictDetector ConflictDetector,
	leaveRegistry LeaveRegistry,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		businessRepo:     businessRepo,
		catalogRepo:      catalogRepo,
		settingsResolver: settingsResolver,
		conflictDetector: conflictDetector,
		leaveRegistry:    leaveRegistry,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, staff=%v, date=%s",
		req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("GetAvailableSlots: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу и проверяем её принадлежность бизнесу
	service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Если указан сотрудник, проверяем его существование
	if req.StaffID != nil {
		staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%d not found in business id=%d", *req.StaffID, req.BusinessID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.IsActive {
			uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", *req.StaffID)
			return nil, ErrStaffNotFound
		}
	}

	// 6. Получаем действующие настройки записи
	settings, err := uc.settingsResolver.Resolve(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve settings for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to resolve settings: %v", ErrInternal, err)
	}

	// 7. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 8. Получаем расписание на указанную дату
	workingHours, err := uc.businessRepo.GetWorkingHours(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get working hours for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	schedule := domain.ScheduleForDate(workingHours, req.Date)
	if !schedule.IsOpen {
		uc.logger.Info("GetAvailableSlots: business id=%d is closed on %s",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return &Response{
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			StaffID:    req.StaffID,
			Date:       req.Date,
			Slots:      []Slot{},
		}, nil
	}

	// 9. Получаем conflict set - активные записи на эту дату
	conflictSet, err := uc.conflictDetector.ConflictSet(ctx, req.BusinessID, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get conflict set: %v", err)
		return nil, fmt.Errorf("%w: failed to get conflict set: %v", ErrInternal, err)
	}

	// 10. Получаем отсутствия сотрудника, если он указан
	var leaves []*domain.StaffLeave
	if req.StaffID != nil {
		leaves, err = uc.leaveRegistry.LeavesOn(ctx, *req.StaffID, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get leaves for staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff leaves: %v", ErrInternal, err)
		}
	}

	// 11. Проверяем дневной лимит записей
	capReached := false
	if settings.MaxDailyAppointments > 0 {
		count, err := uc.appointmentRepo.CountOnDate(ctx, req.BusinessID, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to count appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
		}
		capReached = count >= settings.MaxDailyAppointments
	}

	// 12. Генерируем слоты
	slots, err := generateSlots(generationInput{
		Schedule:        schedule,
		Settings:        settings,
		ServiceDuration: service.DurationMinutes,
		Date:            req.Date,
		Now:             now,
		ConflictSet:     conflictSet,
		Leaves:          leaves,
		CapReached:      capReached,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Date:       req.Date,
		Slots:      slots,
	}, nil
}

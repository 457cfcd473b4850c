package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookwell/appointment-service/internal/domain"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	catalogRepo "github.com/bookwell/appointment-service/internal/infra/storage/catalog"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
	"github.com/bookwell/appointment-service/pkg/txmanager"
)

// notifyTimeout таймаут на фоновую отправку уведомления
const notifyTimeout = 5 * time.Second

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	businessRepo     BusinessRepository
	catalogRepo      CatalogRepository
	settingsResolver SettingsResolver
	conflictDetector ConflictDetector
	leaveRegistry    LeaveRegistry
	notifyClient     NotifyClient
	txManager        TransactionManager
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
	notifyClient NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		businessRepo:     businessRepo,
		catalogRepo:      catalogRepo,
		settingsResolver: settingsResolver,
		conflictDetector: conflictDetector,
		leaveRegistry:    leaveRegistry,
		notifyClient:     notifyClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверка доступности и вставка выполняются в одной сериализуемой транзакции:
// из двух конкурентных попыток занять пересекающиеся интервалы зафиксируется
// только одна, вторая получит ErrSlotNotAvailable
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, service=%d, staff=%v, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateAppointment: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу и проверяем её принадлежность бизнесу
	service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Если указан сотрудник, проверяем его существование
	if req.StaffID != nil {
		staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateAppointment: staff id=%d not found in business id=%d", *req.StaffID, req.BusinessID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.IsActive {
			uc.logger.Warn("CreateAppointment: staff id=%d is inactive", *req.StaffID)
			return nil, ErrStaffNotFound
		}
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем проверки и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем действующие настройки записи
		settings, err := uc.settingsResolver.Resolve(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to resolve settings: %v", err)
			return fmt.Errorf("%w: failed to resolve settings: %v", ErrInternal, err)
		}

		// 6.2. Валидация даты с учетом настроек
		if err := validateDate(req.Date, now, settings.MaxAdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 6.3. Запись день-в-день может быть запрещена настройками
		if isSameDay(req.Date, now) && !settings.AllowSameDayBooking {
			uc.logger.Warn("CreateAppointment: same-day booking is disabled for business id=%d", req.BusinessID)
			return ErrSameDayBookingDisabled
		}

		// 6.4. Получаем расписание на указанную дату
		workingHours, err := uc.businessRepo.GetWorkingHours(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get working hours: %v", err)
			return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
		}

		schedule := domain.ScheduleForDate(workingHours, req.Date)
		if !schedule.IsOpen {
			uc.logger.Warn("CreateAppointment: business id=%d is closed on %s",
				req.BusinessID, req.Date.Format(domain.DateFormat))
			return ErrBusinessClosed
		}

		// 6.5. Время должно попадать в сетку слотов
		if err := validateSlotAlignment(req.StartTime, schedule, settings.SlotDurationMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: slot alignment validation failed: %v", err)
			return err
		}

		// 6.6. Минимальное время до записи
		if err := validateBookingTime(req.Date, req.StartTime, now, settings.MinAdvanceBookingHours); err != nil {
			uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
			return err
		}

		// 6.7. Повторная проверка отсутствия сотрудника
		if req.StaffID != nil {
			unavailable, err := uc.leaveRegistry.IsUnavailable(txCtx, *req.StaffID, req.Date, req.StartTime)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to check staff leaves: %v", err)
				return fmt.Errorf("%w: failed to check staff leaves: %v", ErrInternal, err)
			}
			if unavailable {
				uc.logger.Warn("CreateAppointment: staff id=%d is on leave at %s %s",
					*req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrStaffUnavailable
			}
		}

		// 6.8. Дневной лимит записей
		if settings.MaxDailyAppointments > 0 {
			count, err := uc.appointmentRepo.CountOnDate(txCtx, req.BusinessID, req.Date)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to count appointments: %v", err)
				return fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
			}
			if count >= settings.MaxDailyAppointments {
				uc.logger.Warn("CreateAppointment: daily limit %d reached for business id=%d on %s",
					settings.MaxDailyAppointments, req.BusinessID, req.Date.Format(domain.DateFormat))
				return ErrDailyLimitReached
			}
		}

		// 6.9. Повторная проверка конфликтов - закрывает гонку между чтением
		// слотов и созданием записи. Запись занимает интервал длиной в услугу,
		// чтение внутри транзакции блокирует строки дня (FOR UPDATE)
		endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
		}

		hasConflict, err := uc.conflictDetector.HasConflict(
			txCtx, req.BusinessID, req.StaffID, req.Date, req.StartTime, endTime, nil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
		}
		if hasConflict {
			uc.logger.Warn("CreateAppointment: slot %s-%s is not available", req.StartTime, endTime)
			return ErrSlotNotAvailable
		}

		// 6.10. Создаем запись с денормализацией данных услуги
		// Новая запись всегда PENDING, подтверждение - отдельный переход статуса
		appt := &domain.Appointment{
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			StaffID:         req.StaffID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			Notes:           req.Notes,
			Status:          domain.StatusPending,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конкурентная транзакция заняла пересекающийся интервал
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateAppointment: serialization failure, slot was taken concurrently")
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 7. Уведомление отправляется в фоне и не влияет на результат
	uc.notifyCreated(result)

	return &Response{
		ID:              result.ID,
		BusinessID:      result.BusinessID,
		ServiceID:       result.ServiceID,
		StaffID:         result.StaffID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		CustomerName:    result.CustomerName,
		CustomerPhone:   result.CustomerPhone,
		CustomerEmail:   result.CustomerEmail,
		Notes:           result.Notes,
		Status:          string(result.Status),
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// notifyCreated отправляет уведомление о созданной записи в отдельной горутине
func (uc *UseCase) notifyCreated(appt *domain.Appointment) {
	event := &notifyservice.AppointmentCreatedEvent{
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     string(appt.StartTime),
		CustomerName:  appt.CustomerName,
		CustomerPhone: appt.CustomerPhone,
	}

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifyClient.SendAppointmentCreated(notifyCtx, event); err != nil {
			uc.logger.Warn("CreateAppointment: failed to send notification for appointment id=%d: %v", appt.ID, err)
		}
	}()
}

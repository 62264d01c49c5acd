package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	historyRepo      StateHistoryRepository
	professionalRepo ProfessionalRepository
	catalog          ServiceCatalog
	validator        AppointmentValidator
	txManager        TransactionManager
	metrics          MetricsRecorder
	conflictRetries  int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// conflictRetries - сколько раз повторить транзакцию после проигранной гонки.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	historyRepo StateHistoryRepository,
	professionalRepo ProfessionalRepository,
	catalog ServiceCatalog,
	validator AppointmentValidator,
	txManager TransactionManager,
	metrics MetricsRecorder,
	conflictRetries int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		historyRepo:      historyRepo,
		professionalRepo: professionalRepo,
		catalog:          catalog,
		validator:        validator,
		txManager:        txManager,
		metrics:          metrics,
		conflictRetries:  conflictRetries,
		logger:           logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка и вставка идут в одной сериализуемой транзакции под блокировкой строки специалиста.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, professional=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Специалист
	professional, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateAppointment: professional id=%d not found", req.ProfessionalID)
			return nil, domain.ErrProfessionalNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 3. Услуга и длительность; услуга неизменна, поэтому читается вне транзакции
	service, err := uc.catalog.GetServiceWithStages(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, domain.ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.CompanyID != professional.CompanyID {
		uc.logger.Warn("CreateAppointment: service id=%d does not belong to company=%d", service.ID, professional.CompanyID)
		return nil, domain.ErrServiceNotFound
	}

	duration, err := service.DurationMinutes()
	if err != nil {
		uc.logger.Error("CreateAppointment: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: service id=%d has no duration", ErrInvalidInput, service.ID)
	}

	endTime, err := req.StartTime.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %s + %d minutes crosses midnight", req.StartTime, duration)
		return nil, fmt.Errorf("%w: appointment must end on the same day", ErrInvalidInput)
	}

	// 4. Проверка и вставка; после проигранной гонки транзакция повторяется на свежих данных
	var result *Response
	for attempt := 0; ; attempt++ {
		result, err = uc.create(ctx, req, endTime, duration)
		if err == nil || !isConflict(err) || attempt >= uc.conflictRetries {
			break
		}
		uc.logger.Warn("CreateAppointment: concurrent conflict for professional=%d, retrying (attempt %d): %v",
			req.ProfessionalID, attempt+1, err)
	}

	if err != nil {
		if isConflict(err) {
			uc.logger.Warn("CreateAppointment: giving up after conflict for professional=%d: %v", req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConcurrentConflict, err)
		}
		return nil, err
	}

	uc.metrics.ObserveTransition(domain.StateCreated.String())
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.Appointment.ID)

	return result, nil
}

func (uc *UseCase) create(ctx context.Context, req *Request, endTime types.TimeString, duration int) (*Response, error) {
	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем специалиста: конкурентные записи к нему ждут здесь
		if err := uc.professionalRepo.LockForUpdate(txCtx, req.ProfessionalID); err != nil {
			if errors.Is(err, domain.ErrProfessionalNotFound) {
				return domain.ErrProfessionalNotFound
			}
			if isConflict(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to lock professional id=%d: %v", req.ProfessionalID, err)
			return fmt.Errorf("%w: failed to lock professional: %v", ErrInternal, err)
		}

		// 4.2. Проверка на данных внутри транзакции
		rule, err := uc.validator.Validate(txCtx, &validateAppointment.Request{
			ProfessionalID: req.ProfessionalID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        endTime,
		})
		if err != nil {
			if _, ok := domain.AsRejection(err); ok {
				uc.logger.Warn("CreateAppointment: rejected: %v", err)
			}
			return err
		}

		// 4.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ClientID:       req.ClientID,
			ServiceID:      req.ServiceID,
			ProfessionalID: req.ProfessionalID,
			RoomID:         ptr.Ptr(rule.RoomID),
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        endTime,
			CurrentState:   domain.StateCreated,
			Notes:          req.Notes,
			Version:        1,
		})
		if err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 4.4. Первая запись журнала: до и после совпадают
		transition, err := uc.historyRepo.Append(txCtx, &domain.StateTransition{
			AppointmentID: created.ID,
			State:         domain.StateCreated,
			ChangedBy:     req.Actor,
			Reason:        req.Reason,
			PreviousDate:  created.Date,
			PreviousTime:  created.StartTime,
			CurrentDate:   created.Date,
			CurrentTime:   created.StartTime,
		})
		if err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to append transition: %v", err)
			return fmt.Errorf("%w: failed to append transition: %v", ErrInternal, err)
		}

		uc.logger.Info("CreateAppointment: appointment id=%d, %d minutes in room=%d", created.ID, duration, rule.RoomID)
		result = &Response{Appointment: created, Transition: transition}
		return nil
	})

	return result, err
}

// isConflict проигранная гонка: от репозитория либо от COMMIT сериализуемой транзакции
func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConcurrentConflict) || pgerrors.IsConcurrentConflict(err)
}

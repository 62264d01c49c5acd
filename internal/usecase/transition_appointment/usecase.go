package transition_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase машина состояний записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	historyRepo      StateHistoryRepository
	professionalRepo ProfessionalRepository
	validator        AppointmentValidator
	txManager        TransactionManager
	metrics          MetricsRecorder
	conflictRetries  int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	historyRepo StateHistoryRepository,
	professionalRepo ProfessionalRepository,
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
		validator:        validator,
		txManager:        txManager,
		metrics:          metrics,
		conflictRetries:  conflictRetries,
		logger:           logger,
	}
}

// Execute применяет переход. Обновление записи и строка журнала пишутся в одной транзакции;
// при отказе валидатора или недопустимом переходе ничего не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionAppointment: appointment=%d, state=%s, actor=%d",
		req.AppointmentID, req.NewState, req.Actor)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Переход; проигранная гонка повторяется на свежих данных
	var (
		result *Response
		err    error
	)
	for attempt := 0; ; attempt++ {
		result, err = uc.transition(ctx, req)
		if err == nil || !isConflict(err) || attempt >= uc.conflictRetries {
			break
		}
		uc.logger.Warn("TransitionAppointment: concurrent conflict for appointment=%d, retrying (attempt %d): %v",
			req.AppointmentID, attempt+1, err)
	}

	if err != nil {
		if isConflict(err) {
			uc.logger.Warn("TransitionAppointment: giving up after conflict for appointment=%d: %v", req.AppointmentID, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConcurrentConflict, err)
		}
		return nil, err
	}

	uc.metrics.ObserveTransition(req.NewState.String())
	uc.logger.Info("TransitionAppointment: appointment id=%d is now %s (version %d)",
		result.Appointment.ID, result.Appointment.CurrentState, result.Appointment.Version)

	return result, nil
}

func (uc *UseCase) transition(ctx context.Context, req *Request) (*Response, error) {
	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем запись без блокировки, чтобы узнать специалиста
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			return uc.mapRepoError("get appointment", req.AppointmentID, err)
		}

		if err := checkTransition(current.CurrentState, req.NewState); err != nil {
			uc.logger.Warn("TransitionAppointment: appointment=%d: %v", current.ID, err)
			return err
		}

		// 2.2. Порядок блокировок как при создании записи: специалист, затем запись
		reschedule := req.NewState == domain.StateRescheduled
		if reschedule {
			if err := uc.professionalRepo.LockForUpdate(txCtx, current.ProfessionalID); err != nil {
				if isConflict(err) {
					return err
				}
				uc.logger.Error("TransitionAppointment: failed to lock professional id=%d: %v", current.ProfessionalID, err)
				return fmt.Errorf("%w: failed to lock professional: %v", ErrInternal, err)
			}
		}

		locked, err := uc.appointmentRepo.GetByIDForUpdate(txCtx, req.AppointmentID)
		if err != nil {
			return uc.mapRepoError("lock appointment", req.AppointmentID, err)
		}
		if locked.Version != current.Version {
			return fmt.Errorf("%w: appointment id=%d changed from version %d to %d",
				domain.ErrConcurrentConflict, locked.ID, current.Version, locked.Version)
		}

		next := *locked
		next.CurrentState = req.NewState
		switch req.NewState {
		case domain.StateCompleted:
			next.IsCompleted = true
		case domain.StateAbsent:
			next.IsAbsent = true
		}

		// 2.3. Перенос проверяется тем же валидатором, что и новая запись, без учета самой записи
		if reschedule {
			if req.NewDate != nil {
				next.Date = *req.NewDate
			}
			if req.NewTime != nil {
				next.StartTime = *req.NewTime
			}
			end, err := next.StartTime.AddMinutes(locked.DurationMinutes())
			if err != nil {
				return fmt.Errorf("%w: rescheduled appointment must end on the same day", ErrInvalidInput)
			}
			next.EndTime = end

			rule, err := uc.validator.Validate(txCtx, &validateAppointment.Request{
				ProfessionalID:       locked.ProfessionalID,
				Date:                 next.Date,
				StartTime:            next.StartTime,
				EndTime:              next.EndTime,
				ExcludeAppointmentID: ptr.Ptr(locked.ID),
			})
			if err != nil {
				if _, ok := domain.AsRejection(err); ok {
					uc.logger.Warn("TransitionAppointment: reschedule of appointment=%d rejected: %v", locked.ID, err)
				}
				return err
			}
			next.RoomID = ptr.Ptr(rule.RoomID)
		}

		// 2.4. Запись и журнал
		updated, err := uc.appointmentRepo.UpdateState(txCtx, &next, locked.Version)
		if err != nil {
			return uc.mapRepoError("update appointment", locked.ID, err)
		}

		transition, err := uc.historyRepo.Append(txCtx, &domain.StateTransition{
			AppointmentID: updated.ID,
			State:         req.NewState,
			ChangedBy:     req.Actor,
			Reason:        req.Reason,
			PreviousDate:  locked.Date,
			PreviousTime:  locked.StartTime,
			CurrentDate:   updated.Date,
			CurrentTime:   updated.StartTime,
		})
		if err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("TransitionAppointment: failed to append transition: %v", err)
			return fmt.Errorf("%w: failed to append transition: %v", ErrInternal, err)
		}

		result = &Response{Appointment: updated, Transition: transition}
		return nil
	})

	return result, err
}

func (uc *UseCase) mapRepoError(op string, id int64, err error) error {
	if isConflict(err) {
		return err
	}
	if errors.Is(err, domain.ErrAppointmentNotFound) {
		uc.logger.Warn("TransitionAppointment: appointment id=%d not found", id)
		return domain.ErrAppointmentNotFound
	}
	uc.logger.Error("TransitionAppointment: failed to %s id=%d: %v", op, id, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

// checkTransition проверяет ребро по таблице переходов
func checkTransition(from, to domain.State) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConcurrentConflict) || pgerrors.IsConcurrentConflict(err)
}

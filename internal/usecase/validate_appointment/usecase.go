package validate_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase проверка предлагаемой записи без побочных эффектов
type UseCase struct {
	rulesRepo        BusinessHoursRepository
	appointmentRepo  AppointmentRepository
	blockedRepo      BlockedTimeRepository
	professionalRepo ProfessionalRepository
	timezones        TimezoneResolver
	metrics          MetricsRecorder
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rulesRepo BusinessHoursRepository,
	appointmentRepo AppointmentRepository,
	blockedRepo BlockedTimeRepository,
	professionalRepo ProfessionalRepository,
	timezones TimezoneResolver,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		rulesRepo:        rulesRepo,
		appointmentRepo:  appointmentRepo,
		blockedRepo:      blockedRepo,
		professionalRepo: professionalRepo,
		timezones:        timezones,
		metrics:          metrics,
		logger:           logger,
	}
}

// Execute возвращает результат проверки; отказ - это Response с OK=false, а не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	rule, err := uc.Validate(ctx, req)
	if err != nil {
		if rejection, ok := domain.AsRejection(err); ok {
			return &Response{OK: false, Reason: rejection.Reason, Message: rejection.Message}, nil
		}
		return nil, err
	}

	return &Response{OK: true, RoomID: ptr.Ptr(rule.RoomID)}, nil
}

// Validate возвращает подходящее правило или *domain.RejectionError.
// Читает через транзакцию из ctx, если она есть.
func (uc *UseCase) Validate(ctx context.Context, req *Request) (*domain.BusinessHourRule, error) {
	uc.logger.Info("ValidateAppointment: professional=%d, date=%s, time=%s-%s",
		req.ProfessionalID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	interval, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ValidateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Специалист и его компания
	professional, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			uc.logger.Warn("ValidateAppointment: professional id=%d not found", req.ProfessionalID)
			return nil, domain.ErrProfessionalNotFound
		}
		uc.logger.Error("ValidateAppointment: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, infraError("get professional", err)
	}

	company, err := uc.professionalRepo.GetCompany(ctx, professional.CompanyID)
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get company id=%d: %v", professional.CompanyID, err)
		return nil, infraError("get company", err)
	}
	loc := uc.timezones.Location(company.Timezone)

	// 3. Данные для проверки
	rules, err := uc.rulesRepo.ListByProfessional(ctx, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get business hours: %v", err)
		return nil, infraError("get business hours", err)
	}

	appointments, err := uc.appointmentRepo.ListByProfessionalAndDate(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get appointments: %v", err)
		return nil, infraError("get appointments", err)
	}

	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	blocked, err := uc.blockedRepo.ListForCompany(ctx, company.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get blocked times: %v", err)
		return nil, infraError("get blocked times", err)
	}

	// 4. Проверка
	candidate := Candidate{
		Date:         req.Date,
		Interval:     interval,
		Rules:        rules,
		Appointments: appointments,
		BlockedTimes: blocked,
		Location:     loc,
	}
	if req.ExcludeAppointmentID != nil {
		candidate.ExcludeAppointmentID = *req.ExcludeAppointmentID
	}

	rule, rejection := Check(candidate)
	if rejection != nil {
		uc.metrics.ObserveValidationRejection(string(rejection.Reason))
		uc.logger.Warn("ValidateAppointment: rejected professional=%d: %v", req.ProfessionalID, rejection)
		return nil, rejection
	}

	uc.logger.Info("ValidateAppointment: accepted professional=%d, room=%d", req.ProfessionalID, rule.RoomID)
	return rule, nil
}

// infraError сохраняет признак проигранной гонки: чтение внутри сериализуемой
// транзакции вызывающего тоже может получить 40001
func infraError(op string, err error) error {
	if errors.Is(err, domain.ErrConcurrentConflict) || pgerrors.IsConcurrentConflict(err) {
		return fmt.Errorf("%w: failed to %s: %v", domain.ErrConcurrentConflict, op, err)
	}
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

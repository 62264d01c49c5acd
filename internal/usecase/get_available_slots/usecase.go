package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для получения доступных слотов специалиста на дату
type UseCase struct {
	rulesRepo        BusinessHoursRepository
	appointmentRepo  AppointmentRepository
	blockedRepo      BlockedTimeRepository
	professionalRepo ProfessionalRepository
	catalog          ServiceCatalog
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
	catalog ServiceCatalog,
	timezones TimezoneResolver,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		rulesRepo:        rulesRepo,
		appointmentRepo:  appointmentRepo,
		blockedRepo:      blockedRepo,
		professionalRepo: professionalRepo,
		catalog:          catalog,
		timezones:        timezones,
		metrics:          metrics,
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%d, service=%d, date=%s",
		req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:           req.Date,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Slots:          []domain.Slot{},
	}

	// 2. Получаем специалиста
	professional, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%d not found", req.ProfessionalID)
			return nil, domain.ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 3. Получаем услугу; услуга чужой компании считается ненайденной
	service, err := uc.catalog.GetServiceWithStages(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, domain.ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.CompanyID != professional.CompanyID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to company=%d, professional company=%d",
			service.ID, service.CompanyID, professional.CompanyID)
		return nil, domain.ErrServiceNotFound
	}

	// 4. Длительность услуги
	duration, err := service.DurationMinutes()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	response.DurationMinutes = duration
	if duration <= 0 {
		uc.logger.Info("GetAvailableSlots: service id=%d has no duration, no slots", service.ID)
		return response, nil
	}

	// 5. Правила рабочего времени на день недели
	rules, err := uc.rulesRepo.ListByProfessional(ctx, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	dayRules := make([]*domain.BusinessHourRule, 0, len(rules))
	for _, rule := range rules {
		if rule.AppliesTo(req.Date) {
			dayRules = append(dayRules, rule)
		}
	}
	if len(dayRules) == 0 {
		uc.logger.Info("GetAvailableSlots: professional=%d does not work on %s",
			req.ProfessionalID, req.Date.Weekday())
		return response, nil
	}

	// 6. Занятость специалиста и блокировки компании
	appointments, err := uc.appointmentRepo.ListByProfessionalAndDate(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	company, err := uc.professionalRepo.GetCompany(ctx, professional.CompanyID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get company id=%d: %v", professional.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	loc := uc.timezones.Location(company.Timezone)

	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	blocked, err := uc.blockedRepo.ListForCompany(ctx, company.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}

	// 7. Перебор кандидатов
	response.Slots = computeSlots(
		dayRules,
		req.Date,
		duration,
		occupiedRanges(appointments),
		blockedRanges(blocked, req.Date, loc),
	)
	uc.metrics.ObserveSlotsComputed(len(response.Slots))

	uc.logger.Info("GetAvailableSlots: generated %d slots for professional=%d, service=%d, date=%s",
		len(response.Slots), req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return response, nil
}

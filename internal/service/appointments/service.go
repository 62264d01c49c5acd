package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис чтения записей и их журнала
type Service struct {
	appointmentRepo  AppointmentRepository
	historyRepo      StateHistoryRepository
	professionalRepo ProfessionalRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	historyRepo StateHistoryRepository,
	professionalRepo ProfessionalRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo:  appointmentRepo,
		historyRepo:      historyRepo,
		professionalRepo: professionalRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d, state=%s", id, appointment.CurrentState)
	return models.FromDomainAppointment(appointment), nil
}

// GetHistory возвращает журнал переходов записи, от старых к новым
func (s *Service) GetHistory(ctx context.Context, id int64) (*models.HistoryResponse, error) {
	s.logger.Info("GetHistory: fetching history for appointment id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	// Запись и журнал читаются из одного снимка
	var history []*domain.StateTransition
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 1. Запись должна существовать: пустой журнал у несуществующей записи это not found
		if _, err := s.getAppointment(txCtx, "GetHistory", id); err != nil {
			return err
		}

		// 2. Журнал
		var err error
		history, err = s.historyRepo.ListByAppointment(txCtx, id)
		if err != nil {
			s.logger.Error("GetHistory: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("GetHistory: transaction error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetHistory - transaction error: %v", ErrInternal, err)
	}

	sort.SliceStable(history, func(i, j int) bool {
		if !history[i].CreatedAt.Equal(history[j].CreatedAt) {
			return history[i].CreatedAt.Before(history[j].CreatedAt)
		}
		return history[i].ID < history[j].ID
	})

	s.logger.Info("GetHistory: found %d transitions for appointment id=%d", len(history), id)
	return models.FromDomainHistory(id, history), nil
}

// ListForProfessionalOnDate возвращает записи специалиста на дату, включая отмененные
func (s *Service) ListForProfessionalOnDate(ctx context.Context, professionalID int64, date time.Time) (*models.AgendaResponse, error) {
	s.logger.Info("ListForProfessionalOnDate: professional=%d, date=%s", professionalID, date.Format(domain.DateFormat))

	if professionalID <= 0 || date.IsZero() {
		return nil, fmt.Errorf("%w: professional id and date are required", ErrInvalidInput)
	}

	// 1. Специалист
	if _, err := s.professionalRepo.GetByID(ctx, professionalID); err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			s.logger.Warn("ListForProfessionalOnDate: professional id=%d not found", professionalID)
			return nil, domain.ErrProfessionalNotFound
		}
		s.logger.Error("ListForProfessionalOnDate: failed to get professional id=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 2. Записи
	list, err := s.appointmentRepo.ListByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		s.logger.Error("ListForProfessionalOnDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListForProfessionalOnDate - repository error: %v", ErrInternal, err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].StartTime.Minutes() < list[j].StartTime.Minutes()
	})

	s.logger.Info("ListForProfessionalOnDate: found %d appointments", len(list))
	return &models.AgendaResponse{
		ProfessionalID: professionalID,
		Date:           date.Format(domain.DateFormat),
		Appointments:   models.FromDomainAppointmentList(list),
	}, nil
}

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, domain.ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

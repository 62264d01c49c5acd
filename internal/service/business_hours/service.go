package business_hours

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/business_hours/models"
)

// Service администрирование правил рабочего времени специалистов
type Service struct {
	ruleRepo         RuleRepository
	professionalRepo ProfessionalRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	ruleRepo RuleRepository,
	professionalRepo ProfessionalRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:         ruleRepo,
		professionalRepo: professionalRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// List возвращает правила специалиста, упорядоченные по дню, кабинету и началу окна
func (s *Service) List(ctx context.Context, professionalID int64) (*models.ListResponse, error) {
	s.logger.Info("List: fetching rules for professional=%d", professionalID)

	if _, err := s.getProfessional(ctx, "List", professionalID); err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListByProfessional(ctx, professionalID)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	sortRules(rules)

	s.logger.Info("List: found %d rules for professional=%d", len(rules), professionalID)
	return models.FromDomainRuleList(professionalID, rules), nil
}

// Create добавляет правило. Проверка пересечений и вставка идут под блокировкой специалиста.
func (s *Service) Create(ctx context.Context, professionalID int64, req *models.RuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule for professional=%d, day=%d, room=%d", professionalID, req.DayOfWeek, req.RoomID)

	// 1. Валидация
	rule, err := s.buildRule(professionalID, req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	professional, err := s.getProfessional(ctx, "Create", professionalID)
	if err != nil {
		return nil, err
	}

	// 2. Кабинет должен принадлежать компании специалиста
	if err := s.ensureRoom(ctx, "Create", professional, rule.RoomID); err != nil {
		return nil, err
	}

	// 3. Пересечения и вставка
	var created *domain.BusinessHourRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.lockAndCheckOverlap(txCtx, "Create", rule); err != nil {
			return err
		}

		created, err = s.ruleRepo.Create(txCtx, rule)
		if err != nil {
			s.logger.Error("Create: repository error: %v", err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: successfully created rule id=%d", created.ID)
	return models.FromDomainRule(created), nil
}

// Update заменяет окно, перерыв и кабинет правила
func (s *Service) Update(ctx context.Context, ruleID int64, req *models.RuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: updating rule id=%d", ruleID)

	// 1. Существующее правило определяет специалиста
	existing, err := s.getRule(ctx, "Update", ruleID)
	if err != nil {
		return nil, err
	}

	// 2. Валидация
	rule, err := s.buildRule(existing.ProfessionalID, req)
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}
	rule.ID = existing.ID

	// 3. Кабинет должен принадлежать компании специалиста
	professional, err := s.getProfessional(ctx, "Update", existing.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureRoom(ctx, "Update", professional, rule.RoomID); err != nil {
		return nil, err
	}

	// 4. Пересечения и сохранение
	var updated *domain.BusinessHourRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.lockAndCheckOverlap(txCtx, "Update", rule); err != nil {
			return err
		}

		updated, err = s.ruleRepo.Update(txCtx, rule)
		if err != nil {
			if errors.Is(err, domain.ErrRuleNotFound) {
				return domain.ErrRuleNotFound
			}
			s.logger.Error("Update: repository error: %v", err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated rule id=%d", ruleID)
	return models.FromDomainRule(updated), nil
}

// Delete удаляет правило; уже созданные записи не затрагиваются
func (s *Service) Delete(ctx context.Context, ruleID int64) error {
	s.logger.Info("Delete: deleting rule id=%d", ruleID)

	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found", ruleID)
			return domain.ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted rule id=%d", ruleID)
	return nil
}

func (s *Service) buildRule(professionalID int64, req *models.RuleRequest) (*domain.BusinessHourRule, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.RoomID <= 0 {
		return nil, fmt.Errorf("%w: roomId is required", ErrInvalidInput)
	}

	rule, err := req.ToDomainRule(professionalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return rule, nil
}

func (s *Service) lockAndCheckOverlap(txCtx context.Context, op string, rule *domain.BusinessHourRule) error {
	if err := s.professionalRepo.LockForUpdate(txCtx, rule.ProfessionalID); err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			return domain.ErrProfessionalNotFound
		}
		s.logger.Error("%s: failed to lock professional id=%d: %v", op, rule.ProfessionalID, err)
		return fmt.Errorf("%w: failed to lock professional: %v", ErrInternal, err)
	}

	others, err := s.ruleRepo.ListByProfessional(txCtx, rule.ProfessionalID)
	if err != nil {
		s.logger.Error("%s: failed to list rules: %v", op, err)
		return fmt.Errorf("%w: failed to list rules: %v", ErrInternal, err)
	}

	for _, other := range others {
		if rule.ConflictsWith(other) {
			s.logger.Warn("%s: rule overlaps rule id=%d (day=%d, room=%d, %s-%s)",
				op, other.ID, other.DayOfWeek, other.RoomID, other.StartTime, other.EndTime)
			return fmt.Errorf("%w: id=%d %s-%s", ErrRuleOverlap, other.ID, other.StartTime, other.EndTime)
		}
	}
	return nil
}

func (s *Service) getProfessional(ctx context.Context, op string, professionalID int64) (*domain.Professional, error) {
	professional, err := s.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, domain.ErrProfessionalNotFound) {
			s.logger.Warn("%s: professional id=%d not found", op, professionalID)
			return nil, domain.ErrProfessionalNotFound
		}
		s.logger.Error("%s: failed to get professional id=%d: %v", op, professionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	return professional, nil
}

// ensureRoom чужой и несуществующий кабинет неразличимы для клиента
func (s *Service) ensureRoom(ctx context.Context, op string, professional *domain.Professional, roomID int64) error {
	room, err := s.professionalRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.logger.Warn("%s: room id=%d not found", op, roomID)
			return fmt.Errorf("%w: room id=%d not found", ErrInvalidInput, roomID)
		}
		s.logger.Error("%s: failed to get room id=%d: %v", op, roomID, err)
		return fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}
	if room.CompanyID != professional.CompanyID {
		s.logger.Warn("%s: room id=%d belongs to company=%d, professional id=%d to company=%d",
			op, roomID, room.CompanyID, professional.ID, professional.CompanyID)
		return fmt.Errorf("%w: room id=%d not found", ErrInvalidInput, roomID)
	}
	return nil
}

func (s *Service) getRule(ctx context.Context, op string, ruleID int64) (*domain.BusinessHourRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			s.logger.Warn("%s: rule id=%d not found", op, ruleID)
			return nil, domain.ErrRuleNotFound
		}
		s.logger.Error("%s: repository error for rule id=%d: %v", op, ruleID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return rule, nil
}

func sortRules(rules []*domain.BusinessHourRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.RoomID != b.RoomID {
			return a.RoomID < b.RoomID
		}
		return a.StartTime.Minutes() < b.StartTime.Minutes()
	})
}

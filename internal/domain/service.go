package domain

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service услуга каталога; после первой записи не меняется
type Service struct {
	ID           int64
	CompanyID    int64
	Name         string
	RawDuration  string // "HH:MM"
	MinPrice     *float64
	MaxPrice     *float64
	RegularPrice *float64
	Stages       []ServiceStage
}

// ServiceStage этап услуги
type ServiceStage struct {
	ID                 int64
	ServiceID          int64
	Sequence           int
	DurationMinutes    int
	IsProfessionalBusy bool
	IsActive           bool
}

// ActiveStages активные этапы в порядке sequence
func (s *Service) ActiveStages() []ServiceStage {
	active := make([]ServiceStage, 0, len(s.Stages))
	for _, stage := range s.Stages {
		if stage.IsActive {
			active = append(active, stage)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Sequence < active[j].Sequence
	})
	return active
}

// DurationMinutes сумма активных этапов, а без них - разобранный RawDuration
func (s *Service) DurationMinutes() (int, error) {
	if stages := s.ActiveStages(); len(stages) > 0 {
		total := 0
		for _, stage := range stages {
			total += stage.DurationMinutes
		}
		return total, nil
	}

	minutes, err := types.ParseDuration(s.RawDuration)
	if err != nil {
		return 0, fmt.Errorf("%w: service id=%d: %v", ErrInvalidServiceDuration, s.ID, err)
	}
	return minutes, nil
}

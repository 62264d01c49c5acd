package catalog

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

type cachedStage struct {
	ID                 int64 `json:"id"`
	Sequence           int   `json:"sequence"`
	DurationMinutes    int   `json:"durationMinutes"`
	IsProfessionalBusy bool  `json:"isProfessionalBusy"`
	IsActive           bool  `json:"isActive"`
}

type cachedService struct {
	ID           int64         `json:"id"`
	CompanyID    int64         `json:"companyId"`
	Name         string        `json:"name"`
	Duration     string        `json:"duration"`
	MinPrice     *float64      `json:"minPrice,omitempty"`
	MaxPrice     *float64      `json:"maxPrice,omitempty"`
	RegularPrice *float64      `json:"regularPrice,omitempty"`
	Stages       []cachedStage `json:"stages"`
}

func fromDomain(s *domain.Service) cachedService {
	stages := make([]cachedStage, 0, len(s.Stages))
	for _, st := range s.Stages {
		stages = append(stages, cachedStage{
			ID:                 st.ID,
			Sequence:           st.Sequence,
			DurationMinutes:    st.DurationMinutes,
			IsProfessionalBusy: st.IsProfessionalBusy,
			IsActive:           st.IsActive,
		})
	}

	return cachedService{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		Name:         s.Name,
		Duration:     s.RawDuration,
		MinPrice:     s.MinPrice,
		MaxPrice:     s.MaxPrice,
		RegularPrice: s.RegularPrice,
		Stages:       stages,
	}
}

func (c cachedService) toDomain() *domain.Service {
	stages := make([]domain.ServiceStage, 0, len(c.Stages))
	for _, st := range c.Stages {
		stages = append(stages, domain.ServiceStage{
			ID:                 st.ID,
			ServiceID:          c.ID,
			Sequence:           st.Sequence,
			DurationMinutes:    st.DurationMinutes,
			IsProfessionalBusy: st.IsProfessionalBusy,
			IsActive:           st.IsActive,
		})
	}

	return &domain.Service{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		RawDuration:  c.Duration,
		MinPrice:     c.MinPrice,
		MaxPrice:     c.MaxPrice,
		RegularPrice: c.RegularPrice,
		Stages:       stages,
	}
}

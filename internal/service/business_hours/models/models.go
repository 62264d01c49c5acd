package models

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RuleRequest тело запроса на создание или изменение правила
type RuleRequest struct {
	RoomID     int64   `json:"roomId"`
	DayOfWeek  int     `json:"dayOfWeek"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// RuleResponse правило в ответе API
type RuleResponse struct {
	ID             int64   `json:"id"`
	ProfessionalID int64   `json:"professionalId"`
	RoomID         int64   `json:"roomId"`
	DayOfWeek      int     `json:"dayOfWeek"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	BreakStart     *string `json:"breakStart,omitempty"`
	BreakEnd       *string `json:"breakEnd,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// ListResponse правила специалиста
type ListResponse struct {
	ProfessionalID int64          `json:"professionalId"`
	Rules          []RuleResponse `json:"rules"`
}

// ToDomainRule собирает правило; инварианты проверяет domain.BusinessHourRule.Validate
func (r *RuleRequest) ToDomainRule(professionalID int64) (*domain.BusinessHourRule, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	rule := &domain.BusinessHourRule{
		ProfessionalID: professionalID,
		RoomID:         r.RoomID,
		DayOfWeek:      r.DayOfWeek,
		StartTime:      start,
		EndTime:        end,
		Notes:          r.Notes,
	}

	if r.BreakStart != nil {
		bs, err := types.NewTimeStringFromString(*r.BreakStart)
		if err != nil {
			return nil, fmt.Errorf("breakStart: %w", err)
		}
		rule.BreakStart = &bs
	}
	if r.BreakEnd != nil {
		be, err := types.NewTimeStringFromString(*r.BreakEnd)
		if err != nil {
			return nil, fmt.Errorf("breakEnd: %w", err)
		}
		rule.BreakEnd = &be
	}

	return rule, nil
}

// FromDomainRule конвертирует domain модель в response
func FromDomainRule(rule *domain.BusinessHourRule) *RuleResponse {
	if rule == nil {
		return nil
	}

	resp := &RuleResponse{
		ID:             rule.ID,
		ProfessionalID: rule.ProfessionalID,
		RoomID:         rule.RoomID,
		DayOfWeek:      rule.DayOfWeek,
		StartTime:      rule.StartTime.String(),
		EndTime:        rule.EndTime.String(),
		Notes:          rule.Notes,
	}
	if rule.BreakStart != nil {
		s := rule.BreakStart.String()
		resp.BreakStart = &s
	}
	if rule.BreakEnd != nil {
		s := rule.BreakEnd.String()
		resp.BreakEnd = &s
	}

	return resp
}

// FromDomainRuleList конвертирует список правил
func FromDomainRuleList(professionalID int64, rules []*domain.BusinessHourRule) *ListResponse {
	result := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		result = append(result, *FromDomainRule(rule))
	}

	return &ListResponse{
		ProfessionalID: professionalID,
		Rules:          result,
	}
}

package domain

import (
	"errors"
	"fmt"
)

// RejectionReason код отказа при проверке записи
type RejectionReason string

const (
	ReasonOutOfHours       RejectionReason = "OUT_OF_HOURS"
	ReasonDuringBreak      RejectionReason = "DURING_BREAK"
	ReasonProfessionalBusy RejectionReason = "PROFESSIONAL_BUSY"
	ReasonCompanyBlocked   RejectionReason = "COMPANY_BLOCKED"
)

// Коды остальных ошибок таксономии
const (
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeNotFound           = "NOT_FOUND"
	CodeConcurrentConflict = "CONCURRENT_CONFLICT"
)

var (
	ErrOutOfHours       = errors.New("domain: appointment is outside business hours")
	ErrDuringBreak      = errors.New("domain: appointment overlaps a break")
	ErrProfessionalBusy = errors.New("domain: professional already has an appointment at this time")
	ErrCompanyBlocked   = errors.New("domain: company has blocked this time")

	ErrInvalidTransition = errors.New("domain: invalid state transition")
	ErrUnknownState      = errors.New("domain: unknown appointment state")

	ErrNotFound             = errors.New("domain: not found")
	ErrAppointmentNotFound  = fmt.Errorf("%w: appointment", ErrNotFound)
	ErrProfessionalNotFound = fmt.Errorf("%w: professional", ErrNotFound)
	ErrServiceNotFound      = fmt.Errorf("%w: service", ErrNotFound)
	ErrCompanyNotFound      = fmt.Errorf("%w: company", ErrNotFound)
	ErrRuleNotFound         = fmt.Errorf("%w: business hour rule", ErrNotFound)
	ErrRoomNotFound         = fmt.Errorf("%w: room", ErrNotFound)

	// ErrConcurrentConflict проигранная гонка при вставке или обновлении
	ErrConcurrentConflict = errors.New("domain: concurrent modification conflict")

	ErrInvalidRule            = errors.New("domain: invalid business hour rule")
	ErrInvalidServiceDuration = errors.New("domain: invalid service duration")
)

var reasonSentinels = map[RejectionReason]error{
	ReasonOutOfHours:       ErrOutOfHours,
	ReasonDuringBreak:      ErrDuringBreak,
	ReasonProfessionalBusy: ErrProfessionalBusy,
	ReasonCompanyBlocked:   ErrCompanyBlocked,
}

// RejectionError отказ валидатора; errors.Is сопоставляет его с sentinel причины
type RejectionError struct {
	Reason  RejectionReason
	Message string
}

func NewRejection(reason RejectionReason, format string, v ...interface{}) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, v...)}
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *RejectionError) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

// AsRejection достает RejectionError из цепочки ошибок
func AsRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// ErrorCode код таксономии для ошибки или пустая строка для инфраструктурных ошибок
func ErrorCode(err error) string {
	if rejection, ok := AsRejection(err); ok {
		return string(rejection.Reason)
	}
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConcurrentConflict):
		return CodeConcurrentConflict
	default:
		return ""
	}
}

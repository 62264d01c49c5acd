package validate_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные и возвращает интервал в минутах
func validateRequest(req *Request) (types.Interval, error) {
	if req.ProfessionalID <= 0 {
		return types.Interval{}, fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return types.Interval{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	start, err := types.ParseMinutes(req.StartTime)
	if err != nil {
		return types.Interval{}, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	end, err := types.ParseMinutes(req.EndTime)
	if err != nil {
		return types.Interval{}, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if start >= end {
		return types.Interval{}, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	return types.Interval{Start: start, End: end}, nil
}

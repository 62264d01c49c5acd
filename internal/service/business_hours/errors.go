package business_hours

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("business_hours: invalid input data")

	// ErrRuleOverlap возвращается, когда окно пересекается с другим правилом того же дня и кабинета
	ErrRuleOverlap = errors.New("business_hours: rule overlaps another rule")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("business_hours: internal error")
)

package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SlotStepMinutes шаг перебора начала слота внутри окна рабочего времени
const SlotStepMinutes = 15

// Business validation constants
const (
	MaxReasonLength = 500
	MaxNotesLength  = 500
)

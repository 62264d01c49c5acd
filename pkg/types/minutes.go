package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// strictClockPattern - значение целиком: "H:MM", "HH:MM" или TIME из postgres "HH:MM:SS[.ffffff]"
	strictClockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?$`)
	// clockPattern ищет "H:MM" внутри произвольного текста
	clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

// Overlaps - пересечение полуоткрытых интервалов; касание границами не считается
func (i Interval) Overlaps(other Interval) bool {
	return IntervalsOverlap(i.Start, i.End, other.Start, other.End)
}

// Contains проверяет, что other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

func (i Interval) Duration() int {
	return i.End - i.Start
}

// IntervalsOverlap true, если [aStart, aEnd) и [bStart, bEnd) пересекаются
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ToTimeString форматирует минуты от полуночи как "HH:MM".
// Значение вне [0, 1439] не нормализуется.
func ToTimeString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ToMinutes переводит время суток в минуты от полуночи.
// Неразбираемое значение превращается в 0 - для строгого разбора есть ParseMinutes.
func ToMinutes(value interface{}) int {
	minutes, err := ParseMinutes(value)
	if err != nil {
		return 0
	}
	return minutes
}

// ParseMinutes принимает "H:MM", "HH:MM", time.Time, TimeString или текст,
// содержащий распознаваемый фрагмент "H:MM" (например "1970-01-01T09:30:00Z").
// TimeString разбирается строго.
func ParseMinutes(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("%w: nil value", ErrInvalidTimeString)
	case time.Time:
		return v.Hour()*60 + v.Minute(), nil
	case *time.Time:
		if v == nil {
			return 0, fmt.Errorf("%w: nil time", ErrInvalidTimeString)
		}
		return v.Hour()*60 + v.Minute(), nil
	case TimeString:
		return parseClock(string(v))
	case string:
		return searchClock(v)
	case []byte:
		return searchClock(string(v))
	case fmt.Stringer:
		return searchClock(v.String())
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, value)
	}
}

// ParseDuration разбирает длительность "HH:MM" (или "HH:MM:SS") в минуты.
// Часы не ограничены сутками.
func ParseDuration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: duration %q", ErrInvalidTimeString, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: duration hours %q", ErrInvalidTimeString, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes >= 60 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: duration minutes %q", ErrInvalidTimeString, s)
	}

	return hours*60 + minutes, nil
}

// parseClock строгий разбор: строка целиком должна быть временем суток
func parseClock(s string) (int, error) {
	match := strictClockPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if match[3] != "" {
		if seconds, _ := strconv.Atoi(match[3]); seconds > 59 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimeString, s)
		}
	}
	return clockMinutes(s, match[1], match[2])
}

func searchClock(s string) (int, error) {
	match := clockPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return clockMinutes(s, match[1], match[2])
}

func clockMinutes(s, h, m string) (int, error) {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimeString, s)
	}

	return hours*60 + minutes, nil
}

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	timeStringLayout = "15:04"
	MinutesPerDay    = 24 * 60
)

var (
	ErrInvalidTimeString = errors.New("invalid time string format")
	ErrTimeOverflow      = errors.New("time string overflows the day")
)

// TimeString время суток в формате "HH:MM" без привязки к дате
type TimeString string

// NewTimeString берет время суток из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString парсит "H:MM", "HH:MM" или "HH:MM:SS" (секунды отбрасываются).
// Лишние символы вокруг времени - ошибка.
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes)
}

// FromMinutes строит TimeString из количества минут от полуночи (0..1439)
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(ToTimeString(minutes)), nil
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение - корректное время суток
func (t TimeString) Validate() error {
	_, err := parseClock(string(t))
	return err
}

// Minutes возвращает количество минут от полуночи; для некорректного значения - 0
func (t TimeString) Minutes() int {
	minutes, err := parseClock(string(t))
	if err != nil {
		return 0
	}
	return minutes
}

// AddMinutes сдвигает время; переход через полночь - ошибка
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	base, err := parseClock(string(t))
	if err != nil {
		return "", err
	}
	return FromMinutes(base + minutes)
}

// Scan реализует sql.Scanner (колонки TIME приходят из lib/pq как "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanText(string(v))
	case string:
		return t.scanText(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanText(s string) error {
	minutes, err := parseClock(s)
	if err != nil {
		return err
	}
	parsed, err := FromMinutes(minutes)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

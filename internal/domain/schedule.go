package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Company арендатор; часовой пояс нужен, чтобы переложить блокировки на календарную дату
type Company struct {
	ID       int64
	Timezone string
}

type Professional struct {
	ID        int64
	CompanyID int64
	Name      string
}

// Room кабинет компании
type Room struct {
	ID        int64
	CompanyID int64
	Name      string
}

// BusinessHourRule еженедельное окно работы специалиста в кабинете
type BusinessHourRule struct {
	ID             int64
	ProfessionalID int64
	RoomID         int64
	DayOfWeek      int // 0 - воскресенье
	StartTime      types.TimeString
	EndTime        types.TimeString
	BreakStart     *types.TimeString
	BreakEnd       *types.TimeString
	Notes          *string
}

// Window окно правила в минутах
func (r *BusinessHourRule) Window() types.Interval {
	return types.Interval{Start: r.StartTime.Minutes(), End: r.EndTime.Minutes()}
}

// Break окно перерыва, если оба поля заданы
func (r *BusinessHourRule) Break() (types.Interval, bool) {
	if r.BreakStart == nil || r.BreakEnd == nil {
		return types.Interval{}, false
	}
	return types.Interval{Start: r.BreakStart.Minutes(), End: r.BreakEnd.Minutes()}, true
}

// AppliesTo true, если правило действует в день недели даты
func (r *BusinessHourRule) AppliesTo(date time.Time) bool {
	return r.DayOfWeek == int(date.Weekday())
}

// Validate проверяет инварианты правила
func (r *BusinessHourRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be in 0..6", ErrInvalidRule)
	}

	start, err := types.ParseMinutes(r.StartTime)
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidRule, err)
	}
	end, err := types.ParseMinutes(r.EndTime)
	if err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidRule, err)
	}
	if start >= end {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidRule)
	}

	if (r.BreakStart == nil) != (r.BreakEnd == nil) {
		return fmt.Errorf("%w: breakStart and breakEnd must be set together", ErrInvalidRule)
	}
	if r.BreakStart == nil {
		return nil
	}

	breakStart, err := types.ParseMinutes(*r.BreakStart)
	if err != nil {
		return fmt.Errorf("%w: breakStart: %v", ErrInvalidRule, err)
	}
	breakEnd, err := types.ParseMinutes(*r.BreakEnd)
	if err != nil {
		return fmt.Errorf("%w: breakEnd: %v", ErrInvalidRule, err)
	}
	if breakStart >= breakEnd {
		return fmt.Errorf("%w: breakStart must be before breakEnd", ErrInvalidRule)
	}
	if breakStart < start || breakEnd > end {
		return fmt.Errorf("%w: break must lie within business hours", ErrInvalidRule)
	}

	return nil
}

// ConflictsWith true для правил одного специалиста, дня и кабинета с пересекающимися окнами
func (r *BusinessHourRule) ConflictsWith(other *BusinessHourRule) bool {
	if r.ID != 0 && r.ID == other.ID {
		return false
	}
	if r.ProfessionalID != other.ProfessionalID || r.DayOfWeek != other.DayOfWeek || r.RoomID != other.RoomID {
		return false
	}
	return r.Window().Overlaps(other.Window())
}

// CompanyBlockedTime период, когда у компании нельзя записаться ни к кому
type CompanyBlockedTime struct {
	ID        int64
	CompanyID int64
	InitDate  time.Time
	EndDate   time.Time
	Message   string
}

// ProjectOnto перекладывает блокировку на календарную дату в зоне loc.
// Возвращает false, если блокировка этот день не затрагивает.
func (b *CompanyBlockedTime) ProjectOnto(date time.Time, loc *time.Location) (types.Interval, bool) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	from := b.InitDate
	if from.Before(dayStart) {
		from = dayStart
	}
	to := b.EndDate
	if to.After(dayEnd) {
		to = dayEnd
	}
	if !from.Before(to) {
		return types.Interval{}, false
	}

	// Минуты считаются по настенному времени loc: в день перевода часов
	// от полуночи проходит не столько минут, сколько показывают часы
	start := wallMinutes(from.In(loc))
	end := types.MinutesPerDay
	if to.Before(dayEnd) {
		local := to.In(loc)
		end = wallMinutes(local)
		if local.Second() > 0 || local.Nanosecond() > 0 {
			end++
		}
	}
	// Повтор часа при переводе назад может развернуть окно
	if end < start {
		start, end = end, start
	}
	if start == end {
		return types.Interval{}, false
	}
	return types.Interval{Start: start, End: end}, true
}

func wallMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

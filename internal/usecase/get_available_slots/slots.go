package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// computeSlots перебирает начало слота с шагом SlotStepMinutes в каждом правиле дня
// и отбрасывает кандидатов, задевающих перерыв, занятость или блокировку компании.
// Правила разных кабинетов независимы: одно и то же время может быть доступно в двух кабинетах.
func computeSlots(
	rules []*domain.BusinessHourRule,
	date time.Time,
	duration int,
	occupied []types.Interval,
	blocked []types.Interval,
) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if duration <= 0 {
		return slots
	}

	for _, rule := range rules {
		if !rule.AppliesTo(date) {
			continue
		}

		window := rule.Window()
		br, hasBreak := rule.Break()

		// окно короче услуги дает ноль кандидатов
		for start := window.Start; start+duration <= window.End; start += domain.SlotStepMinutes {
			candidate := types.Interval{Start: start, End: start + duration}

			if hasBreak && candidate.Overlaps(br) {
				continue
			}
			if overlapsAny(candidate, occupied) || overlapsAny(candidate, blocked) {
				continue
			}

			slots = append(slots, domain.Slot{
				Date:            date,
				StartTime:       types.TimeString(types.ToTimeString(candidate.Start)),
				EndTime:         types.TimeString(types.ToTimeString(candidate.End)),
				DurationMinutes: duration,
				RoomID:          rule.RoomID,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		si, sj := slots[i].StartTime.Minutes(), slots[j].StartTime.Minutes()
		if si != sj {
			return si < sj
		}
		return slots[i].RoomID < slots[j].RoomID
	})

	return slots
}

// occupiedRanges интервалы записей, которые занимают время специалиста (без отмененных)
func occupiedRanges(appointments []*domain.Appointment) []types.Interval {
	ranges := make([]types.Interval, 0, len(appointments))
	for _, appointment := range appointments {
		if !appointment.OccupiesTime() {
			continue
		}
		ranges = append(ranges, appointment.Interval())
	}
	return ranges
}

// blockedRanges блокировки компании, переложенные на дату в часовом поясе компании
func blockedRanges(blocked []*domain.CompanyBlockedTime, date time.Time, loc *time.Location) []types.Interval {
	ranges := make([]types.Interval, 0, len(blocked))
	for _, b := range blocked {
		if window, ok := b.ProjectOnto(date, loc); ok {
			ranges = append(ranges, window)
		}
	}
	return ranges
}

func overlapsAny(candidate types.Interval, ranges []types.Interval) bool {
	for _, r := range ranges {
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}

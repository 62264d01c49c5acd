package domain

import (
	"fmt"
	"strings"
)

// State этап жизненного цикла записи; значение совпадает с id в таблице appointment_states
type State int64

const (
	StateCreated     State = 1
	StateConfirmed   State = 2
	StateCancelled   State = 3
	StateRescheduled State = 4
	StateCompleted   State = 5
	StateAbsent      State = 6
)

var stateNames = map[State]string{
	StateCreated:     "Created",
	StateConfirmed:   "Confirmed",
	StateCancelled:   "Cancelled",
	StateRescheduled: "Rescheduled",
	StateCompleted:   "Completed",
	StateAbsent:      "Absent",
}

// allowedTransitions таблица переходов; состояния без записи терминальные
var allowedTransitions = map[State][]State{
	StateCreated:     {StateConfirmed, StateCancelled, StateRescheduled},
	StateConfirmed:   {StateCancelled, StateRescheduled, StateCompleted, StateAbsent},
	StateRescheduled: {StateConfirmed, StateCancelled, StateRescheduled},
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int64(s))
}

func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// IsTerminal true для состояний, из которых нет переходов
func (s State) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo проверяет ребро s -> to в таблице переходов
func (s State) CanTransitionTo(to State) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions возвращает копию списка допустимых целевых состояний
func (s State) AllowedTransitions() []State {
	next := allowedTransitions[s]
	out := make([]State, len(next))
	copy(out, next)
	return out
}

// ParseState принимает имя состояния без учета регистра
func ParseState(name string) (State, error) {
	for state, stateName := range stateNames {
		if strings.EqualFold(stateName, strings.TrimSpace(name)) {
			return state, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

package transition_appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// store общее состояние фейковой БД; fakeTxManager откатывает его при ошибке
type store struct {
	appointments map[int64]domain.Appointment
	history      []domain.StateTransition
}

func (s *store) snapshot() *store {
	copied := &store{appointments: make(map[int64]domain.Appointment, len(s.appointments))}
	for id, a := range s.appointments {
		copied.appointments[id] = a
	}
	copied.history = append(copied.history, s.history...)
	return copied
}

type fakeAppointments struct {
	db *store
	// bumpBeforeLock имитирует конкурентный переход между чтением и блокировкой
	bumpBeforeLock int
	updateErrs     []error
	updateCalls    int
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.db.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.bumpBeforeLock > 0 {
		f.bumpBeforeLock--
		a := f.db.appointments[id]
		a.Version++
		f.db.appointments[id] = a
	}
	return f.GetByID(ctx, id)
}

func (f *fakeAppointments) UpdateState(_ context.Context, a *domain.Appointment, expectedVersion int64) (*domain.Appointment, error) {
	f.updateCalls++
	if len(f.updateErrs) >= f.updateCalls && f.updateErrs[f.updateCalls-1] != nil {
		return nil, f.updateErrs[f.updateCalls-1]
	}
	stored, ok := f.db.appointments[a.ID]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	if stored.Version != expectedVersion {
		return nil, fmt.Errorf("%w: version mismatch", domain.ErrConcurrentConflict)
	}
	updated := *a
	updated.Version = expectedVersion + 1
	f.db.appointments[a.ID] = updated
	return &updated, nil
}

type fakeHistory struct {
	db       *store
	failWith []error // ошибки для первых вызовов Append
	calls    int
}

func (f *fakeHistory) Append(_ context.Context, t *domain.StateTransition) (*domain.StateTransition, error) {
	f.calls++
	if len(f.failWith) >= f.calls && f.failWith[f.calls-1] != nil {
		return nil, f.failWith[f.calls-1]
	}
	copied := *t
	copied.ID = int64(len(f.db.history) + 1)
	f.db.history = append(f.db.history, copied)
	return &copied, nil
}

type fakeProfessionals struct {
	locks []int64
}

func (f *fakeProfessionals) LockForUpdate(_ context.Context, id int64) error {
	f.locks = append(f.locks, id)
	return nil
}

type fakeValidator struct {
	rejection error
	requests  []*validateAppointment.Request
}

func (f *fakeValidator) Validate(_ context.Context, req *validateAppointment.Request) (*domain.BusinessHourRule, error) {
	f.requests = append(f.requests, req)
	if f.rejection != nil {
		return nil, f.rejection
	}
	return &domain.BusinessHourRule{RoomID: 4}, nil
}

type fakeTxManager struct {
	db    *store
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	before := f.db.snapshot()
	if err := fn(ctx); err != nil {
		f.db.appointments = before.appointments
		f.db.history = before.history
		return err
	}
	return nil
}

type transitionsRecorder struct {
	states []string
}

func (r *transitionsRecorder) ObserveTransition(state string) { r.states = append(r.states, state) }

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

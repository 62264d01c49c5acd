package business_hours

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/business_hours/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRules struct {
	items  map[int64]*domain.BusinessHourRule
	nextID int64
}

func (f *fakeRules) ListByProfessional(_ context.Context, professionalID int64) ([]*domain.BusinessHourRule, error) {
	out := make([]*domain.BusinessHourRule, 0)
	for _, r := range f.items {
		if r.ProfessionalID == professionalID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRules) GetByID(_ context.Context, id int64) (*domain.BusinessHourRule, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, domain.ErrRuleNotFound
	}
	return r, nil
}

func (f *fakeRules) Create(_ context.Context, rule *domain.BusinessHourRule) (*domain.BusinessHourRule, error) {
	f.nextID++
	copied := *rule
	copied.ID = f.nextID
	f.items[copied.ID] = &copied
	return &copied, nil
}

func (f *fakeRules) Update(_ context.Context, rule *domain.BusinessHourRule) (*domain.BusinessHourRule, error) {
	if _, ok := f.items[rule.ID]; !ok {
		return nil, domain.ErrRuleNotFound
	}
	copied := *rule
	f.items[rule.ID] = &copied
	return &copied, nil
}

func (f *fakeRules) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeProfessionals struct {
	locks int
}

func (f *fakeProfessionals) GetByID(_ context.Context, id int64) (*domain.Professional, error) {
	if id != 1 {
		return nil, domain.ErrProfessionalNotFound
	}
	return &domain.Professional{ID: 1, CompanyID: 10}, nil
}

// кабинеты 1-3 у компании 10, 50 у компании 20
func (f *fakeProfessionals) GetRoom(_ context.Context, id int64) (*domain.Room, error) {
	switch {
	case id >= 1 && id <= 3:
		return &domain.Room{ID: id, CompanyID: 10}, nil
	case id == 50:
		return &domain.Room{ID: id, CompanyID: 20}, nil
	default:
		return nil, domain.ErrRoomNotFound
	}
}

func (f *fakeProfessionals) LockForUpdate(_ context.Context, id int64) error {
	f.locks++
	if id != 1 {
		return domain.ErrProfessionalNotFound
	}
	return nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func ts(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func newService() (*Service, *fakeRules, *fakeProfessionals) {
	rules := &fakeRules{
		items: map[int64]*domain.BusinessHourRule{
			1: {ID: 1, ProfessionalID: 1, RoomID: 1, DayOfWeek: 1, StartTime: "08:00", EndTime: "12:00"},
			2: {ID: 2, ProfessionalID: 1, RoomID: 2, DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00",
				BreakStart: ts("15:00"), BreakEnd: ts("15:30")},
		},
		nextID: 2,
	}
	professionals := &fakeProfessionals{}
	return NewService(rules, professionals, &fakeTxManager{}, nopLogger{}), rules, professionals
}

func TestList_Sorted(t *testing.T) {
	svc, rules, _ := newService()
	rules.items[3] = &domain.BusinessHourRule{ID: 3, ProfessionalID: 1, RoomID: 1, DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"}

	resp, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Rules, 3)
	assert.Equal(t, int64(3), resp.Rules[0].ID)
	assert.Equal(t, int64(1), resp.Rules[1].ID)
	assert.Equal(t, "15:00", *resp.Rules[2].BreakStart)

	_, err = svc.List(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrProfessionalNotFound)
}

func TestCreate(t *testing.T) {
	svc, rules, professionals := newService()

	resp, err := svc.Create(context.Background(), 1, &models.RuleRequest{
		RoomID: 1, DayOfWeek: 1, StartTime: "12:00", EndTime: "18:00",
		BreakStart: ptr.Ptr("14:00"), BreakEnd: ptr.Ptr("14:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "12:00", resp.StartTime)
	assert.Len(t, rules.items, 3)
	assert.Equal(t, 1, professionals.locks)
}

func TestCreate_Overlap(t *testing.T) {
	svc, rules, _ := newService()

	_, err := svc.Create(context.Background(), 1, &models.RuleRequest{
		RoomID: 1, DayOfWeek: 1, StartTime: "11:00", EndTime: "13:00",
	})
	assert.ErrorIs(t, err, ErrRuleOverlap)
	assert.Len(t, rules.items, 2)
}

func TestCreate_OtherRoomOrDayDoesNotOverlap(t *testing.T) {
	tests := []struct {
		name string
		req  models.RuleRequest
	}{
		{name: "other room", req: models.RuleRequest{RoomID: 3, DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"}},
		{name: "other day", req: models.RuleRequest{RoomID: 1, DayOfWeek: 2, StartTime: "09:00", EndTime: "11:00"}},
		{name: "touching", req: models.RuleRequest{RoomID: 1, DayOfWeek: 1, StartTime: "12:00", EndTime: "13:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService()
			req := tt.req
			_, err := svc.Create(context.Background(), 1, &req)
			assert.NoError(t, err)
		})
	}
}

func TestCreate_InvalidRules(t *testing.T) {
	tests := []struct {
		name string
		req  models.RuleRequest
	}{
		{name: "no room", req: models.RuleRequest{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
		{name: "bad day", req: models.RuleRequest{RoomID: 1, DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}},
		{name: "start after end", req: models.RuleRequest{RoomID: 1, DayOfWeek: 3, StartTime: "10:00", EndTime: "09:00"}},
		{name: "bad clock", req: models.RuleRequest{RoomID: 1, DayOfWeek: 3, StartTime: "9h", EndTime: "10:00"}},
		{name: "half break", req: models.RuleRequest{RoomID: 1, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
			BreakStart: ptr.Ptr("12:00")}},
		{name: "break outside", req: models.RuleRequest{RoomID: 1, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
			BreakStart: ptr.Ptr("16:30"), BreakEnd: ptr.Ptr("17:30")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, professionals := newService()
			req := tt.req
			_, err := svc.Create(context.Background(), 1, &req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, professionals.locks)
		})
	}
}

func TestCreate_RoomOfAnotherCompany(t *testing.T) {
	tests := []struct {
		name   string
		roomID int64
	}{
		{name: "other company", roomID: 50},
		{name: "unknown room", roomID: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rules, professionals := newService()

			_, err := svc.Create(context.Background(), 1, &models.RuleRequest{
				RoomID: tt.roomID, DayOfWeek: 4, StartTime: "09:00", EndTime: "10:00",
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Len(t, rules.items, 2)
			assert.Zero(t, professionals.locks)
		})
	}
}

func TestUpdate_RoomOfAnotherCompany(t *testing.T) {
	svc, rules, _ := newService()

	_, err := svc.Update(context.Background(), 1, &models.RuleRequest{
		RoomID: 50, DayOfWeek: 1, StartTime: "08:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, int64(1), rules.items[1].RoomID)
}

func TestUpdate(t *testing.T) {
	svc, rules, _ := newService()

	// сдвиг правила внутри собственного окна не считается пересечением
	resp, err := svc.Update(context.Background(), 1, &models.RuleRequest{
		RoomID: 1, DayOfWeek: 1, StartTime: "07:00", EndTime: "12:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "07:00", resp.StartTime)
	assert.Equal(t, types.TimeString("12:30"), rules.items[1].EndTime)

	_, err = svc.Update(context.Background(), 1, &models.RuleRequest{
		RoomID: 2, DayOfWeek: 1, StartTime: "16:00", EndTime: "18:00",
	})
	assert.ErrorIs(t, err, ErrRuleOverlap)

	_, err = svc.Update(context.Background(), 99, &models.RuleRequest{
		RoomID: 1, DayOfWeek: 1, StartTime: "07:00", EndTime: "08:00",
	})
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestDelete(t *testing.T) {
	svc, rules, _ := newService()

	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.Len(t, rules.items, 1)

	assert.ErrorIs(t, svc.Delete(context.Background(), 2), domain.ErrRuleNotFound)
}

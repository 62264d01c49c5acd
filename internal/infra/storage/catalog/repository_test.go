package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

var (
	serviceColumns = []string{"id", "company_id", "name", "duration", "min_price", "max_price", "regular_price"}
	stageColumns   = []string{"id", "service_id", "sequence", "duration_minutes", "is_professional_busy", "is_active"}
)

func TestGetServiceWithStages(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, company_id, name, duration, min_price, max_price, regular_price FROM services WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(7), int64(10), "Стрижка", "01:30", nil, 2500.0, 1800.5))
	mock.ExpectQuery(`SELECT id, service_id, sequence, duration_minutes, is_professional_busy, is_active ` +
		`FROM service_stages WHERE service_id = \$1 ORDER BY sequence ASC, id ASC`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(stageColumns).
			AddRow(int64(1), int64(7), int64(1), int64(30), true, true).
			AddRow(int64(2), int64(7), int64(2), int64(15), false, false))

	service, err := repo.GetServiceWithStages(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(10), service.CompanyID)
	assert.Equal(t, "01:30", service.RawDuration)
	assert.Nil(t, service.MinPrice)
	assert.Equal(t, ptr.Ptr(2500.0), service.MaxPrice)
	assert.Equal(t, ptr.Ptr(1800.5), service.RegularPrice)

	require.Len(t, service.Stages, 2)
	assert.Equal(t, domain.ServiceStage{
		ID: 1, ServiceID: 7, Sequence: 1, DurationMinutes: 30, IsProfessionalBusy: true, IsActive: true,
	}, service.Stages[0])
	assert.False(t, service.Stages[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetServiceWithStages_WithoutStages(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM services WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(7), int64(10), "Консультация", "00:45", nil, nil, nil))
	mock.ExpectQuery(`FROM service_stages`).
		WillReturnRows(sqlmock.NewRows(stageColumns))

	service, err := repo.GetServiceWithStages(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, service.Stages)
	assert.Empty(t, service.Stages)

	minutes, err := service.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 45, minutes)
}

func TestGetServiceWithStages_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM services WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	_, err := repo.GetServiceWithStages(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
	// этапы не запрашиваются
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetServiceWithStages_StagesError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM services WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(7), int64(10), "Стрижка", "01:30", nil, nil, nil))
	mock.ExpectQuery(`FROM service_stages`).WillReturnError(assert.AnError)

	_, err := repo.GetServiceWithStages(context.Background(), 7)
	assert.ErrorIs(t, err, ErrExecQuery)
}

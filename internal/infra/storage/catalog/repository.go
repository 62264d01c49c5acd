package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository каталог услуг компании
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceWithStages получает услугу вместе со всеми этапами (включая неактивные)
func (r *Repository) GetServiceWithStages(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Услуга
	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"duration",
		"min_price",
		"max_price",
		"regular_price",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceWithStages - build service query: %v", ErrBuildQuery, err)
	}

	var (
		service                   domain.Service
		duration                  sql.NullString
		minPrice, maxPrice, price sql.NullFloat64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.CompanyID,
		&service.Name,
		&duration,
		&minPrice,
		&maxPrice,
		&price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog.repository: %w", domain.ErrServiceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceWithStages - scan service: %v", ErrScanRow, err)
	}

	service.RawDuration = duration.String
	service.MinPrice = nullFloat(minPrice)
	service.MaxPrice = nullFloat(maxPrice)
	service.RegularPrice = nullFloat(price)

	// 2. Этапы
	stages, err := r.listStages(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	service.Stages = stages

	return &service, nil
}

func (r *Repository) listStages(ctx context.Context, executor DBExecutor, serviceID int64) ([]domain.ServiceStage, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"service_id",
		"sequence",
		"duration_minutes",
		"is_professional_busy",
		"is_active",
	).
		From("service_stages").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("sequence ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listStages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listStages - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stages := make([]domain.ServiceStage, 0)
	for rows.Next() {
		var stage domain.ServiceStage
		if err := rows.Scan(
			&stage.ID,
			&stage.ServiceID,
			&stage.Sequence,
			&stage.DurationMinutes,
			&stage.IsProfessionalBusy,
			&stage.IsActive,
		); err != nil {
			return nil, fmt.Errorf("%w: listStages - scan row: %v", ErrScanRow, err)
		}
		stages = append(stages, stage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listStages - rows error: %v", ErrScanRow, err)
	}

	return stages, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

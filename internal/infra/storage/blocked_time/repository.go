package blocked_time

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий блокировок времени компании
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListForCompany возвращает блокировки, пересекающие полуинтервал [from, to)
func (r *Repository) ListForCompany(ctx context.Context, companyID int64, from, to time.Time) ([]*domain.CompanyBlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"init_date",
		"end_date",
		"message",
	).
		From("company_blocked_times").
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Lt{"init_date": to.UTC()}).
		Where(squirrel.Gt{"end_date": from.UTC()}).
		OrderBy("init_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: ListForCompany - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: ListForCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.CompanyBlockedTime, 0)
	for rows.Next() {
		var b domain.CompanyBlockedTime
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.InitDate, &b.EndDate, &b.Message); err != nil {
			return nil, fmt.Errorf("%w: ListForCompany - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &b)
	}

	if err := rows.Err(); err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: ListForCompany - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: ListForCompany - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

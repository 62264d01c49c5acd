package business_hours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const table = "business_hours"

var columns = []string{
	"id",
	"professional_id",
	"room_id",
	"day_of_week",
	"start_time",
	"end_time",
	"break_start",
	"break_end",
	"notes",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий правил рабочего времени
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByProfessional возвращает все правила специалиста
func (r *Repository) ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.BusinessHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("day_of_week ASC", "room_id ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: ListByProfessional - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: ListByProfessional - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.BusinessHourRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProfessional - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: ListByProfessional - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: ListByProfessional - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BusinessHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("business_hours.repository: %w", domain.ErrRuleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// Create создает правило
func (r *Repository) Create(ctx context.Context, rule *domain.BusinessHourRule) (*domain.BusinessHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"professional_id",
			"room_id",
			"day_of_week",
			"start_time",
			"end_time",
			"break_start",
			"break_end",
			"notes",
		).
		Values(
			rule.ProfessionalID,
			rule.RoomID,
			rule.DayOfWeek,
			rule.StartTime,
			rule.EndTime,
			rule.BreakStart,
			rule.BreakEnd,
			rule.Notes,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *rule
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		if pgerrors.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("business_hours.repository: %w", domain.ErrProfessionalNotFound)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// Update полностью заменяет окно, перерыв, кабинет и заметки правила
func (r *Repository) Update(ctx context.Context, rule *domain.BusinessHourRule) (*domain.BusinessHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("room_id", rule.RoomID).
		Set("day_of_week", rule.DayOfWeek).
		Set("start_time", rule.StartTime).
		Set("end_time", rule.EndTime).
		Set("break_start", rule.BreakStart).
		Set("break_end", rule.BreakEnd).
		Set("notes", rule.Notes).
		Where(squirrel.Eq{"id": rule.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("business_hours.repository: %w", domain.ErrRuleNotFound)
	}

	updated := *rule
	return &updated, nil
}

// Delete удаляет правило
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("business_hours.repository: %w", domain.ErrRuleNotFound)
	}

	return nil
}

func scanRule(row rowScanner) (*domain.BusinessHourRule, error) {
	var (
		rule                 domain.BusinessHourRule
		breakStart, breakEnd *types.TimeString
		notes                sql.NullString
	)

	err := row.Scan(
		&rule.ID,
		&rule.ProfessionalID,
		&rule.RoomID,
		&rule.DayOfWeek,
		&rule.StartTime,
		&rule.EndTime,
		&breakStart,
		&breakEnd,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	rule.BreakStart = breakStart
	rule.BreakEnd = breakEnd
	if notes.Valid {
		rule.Notes = &notes.String
	}

	return &rule, nil
}

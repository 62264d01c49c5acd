package professional

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
)

// Repository специалисты, их компании и кабинеты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория специалистов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает специалиста по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "company_id", "name").
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Professional
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CompanyID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("professional.repository: %w", domain.ErrProfessionalNotFound)
	}
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: GetByID - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: GetByID - scan professional: %v", ErrScanRow, err)
	}

	return &p, nil
}

// GetCompany получает компанию с ее часовым поясом
func (r *Repository) GetCompany(ctx context.Context, companyID int64) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "timezone").
		From("companies").
		Where(squirrel.Eq{"id": companyID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCompany - build select query: %v", ErrBuildQuery, err)
	}

	var (
		c  domain.Company
		tz sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &tz)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("professional.repository: %w", domain.ErrCompanyNotFound)
	}
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: GetCompany - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: GetCompany - scan company: %v", ErrScanRow, err)
	}
	c.Timezone = tz.String

	return &c, nil
}

// GetRoom получает кабинет по ID
func (r *Repository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "company_id", "name").
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom - build select query: %v", ErrBuildQuery, err)
	}

	var room domain.Room
	err = executor.QueryRowContext(ctx, query, args...).Scan(&room.ID, &room.CompanyID, &room.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("professional.repository: %w", domain.ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom - scan room: %v", ErrScanRow, err)
	}

	return &room, nil
}

// LockForUpdate блокирует строку специалиста до конца текущей транзакции.
// Имеет смысл только внутри транзакции txmanager.
func (r *Repository) LockForUpdate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var locked int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("professional.repository: %w", domain.ErrProfessionalNotFound)
	}
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return fmt.Errorf("%w: LockForUpdate - %v", domain.ErrConcurrentConflict, err)
		}
		return fmt.Errorf("%w: LockForUpdate - execute query: %v", ErrExecQuery, err)
	}

	return nil
}

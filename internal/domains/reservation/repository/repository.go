package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Reservation=MockReservationRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"unires/infras/otel"
	"unires/infras/postgres"
	"unires/internal/domains/reservation/model"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/logger"
	gRepo "unires/shared/repository"
)

const conflictMessage = "the resource is already reserved for an overlapping time"

type Reservation interface {
	Insert(ctx context.Context, reservation model.Reservation) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string, skipLocked bool) (model.Reservation, error)
	SaveTx(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) error
	FindOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]model.Reservation, error)
	ListForResources(ctx context.Context, resourceIDs []string, start, end time.Time) ([]model.Reservation, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Reservation, error)
	ApprovedExtensionHours(ctx context.Context, userID string, dayStart, dayEnd time.Time) (float64, error)
	ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db      *postgres.Connection
	otel    otel.Otel
	columns []string
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	repo := gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repositoryImpl{
		Repository: repo,
		db:         db,
		otel:       otel,
		columns:    repo.InsertColumns,
	}
}

// Insert surfaces exclusion violations from concurrent bookings as conflicts.
func (r *repositoryImpl) Insert(ctx context.Context, reservation model.Reservation) error {
	return gRepo.TranslateError(r.Repository.Insert(ctx, reservation), conflictMessage)
}

func (r *repositoryImpl) InsertTx(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) error {
	return gRepo.TranslateError(r.Repository.InsertTx(ctx, tx, reservation), conflictMessage)
}

// GetForUpdate locks the row for the rest of tx. With skipLocked a row held
// by another transaction is skipped and the zero value is returned.
func (r *repositoryImpl) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string, skipLocked bool) (model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetForUpdate")
	defer scope.End()

	var reservation model.Reservation

	query, args, err := forUpdateQuery(r.columns, id, skipLocked)
	if err != nil {
		return reservation, fmt.Errorf("failed to build lock query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = tx.GetContext(ctx, &reservation, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return reservation, fmt.Errorf("failed to lock reservation: %w", err)
	}

	return reservation, nil
}

// SaveTx writes every mutable column of reservation.
func (r *repositoryImpl) SaveTx(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.SaveTx")
	defer scope.End()

	query := saveQuery(r.columns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := tx.NamedExecContext(ctx, query, reservation); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return gRepo.TranslateError(fmt.Errorf("failed to save reservation: %w", err), conflictMessage)
	}

	return nil
}

func (r *repositoryImpl) FindOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindOverlapping")
	defer scope.End()

	query, args, err := overlappingQuery(r.columns, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build overlap query: %w", err)
	}

	return r.selectReservations(ctx, scope, query, args)
}

func (r *repositoryImpl) ListForResources(ctx context.Context, resourceIDs []string, start, end time.Time) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListForResources")
	defer scope.End()

	if len(resourceIDs) == 0 {
		return []model.Reservation{}, nil
	}

	query, args, err := forResourcesQuery(r.columns, resourceIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build resources query: %w", err)
	}

	return r.selectReservations(ctx, scope, query, args)
}

func (r *repositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListBetween")
	defer scope.End()

	query, args, err := betweenQuery(r.columns, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build period query: %w", err)
	}

	return r.selectReservations(ctx, scope, query, args)
}

// ApprovedExtensionHours sums the extension hours approved for userID on the
// day [dayStart, dayEnd) across all of the user's reservations.
func (r *repositoryImpl) ApprovedExtensionHours(ctx context.Context, userID string, dayStart, dayEnd time.Time) (float64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ApprovedExtensionHours")
	defer scope.End()

	query, args, err := extensionHoursQuery(userID, dayStart, dayEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to build extension hours query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var hours float64
	if err = r.db.Read.GetContext(ctx, &hours, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum extension hours: %w", err)
	}

	return hours, nil
}

// ListSweepCandidates returns IDs with a time-driven transition due at now.
func (r *repositoryImpl) ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListSweepCandidates")
	defer scope.End()

	query, args, err := sweepCandidatesQuery(now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build sweep query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ids := []string{}
	if err = r.db.Read.SelectContext(ctx, &ids, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	return ids, nil
}

func (r *repositoryImpl) selectReservations(ctx context.Context, scope otel.Scope, query string, args []any) ([]model.Reservation, error) {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	reservations := []model.Reservation{}
	if err := r.db.Read.SelectContext(ctx, &reservations, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return reservations, nil
}

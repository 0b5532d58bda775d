package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"unires/infras/otel"
	"unires/infras/postgres"
	"unires/internal/domains/resource/model"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
	"unires/shared/logger"
	gRepo "unires/shared/repository"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Resource interface {
	Insert(ctx context.Context, model model.Resource) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Resource, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Resource, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ReserveUnitsTx(ctx context.Context, tx *sqlx.Tx, resourceID string, quantity int) error
	ReleaseUnitsTx(ctx context.Context, tx *sqlx.Tx, resourceID string, quantity int) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Resource]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Resource {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Resource](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ReserveUnitsTx takes quantity units out of the pool. It fails with a
// conflict when fewer units are left.
func (r *repositoryImpl) ReserveUnitsTx(ctx context.Context, tx *sqlx.Tx, resourceID string, quantity int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".resource.ReserveUnitsTx")
	defer scope.End()

	query, args, err := reserveUnitsQuery(resourceID, quantity)
	if err != nil {
		return fmt.Errorf("failed to build reserve units query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to reserve units (%s): %w", model.EntityName, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return failure.Conflict(fmt.Sprintf("not enough units of %s are available", resourceID), resourceID)
	}

	return nil
}

// ReleaseUnitsTx puts quantity units back, never above the pool size.
func (r *repositoryImpl) ReleaseUnitsTx(ctx context.Context, tx *sqlx.Tx, resourceID string, quantity int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".resource.ReleaseUnitsTx")
	defer scope.End()

	query, args, err := releaseUnitsQuery(resourceID, quantity)
	if err != nil {
		return fmt.Errorf("failed to build release units query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to release units (%s): %w", model.EntityName, err)
	}

	return nil
}

func reserveUnitsQuery(resourceID string, quantity int) (string, []any, error) {
	return qb.Update(model.TableName).
		Set(model.FieldAvailableQuantity, sq.Expr(model.FieldAvailableQuantity+" - ?", quantity)).
		Where(sq.Eq{model.FieldID: resourceID}).
		Where(sq.GtOrEq{model.FieldAvailableQuantity: quantity}).
		ToSql()
}

func releaseUnitsQuery(resourceID string, quantity int) (string, []any, error) {
	return qb.Update(model.TableName).
		Set(model.FieldAvailableQuantity, sq.Expr("LEAST("+model.FieldQuantity+", "+model.FieldAvailableQuantity+" + ?)", quantity)).
		Where(sq.Eq{model.FieldID: resourceID}).
		ToSql()
}

package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"unires/infras/otel"
	"unires/infras/postgres"
	"unires/internal/domains/notification/model"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/logger"
	gRepo "unires/shared/repository"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Notification interface {
	Insert(ctx context.Context, notification model.Notification) error
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ListForRecipients(ctx context.Context, recipients []string, params gDto.QueryParams) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, id string, recipients []string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db      *postgres.Connection
	otel    otel.Otel
	columns []string
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	repo := gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repositoryImpl{
		Repository: repo,
		db:         db,
		otel:       otel,
		columns:    repo.InsertColumns,
	}
}

// ListForRecipients pages through notifications addressed to any of
// recipients, newest first, and returns the total alongside.
func (r *repositoryImpl) ListForRecipients(ctx context.Context, recipients []string, params gDto.QueryParams) ([]model.Notification, int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.ListForRecipients")
	defer scope.End()

	query, args, err := listQuery(r.columns, recipients, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build notification query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	notifications := []model.Notification{}
	if err = r.db.Read.SelectContext(ctx, &notifications, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	query, args, err = countQuery(recipients)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build notification count query: %w", err)
	}

	var total int
	if err = r.db.Read.GetContext(ctx, &total, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead stamps read_at once. It reports false when no unread notification
// with id is addressed to recipients.
func (r *repositoryImpl) MarkRead(ctx context.Context, id string, recipients []string, at time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.MarkRead")
	defer scope.End()

	query, args, err := markReadQuery(id, recipients, at)
	if err != nil {
		return false, fmt.Errorf("failed to build mark read query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := r.db.Write.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func listQuery(columns, recipients []string, params gDto.QueryParams) (string, []any, error) {
	builder := qb.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldRecipient: recipients}).
		OrderBy(model.FieldCreatedAt+" DESC", model.FieldID)

	if params.Limit > 0 {
		builder = builder.Limit(uint64(params.Limit))

		if params.Page > 1 {
			builder = builder.Offset(uint64((params.Page - 1) * params.Limit))
		}
	}

	return builder.ToSql()
}

func countQuery(recipients []string) (string, []any, error) {
	return qb.Select("COUNT(*)").
		From(model.TableName).
		Where(sq.Eq{model.FieldRecipient: recipients}).
		ToSql()
}

func markReadQuery(id string, recipients []string, at time.Time) (string, []any, error) {
	return qb.Update(model.TableName).
		Set(model.FieldReadAt, at).
		Where(sq.Eq{model.FieldID: id}).
		Where(sq.Eq{model.FieldRecipient: recipients}).
		Where(sq.Eq{model.FieldReadAt: nil}).
		ToSql()
}

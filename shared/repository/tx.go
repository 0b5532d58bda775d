package repository

//go:generate go run go.uber.org/mock/mockgen -source=./tx.go -destination=./mocks/tx_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
	"unires/infras/postgres"
	"unires/shared/constant"
)

type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// Transactor runs fn inside a write transaction. The transaction commits when
// fn returns nil and rolls back otherwise, including on panic.
type Transactor interface {
	WithTx(ctx context.Context, fn TxFunc) error
}

type transactor struct {
	db   *postgres.Connection
	otel otel.Otel
}

func NewTransactor(db *postgres.Connection, otl otel.Otel) Transactor {
	return &transactor{
		db:   db,
		otel: otl,
	}
}

func (t *transactor) WithTx(ctx context.Context, fn TxFunc) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".WithTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tx, err := t.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")

			return errors.Join(err, rbErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

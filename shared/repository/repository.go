package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"unires/infras/otel"
	"unires/infras/postgres"
	"unires/shared/constant"
	"unires/shared/dto"
	"unires/shared/logger"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("nothing to update")
)

type column struct {
	name  string
	table string
	alias string
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Repository is a generic named-parameter CRUD layer over one table. Columns
// come from the db tags of T; a `table` tag marks joined, read-only columns.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	key           string
	columns       []column
	join          string
	InsertColumns []string
}

// joiner is implemented by models that read from more than one table.
type joiner interface {
	GetJoinQuery() string
}

func NewRepository[T any](entity, table, key string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(table, reflect.TypeOf(zero))

	join := ""
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	return Repository[T]{
		db:            db,
		otel:          otl,
		table:         table,
		entity:        entity,
		key:           key,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) newScope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model, "Insert")
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	return repo.insert(ctx, tx, model, "InsertTx")
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T, op string) error {
	ctx, scope := repo.newScope(ctx, op)
	defer scope.End()

	query := insertQuery(repo.table, repo.InsertColumns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, model); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert %s: %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.newScope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	if err := repo.read(ctx, scope, query, args, &exist, false); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", repo.entity, err)
	}

	return exist, nil
}

// Get returns the zero T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.newScope(ctx, "Get")
	defer scope.End()

	var model T

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", selectList(repo.columns, columns), repo.table, repo.join, where)

	err := repo.read(ctx, scope, query, args, &model, false)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T

		return zero, nil
	}

	if err != nil {
		return model, fmt.Errorf("failed to get %s: %w", repo.entity, err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.newScope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)
	query := strings.Join([]string{
		fmt.Sprintf("SELECT %s FROM %s %s %s", selectList(repo.columns, columns), repo.table, repo.join, where),
		orderClause(params),
		pageClause(params, args),
	}, " ")

	models := []T{}

	if err := repo.read(ctx, scope, query, args, &models, true); err != nil {
		return models, fmt.Errorf("failed to list %s: %w", repo.entity, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.newScope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.key, repo.table, repo.join, where)

	var count int

	if err := repo.read(ctx, scope, query, args, &count, false); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", repo.entity, err)
	}

	return count, nil
}

// Update sets the columns in mod on every row matching filter. An empty
// filter is refused so a missing id can never touch the whole table.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "Update")
	defer scope.End()

	if len(mod) == 0 {
		return errEmptyUpdate
	}

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	set := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		set = append(set, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, mod)

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(set, ", "), where)

	return repo.write(ctx, scope, query, args, "update")
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.write(ctx, scope, fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args, "delete")
}

func (repo *Repository[T]) write(ctx context.Context, scope otel.Scope, query string, args map[string]any, verb string) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s %s: %w", verb, repo.entity, err)
	}

	return nil
}

// read runs a named query against the read pool into dest. sql.ErrNoRows is
// returned as is so callers can treat it as a miss.
func (repo *Repository[T]) read(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any, many bool) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	if many {
		err = stmt.SelectContext(ctx, dest, args)
	} else {
		err = stmt.GetContext(ctx, dest, args)
	}

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)
		scope.TraceError(err)
	}

	return err
}

func insertQuery(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func orderClause(params dto.QueryParams) string {
	if params.SortBy == "" || params.SortDir == "" {
		return ""
	}

	return fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
}

func pageClause(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit

	if params.Page <= 0 {
		return "LIMIT :limit"
	}

	args["offset"] = (params.Page - 1) * params.Limit

	return "LIMIT :limit OFFSET :offset"
}

// selectList renders the projection, narrowed to only when it is non-empty.
func selectList(columns []column, only []string) string {
	out := make([]string, 0, len(columns))

	for _, col := range columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		switch {
		case col.table == "":
			out = append(out, col.name)
		case col.alias != "":
			out = append(out, fmt.Sprintf("%s.%s AS %s", col.table, col.name, col.alias))
		default:
			out = append(out, fmt.Sprintf("%s.%s", col.table, col.name))
		}
	}

	return strings.Join(out, ", ")
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := getColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if source := field.Tag.Get("column"); source != "" {
			columns = append(columns, column{name: source, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, insertColumns
}

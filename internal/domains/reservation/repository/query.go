package repository

import (
	"fmt"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"unires/internal/domains/reservation/model"
	"unires/shared/constant"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// immutableColumns are written once on insert.
var immutableColumns = []string{model.FieldID, constant.FieldCreatedAt, constant.FieldCreatedBy}

func statusValues(statuses []model.Status) []string {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}

	return values
}

func overlaps(start, end time.Time) sq.And {
	return sq.And{
		sq.Lt{model.FieldStartTime: end},
		sq.Gt{model.FieldEndTime: start},
	}
}

func forUpdateQuery(columns []string, id string, skipLocked bool) (string, []any, error) {
	suffix := "FOR UPDATE"
	if skipLocked {
		suffix += " SKIP LOCKED"
	}

	return qb.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldID: id}).
		Suffix(suffix).
		ToSql()
}

func saveQuery(columns []string) string {
	sets := make([]string, 0, len(columns))

	for _, col := range columns {
		if slices.Contains(immutableColumns, col) {
			continue
		}

		sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = :%s", model.TableName, strings.Join(sets, ", "), model.FieldID, model.FieldID)
}

func overlappingQuery(columns []string, resourceID string, start, end time.Time) (string, []any, error) {
	return qb.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldResourceID: resourceID}).
		Where(sq.Eq{model.FieldStatus: statusValues(model.OccupyingStatuses)}).
		Where(overlaps(start, end)).
		OrderBy(model.FieldStartTime, model.FieldID).
		ToSql()
}

func forResourcesQuery(columns []string, resourceIDs []string, start, end time.Time) (string, []any, error) {
	return qb.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldResourceID: resourceIDs}).
		Where(sq.Eq{model.FieldStatus: statusValues(model.UsedStatuses)}).
		Where(overlaps(start, end)).
		OrderBy(model.FieldStartTime, model.FieldID).
		ToSql()
}

func betweenQuery(columns []string, start, end time.Time) (string, []any, error) {
	return qb.Select(columns...).
		From(model.TableName).
		Where(overlaps(start, end)).
		OrderBy(model.FieldStartTime, model.FieldID).
		ToSql()
}

func extensionHoursQuery(userID string, dayStart, dayEnd time.Time) (string, []any, error) {
	return qb.Select("COALESCE(SUM(extension_hours_today), 0)").
		From(model.TableName).
		Where(sq.Eq{model.FieldUserID: userID}).
		Where(sq.GtOrEq{"extension_counter_day": dayStart}).
		Where(sq.Lt{"extension_counter_day": dayEnd}).
		ToSql()
}

func sweepCandidatesQuery(now time.Time, limit int) (string, []any, error) {
	due := sq.Or{
		sq.And{
			sq.Eq{model.FieldStatus: statusValues([]model.Status{model.StatusApproved, model.StatusHodApproved})},
			sq.LtOrEq{model.FieldStartTime: now},
		},
		sq.And{
			sq.Eq{model.FieldStatus: string(model.StatusInUse)},
			sq.Lt{model.FieldEndTime: now},
			sq.Eq{"is_overdue": false},
			sq.Eq{"returned_at": nil},
		},
		sq.Eq{model.FieldStatus: string(model.StatusReturned)},
	}

	return qb.Select(model.FieldID).
		From(model.TableName).
		Where(due).
		OrderBy(model.FieldStartTime, model.FieldID).
		Limit(uint64(max(limit, 1))).
		ToSql()
}

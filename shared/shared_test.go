package shared_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"unires/shared"
	cacheMocks "unires/shared/cache/mocks"
	"unires/shared/constant"
	"unires/shared/dto"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "zero", input: "0", expected: boolPtr(false)},
		{name: "garbage returns nil", input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(5, 0))
	assert.Equal(t, 3, shared.CalculateTotalPage(21, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(20, 10))
}

type patch struct {
	Name     string `db:"name"`
	Capacity *int   `db:"capacity"`
	Active   *bool  `db:"active"`
	Ignored  string
}

func TestTransformFields(t *testing.T) {
	capacity := 0
	active := false

	fields := shared.TransformFields(patch{Name: "Study Room", Capacity: &capacity, Active: &active, Ignored: "x"}, "admin-1")

	assert.Equal(t, "Study Room", fields["name"])
	assert.Equal(t, 0, fields["capacity"])
	assert.Equal(t, false, fields["active"])
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
	assert.NotContains(t, fields, "Ignored")
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("abc", "id", "resources")
	where, args := group.GetWhereClause()

	assert.Equal(t, "(resources.id = :id)", where)
	assert.Equal(t, "abc", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "availability:day", shared.BuildCacheKey("availability:day"))
	assert.Equal(t, "availability:day:r-1:2026-10-19", shared.BuildCacheKey("availability:day", "r-1", "2026-10-19"))
}

func TestBuildCacheKeyWithQuery_IsStable(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Value: "PENDING", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "kind", Value: "room_booking", Operator: dto.FilterOperatorEq},
		},
	}

	first := shared.BuildCacheKeyWithQuery("reservation:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("reservation:gets", params, filter)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "reservation:gets:1:10"))
	assert.Contains(t, first, "status=PENDING")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "resource:gets*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "resource:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "resource:count*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "resource:count")
}

package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"unires/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the HTTP request.
// With defaultRequest set, Page and Limit fall back to the package defaults when absent.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	queryParams := r.URL.Query()

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		if pageInt, err := strconv.Atoi(page); err == nil && pageInt > 0 {
			q.Page = pageInt
		}
	}

	if limit := queryParams.Get(constant.RequestParamLimit); limit != "" {
		if limitInt, err := strconv.Atoi(limit); err == nil && limitInt > 0 {
			q.Limit = limitInt
		}
	}

	if sortBy := queryParams.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if sortDir := queryParams.Get(constant.RequestParamSortDir); strings.ToUpper(sortDir) == SortDirAsc || strings.ToUpper(sortDir) == SortDirDesc {
		q.SortDir = strings.ToUpper(sortDir)
	}

	if defaultRequest {
		if q.Page == 0 {
			q.Page = constant.DefaultValuePage
		}

		if q.Limit == 0 {
			q.Limit = constant.DefaultValueLimit
		}
	}
}

// RestrictSort drops SortBy when it is not one of the allowed columns and
// falls back to the default ordering. SortBy is interpolated into SQL, so
// it must never reach a repository unchecked.
func (q *QueryParams) RestrictSort(allowed ...string) {
	if q.SortBy != "" && !slices.Contains(allowed, q.SortBy) {
		q.SortBy = ""
	}

	if q.SortBy == "" {
		q.SortBy = constant.DefaultValueSortBy
	}

	if q.SortDir == "" {
		q.SortDir = constant.DefaultValueSortDir
	}
}

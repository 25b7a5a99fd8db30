package handlers

import (
	"net/http"
	"strconv"
)

type listResponse struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

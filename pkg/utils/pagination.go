package utils

import (
	"net/http"
	"strconv"
	"strings"
)

const maxPageLimit = 500

// GetPaginationParams reads page and limit from the query string. Missing or
// invalid values fall back to page 1 and 10 rows; limit is capped.
func GetPaginationParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// GetSortParams reads sortBy and sortOrder. The order is "asc" or "desc";
// the column is returned as given and must be checked by the caller.
func GetSortParams(r *http.Request) (string, string) {
	sortBy := strings.TrimSpace(r.URL.Query().Get("sortBy"))
	order := "asc"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		order = "desc"
	}
	return sortBy, order
}

package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// siblings shown on each side of the current page in the pages range
	rangeSiblings = 1
)

// listParams holds common query parameters for list endpoints.
type listParams struct {
	page     int
	pageSize int
	sort     string
}

// parseListParams parses page, pageSize and sort from the request.
// Defaults: page=1, pageSize=10 (max 100). Out-of-range values are clamped,
// never rejected.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	page := 1
	if s := strings.TrimSpace(values.Get("page")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			page = v
		}
	}

	pageSize := defaultPageSize
	if s := strings.TrimSpace(values.Get("pageSize")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > maxPageSize {
				v = maxPageSize
			}
			pageSize = v
		}
	}

	return listParams{
		page:     page,
		pageSize: pageSize,
		sort:     strings.TrimSpace(values.Get("sort")),
	}
}

func (p listParams) limit() int  { return p.pageSize }
func (p listParams) offset() int { return (p.page - 1) * p.pageSize }

// buildOrderBy builds a safe ORDER BY clause using a whitelist of allowed
// keys. allowed maps incoming sort keys (e.g., "name") to actual column
// identifiers. Input sort is comma-separated; prefix with '-' for DESC.
// Returns a string starting with " ORDER BY ...". Defaults to " ORDER BY id ASC".
func buildOrderBy(sortParam string, allowed map[string]string) string {
	if sortParam == "" {
		if col, ok := allowed["id"]; ok {
			return " ORDER BY " + col + " ASC"
		}
		return " ORDER BY id ASC"
	}

	parts := strings.Split(sortParam, ",")
	clauses := make([]string, 0, len(parts))
	for _, raw := range parts {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		desc := false
		if strings.HasPrefix(s, "-") {
			desc = true
			s = strings.TrimPrefix(s, "-")
		}
		col, ok := allowed[s]
		if !ok {
			continue
		}
		if desc {
			clauses = append(clauses, col+" DESC")
		} else {
			clauses = append(clauses, col+" ASC")
		}
	}
	if len(clauses) == 0 {
		if col, ok := allowed["id"]; ok {
			return " ORDER BY " + col + " ASC"
		}
		return " ORDER BY id ASC"
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// listResponse is the envelope every list endpoint returns. total_count is
// always the size of the full filtered set, so clients can render the
// pages control without a second request.
type listResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	Pages      []PageEntry `json:"pages"`
}

// sendListResponse writes the list envelope with pagination metadata.
func sendListResponse(w http.ResponseWriter, items interface{}, totalCount int, params listParams) {
	totalPages := PageCount(totalCount, params.pageSize)
	resp := listResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       params.page,
		PageSize:   params.pageSize,
		TotalPages: totalPages,
		Pages:      PageRange(params.page, totalPages, rangeSiblings),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// countFiltered re-runs the filter as a bare COUNT. COUNT(*) OVER() rides
// on the returned rows, so a page past the end of the result set would
// otherwise report a zero total and clients would drop their pages control.
func (s *Server) countFiltered(ctx context.Context, from, whereClause string, args ...interface{}) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from+whereClause, args...).Scan(&n)
	return n, err
}

// nullIfEmpty converts empty string pointer to nil for nullable columns.
func nullIfEmpty(s *string) interface{} {
	if s == nil {
		return nil
	}
	if strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}

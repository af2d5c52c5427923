package internal

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want listParams
	}{
		{
			name: "defaults",
			url:  "/assets",
			want: listParams{page: 1, pageSize: 10},
		},
		{
			name: "explicit values",
			url:  "/assets?page=3&pageSize=25&sort=-created_at",
			want: listParams{page: 3, pageSize: 25, sort: "-created_at"},
		},
		{
			name: "pageSize capped at max",
			url:  "/assets?pageSize=5000",
			want: listParams{page: 1, pageSize: 100},
		},
		{
			name: "invalid values fall back to defaults",
			url:  "/assets?page=abc&pageSize=-4",
			want: listParams{page: 1, pageSize: 10},
		},
		{
			name: "zero page falls back",
			url:  "/assets?page=0",
			want: listParams{page: 1, pageSize: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.want, parseListParams(r))
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	p := listParams{page: 3, pageSize: 25}
	assert.Equal(t, 25, p.limit())
	assert.Equal(t, 50, p.offset())

	p = listParams{page: 1, pageSize: 10}
	assert.Equal(t, 0, p.offset())
}

func TestBuildOrderBy(t *testing.T) {
	allowed := map[string]string{
		"id":         "a.id",
		"name":       "a.name",
		"created_at": "a.created_at",
	}

	tests := []struct {
		name string
		sort string
		want string
	}{
		{"empty defaults to id", "", " ORDER BY a.id ASC"},
		{"single ascending", "name", " ORDER BY a.name ASC"},
		{"single descending", "-created_at", " ORDER BY a.created_at DESC"},
		{"multiple keys", "name,-created_at", " ORDER BY a.name ASC, a.created_at DESC"},
		{"unknown keys are dropped", "name,drop_table", " ORDER BY a.name ASC"},
		{"all unknown defaults to id", "evil;--", " ORDER BY a.id ASC"},
		{"whitespace tolerated", " name , -id ", " ORDER BY a.name ASC, a.id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildOrderBy(tt.sort, allowed))
		})
	}
}

func TestSendListResponse(t *testing.T) {
	w := httptest.NewRecorder()
	items := []string{"a", "b", "c"}
	sendListResponse(w, items, 25, listParams{page: 2, pageSize: 10})

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 25, resp.TotalCount)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.PageSize)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, pages(1, 2, 3), resp.Pages)
}

func TestSendListResponseEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	sendListResponse(w, []string{}, 0, listParams{page: 1, pageSize: 10})

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalCount)
	assert.Equal(t, 0, resp.TotalPages)
	assert.Empty(t, resp.Pages)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(nil))

	empty := "   "
	assert.Nil(t, nullIfEmpty(&empty))

	val := "hello"
	assert.Equal(t, "hello", nullIfEmpty(&val))
}

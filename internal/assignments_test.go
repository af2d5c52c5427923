package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAssetTag(t *testing.T) {
	a := newAssetTag()
	b := newAssetTag()

	assert.True(t, strings.HasPrefix(a, "AST-"))
	assert.Len(t, a, 4+26) // prefix + ULID
	assert.NotEqual(t, a, b)
}

func TestCreateAssignmentValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `[`},
		{"missing asset_id", `{"user_id": 7}`},
		{"missing user_id", `{"asset_id": 3}`},
		{"bad loan date", `{"asset_id": 3, "user_id": 7, "loan_date": "yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := postJSON("/assignments", tt.body)
			s.createAssignment(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, CodeValidation, decodeErrorBody(t, w)["code"])
		})
	}
}

func TestUpdateAssignmentValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{{`},
		{"empty asset_tag", `{"asset_tag": "   "}`},
		{"bad loan date", `{"loan_date": "2024/01/01"}`},
		{"no fields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := putJSON("/assignments/1", tt.body)
			s.updateAssignment(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestReturnAssignmentValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `"`},
		{"bad return date", `{"return_date": "tomorrow"}`},
		{"sold not allowed", `{"asset_status": "SOLD"}`},
		{"missing not allowed", `{"asset_status": "MISSING"}`},
		{"assigned not allowed", `{"asset_status": "ASSIGNED"}`},
		{"unknown status", `{"asset_status": "FINE"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := postJSON("/assignments/1/return", tt.body)
			s.returnAssignment(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListAssignmentsValidation(t *testing.T) {
	s := &Server{}

	for _, url := range []string{
		"/assignments?assetId=abc",
		"/assignments?userId=xyz",
		"/assignments?open=maybe",
	} {
		t.Run(url, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", url, nil)
			s.listAssignments(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

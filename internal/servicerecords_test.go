package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateServiceRecordValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{]`},
		{"missing assignment_id", `{"ticket_id": "INC-1001", "repair_type": "INTERNAL"}`},
		{"empty ticket_id", `{"assignment_id": 1, "ticket_id": "  ", "repair_type": "INTERNAL"}`},
		{"unknown repair type", `{"assignment_id": 1, "ticket_id": "INC-1001", "repair_type": "OUTSOURCED"}`},
		{"negative cost", `{"assignment_id": 1, "ticket_id": "INC-1001", "repair_type": "EXTERNAL", "cost": -50}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := postJSON("/service-records", tt.body)
			s.createServiceRecord(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, CodeValidation, decodeErrorBody(t, w)["code"])
		})
	}
}

func TestUpdateServiceRecordValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `nope`},
		{"empty ticket_id", `{"ticket_id": ""}`},
		{"unknown repair type", `{"repair_type": "internal"}`},
		{"negative cost", `{"cost": -1}`},
		{"no fields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("PATCH", "/service-records/1", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			s.updateServiceRecord(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListServiceRecordsValidation(t *testing.T) {
	s := &Server{}

	for _, url := range []string{
		"/service-records?assignmentId=first",
		"/service-records?repairType=CHEAP",
	} {
		t.Run(url, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", url, nil)
			s.listServiceRecords(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

package internal

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Laptop", "laptop"},
		{"Intel NUC", "intel-nuc"},
		{"  Network   Equipment  ", "network-equipment"},
		{"cctv", "cctv"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"name":`},
		{"missing name", `{"slug": "laptop"}`},
		{"blank name", `{"name": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := postJSON("/categories", tt.body)
			s.createCategory(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateCategoryValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `,`},
		{"blank name", `{"name": ""}`},
		{"blank slug", `{"slug": "   "}`},
		{"no fields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := putJSON("/categories/1", tt.body)
			s.updateCategory(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

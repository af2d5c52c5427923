package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itam-inventory-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func postJSON(path, body string) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest("POST", path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), r
}

func putJSON(path, body string) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest("PUT", path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), r
}

// Validation paths below reject the request before any query runs, so a
// zero-value Server is enough.

func TestCreateAssetValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{`, CodeValidation},
		{"missing name", `{"category_id": 1}`, CodeValidation},
		{"missing category", `{"name": "ThinkPad T14"}`, CodeValidation},
		{"unknown status", `{"name": "ThinkPad T14", "category_id": 1, "status": "LOST"}`, CodeValidation},
		{"assigned not settable", `{"name": "ThinkPad T14", "category_id": 1, "status": "ASSIGNED"}`, CodeValidation},
		{"bad purchase date", `{"name": "ThinkPad T14", "category_id": 1, "purchase_date": "01/02/2024"}`, CodeValidation},
		{"bad warranty date", `{"name": "ThinkPad T14", "category_id": 1, "warranty_end": "soon"}`, CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := postJSON("/assets", tt.body)
			s.createAsset(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeErrorBody(t, w)["code"])
		})
	}
}

func TestUpdateAssetValidation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `not json`},
		{"unknown status", `{"status": "GONE"}`},
		{"assigned not settable", `{"status": "ASSIGNED"}`},
		{"empty name", `{"name": "  "}`},
		{"bad date", `{"purchase_date": "2024-13-40"}`},
		{"no fields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := putJSON("/assets/1", tt.body)
			s.updateAsset(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListAssetsValidation(t *testing.T) {
	s := &Server{}

	t.Run("unknown status filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/assets?statusAsset=LOST", nil)
		s.listAssets(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-integer category filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/assets?categoryId=laptop", nil)
		s.listAssets(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSpecForSlug(t *testing.T) {
	laptop := &models.LaptopSpecInput{}
	printer := &models.PrinterSpecInput{}
	cctv := &models.CCTVSpecInput{}
	nuc := &models.NUCSpecInput{}

	assert.NoError(t, specForSlug(models.CategoryLaptop, laptop, nil, nil, nil))
	assert.NoError(t, specForSlug(models.CategoryPrinter, nil, printer, nil, nil))
	assert.NoError(t, specForSlug(models.CategoryCCTV, nil, nil, cctv, nil))
	assert.NoError(t, specForSlug(models.CategoryNUC, nil, nil, nil, nuc))

	// no spec at all is always fine
	assert.NoError(t, specForSlug(models.CategoryLaptop, nil, nil, nil, nil))
	assert.NoError(t, specForSlug("monitor", nil, nil, nil, nil))

	// mismatched spec is rejected
	assert.Error(t, specForSlug(models.CategoryPrinter, laptop, nil, nil, nil))
	assert.Error(t, specForSlug(models.CategoryLaptop, nil, printer, nil, nil))
	assert.Error(t, specForSlug("monitor", nil, nil, cctv, nil))

	// two specs cannot both match one slug
	assert.Error(t, specForSlug(models.CategoryLaptop, laptop, nil, nil, nuc))
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("purchase_date", nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	empty := "  "
	got, err = parseDate("purchase_date", &empty)
	assert.NoError(t, err)
	assert.Nil(t, got)

	valid := "2024-03-15"
	got, err = parseDate("purchase_date", &valid)
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, 15, got.Day())
	}

	bad := "15/03/2024"
	_, err = parseDate("purchase_date", &bad)
	assert.Error(t, err)
}

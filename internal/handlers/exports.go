package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"itam-inventory-api/pkg/exporter"
)

// ExportsHandler handles asset register downloads
type ExportsHandler struct {
	DB         *pgxpool.Pool
	DefaultMap string
}

// NewExportsHandler creates a new exports handler
func NewExportsHandler(db *pgxpool.Pool) *ExportsHandler {
	return &ExportsHandler{
		DB:         db,
		DefaultMap: "configs/mapping/asset_register.yaml",
	}
}

// DownloadAssets streams the asset register as an xlsx attachment.
// Optional filters: status, category_id.
func (h *ExportsHandler) DownloadAssets(w http.ResponseWriter, r *http.Request) {
	opts := exporter.ExportOptions{
		MappingPath: h.DefaultMap,
		Status:      r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "category_id must be a positive integer", http.StatusBadRequest)
			return
		}
		opts.CategoryID = id
	}

	// Build the workbook in memory first so an export failure can still
	// return a clean error status instead of a truncated download.
	var buf bytes.Buffer
	if _, err := exporter.ExportAssets(r.Context(), h.DB, &buf, opts); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("asset-register-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		// client went away mid-download, nothing to do
		return
	}
}

package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itam-inventory-api/internal/models"

	"github.com/go-chi/chi/v5"
)

const assetColumns = `a.id, a.name, a.serial_number, a.brand, a.model, a.category_id, c.slug,
	       a.status, a.physical_location, a.purchase_date, a.warranty_end,
	       a.acquisition_value, a.created_at, a.updated_at`

func scanAsset(row interface{ Scan(...any) error }, a *models.Asset, extra ...any) error {
	dest := []any{
		&a.ID, &a.Name, &a.SerialNumber, &a.Brand, &a.Model, &a.CategoryID, &a.CategorySlug,
		&a.Status, &a.PhysicalLocation, &a.PurchaseDate, &a.WarrantyEnd,
		&a.AcquisitionValue, &a.CreatedAt, &a.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// LIST with filters & pagination. Filters combine with AND; an unknown
// category filter yields an empty page, not an error.
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	values := r.URL.Query()

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if v := strings.TrimSpace(values.Get("namaAsset")); v != "" {
		clauses = append(clauses, fmt.Sprintf("a.name ILIKE $%d", arg))
		args = append(args, "%"+v+"%")
		arg++
	}
	if v := strings.TrimSpace(values.Get("statusAsset")); v != "" {
		if !models.ValidStatus(v) {
			writeError(w, errValidation("unknown status: "+v))
			return
		}
		clauses = append(clauses, fmt.Sprintf("a.status = $%d", arg))
		args = append(args, v)
		arg++
	}
	if v := strings.TrimSpace(values.Get("lokasiFisik")); v != "" {
		clauses = append(clauses, fmt.Sprintf("a.physical_location ILIKE $%d", arg))
		args = append(args, "%"+v+"%")
		arg++
	}
	// categoryId wins over categorySlug when both are present
	if v := strings.TrimSpace(values.Get("categoryId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, errValidation("categoryId must be an integer"))
			return
		}
		clauses = append(clauses, fmt.Sprintf("a.category_id = $%d", arg))
		args = append(args, id)
		arg++
	} else if v := strings.TrimSpace(values.Get("categorySlug")); v != "" {
		clauses = append(clauses, fmt.Sprintf("c.slug = $%d", arg))
		args = append(args, v)
		arg++
	}

	whereClause := ""
	if len(clauses) > 0 {
		whereClause = " WHERE " + strings.Join(clauses, " AND ")
	}

	sqlStr := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() as total_count
		FROM assets a
		JOIN categories c ON c.id = a.category_id%s`, assetColumns, whereClause)

	allowedSort := map[string]string{
		"id":         "a.id",
		"name":       "a.name",
		"status":     "a.status",
		"created_at": "a.created_at",
		"updated_at": "a.updated_at",
	}
	sqlStr += buildOrderBy(params.sort, allowedSort)
	sqlStr += fmt.Sprintf(" LIMIT %d OFFSET %d", params.limit(), params.offset())

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	items := []models.Asset{}
	var totalCount int
	for rows.Next() {
		var a models.Asset
		if err := scanAsset(rows, &a, &totalCount); err != nil {
			writeError(w, err)
			return
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}
	if len(items) == 0 && params.page > 1 {
		totalCount, err = s.countFiltered(r.Context(),
			"assets a JOIN categories c ON c.id = a.category_id", whereClause, args...)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	sendListResponse(w, items, totalCount, params)
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var out models.AssetWithSpec
	err := scanAsset(s.DB.QueryRowContext(r.Context(), `
		SELECT `+assetColumns+`
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		WHERE a.id = $1`, id), &out.Asset)
	if err == sql.ErrNoRows {
		writeError(w, errNotFound("asset not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.loadSpec(r.Context(), s.DB, &out); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// loadSpec attaches the category spec record, if the category has one.
func (s *Server) loadSpec(ctx context.Context, q querier, a *models.AssetWithSpec) error {
	var err error
	switch a.CategorySlug {
	case models.CategoryLaptop:
		sp := &models.LaptopSpec{}
		err = q.QueryRowContext(ctx, `
			SELECT asset_id, cpu, ram, storage, os FROM asset_laptops WHERE asset_id = $1`, a.ID).
			Scan(&sp.AssetID, &sp.CPU, &sp.RAM, &sp.Storage, &sp.OS)
		if err == nil {
			a.Laptop = sp
		}
	case models.CategoryPrinter:
		sp := &models.PrinterSpec{}
		err = q.QueryRowContext(ctx, `
			SELECT asset_id, print_type, color_support FROM asset_printers WHERE asset_id = $1`, a.ID).
			Scan(&sp.AssetID, &sp.PrintType, &sp.ColorSupport)
		if err == nil {
			a.Printer = sp
		}
	case models.CategoryCCTV:
		sp := &models.CCTVSpec{}
		err = q.QueryRowContext(ctx, `
			SELECT asset_id, resolution, camera_count FROM asset_cctvs WHERE asset_id = $1`, a.ID).
			Scan(&sp.AssetID, &sp.Resolution, &sp.CameraCount)
		if err == nil {
			a.CCTV = sp
		}
	case models.CategoryNUC:
		sp := &models.NUCSpec{}
		err = q.QueryRowContext(ctx, `
			SELECT asset_id, cpu, ram, storage FROM asset_nucs WHERE asset_id = $1`, a.ID).
			Scan(&sp.AssetID, &sp.CPU, &sp.RAM, &sp.Storage)
		if err == nil {
			a.NUC = sp
		}
	}
	if err == sql.ErrNoRows {
		// asset predates its spec record, return it bare
		return nil
	}
	return err
}

// parseDate parses an optional YYYY-MM-DD body field.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*s))
	if err != nil {
		return nil, errValidation(field + " must be YYYY-MM-DD")
	}
	return &t, nil
}

// specForSlug validates that the request carries exactly the spec sub-object
// matching the category slug (or none at all).
func specForSlug(slug string, laptop *models.LaptopSpecInput, printer *models.PrinterSpecInput, cctv *models.CCTVSpecInput, nuc *models.NUCSpecInput) error {
	if laptop != nil && slug != models.CategoryLaptop {
		return errValidation("laptop spec not allowed for category " + slug)
	}
	if printer != nil && slug != models.CategoryPrinter {
		return errValidation("printer spec not allowed for category " + slug)
	}
	if cctv != nil && slug != models.CategoryCCTV {
		return errValidation("cctv spec not allowed for category " + slug)
	}
	if nuc != nil && slug != models.CategoryNUC {
		return errValidation("nuc spec not allowed for category " + slug)
	}
	return nil
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var in models.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, errValidation("name is required"))
		return
	}
	if in.CategoryID <= 0 {
		writeError(w, errValidation("category_id is required"))
		return
	}

	status := models.StatusAvailable
	if in.Status != nil {
		status = *in.Status
		if !models.ValidStatus(status) {
			writeError(w, errValidation("unknown status: "+status))
			return
		}
		if status == models.StatusAssigned {
			writeError(w, errValidation("status ASSIGNED is set by the assignment endpoints"))
			return
		}
	}

	purchaseDate, err := parseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		writeError(w, err)
		return
	}
	warrantyEnd, err := parseDate("warranty_end", in.WarrantyEnd)
	if err != nil {
		writeError(w, err)
		return
	}

	var out models.AssetWithSpec
	err = runInTx(r.Context(), s.DB, func(q querier) error {
		var slug string
		var deletedAt *time.Time
		err := q.QueryRowContext(r.Context(), `
			SELECT slug, deleted_at FROM categories WHERE id = $1`, in.CategoryID).
			Scan(&slug, &deletedAt)
		if err == sql.ErrNoRows {
			return errValidation("category does not exist")
		}
		if err != nil {
			return err
		}
		if deletedAt != nil {
			return errValidation("category is deleted")
		}
		if err := specForSlug(slug, in.Laptop, in.Printer, in.CCTV, in.NUC); err != nil {
			return err
		}

		var newID int64
		if err := q.QueryRowContext(r.Context(), `
			INSERT INTO assets (name, serial_number, brand, model, category_id, status,
			                    physical_location, purchase_date, warranty_end, acquisition_value)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id`,
			in.Name, nullIfEmpty(in.SerialNumber), nullIfEmpty(in.Brand), nullIfEmpty(in.Model),
			in.CategoryID, status, nullIfEmpty(in.PhysicalLocation), purchaseDate, warrantyEnd,
			in.AcquisitionValue).Scan(&newID); err != nil {
			return err
		}

		if err := scanAsset(q.QueryRowContext(r.Context(), `
			SELECT `+assetColumns+`
			FROM assets a JOIN categories c ON c.id = a.category_id
			WHERE a.id = $1`, newID), &out.Asset); err != nil {
			return err
		}

		return s.writeSpec(r.Context(), q, &out, in.Laptop, in.Printer, in.CCTV, in.NUC)
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, errConflict(CodeConflict, "serial_number already exists"))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out)
}

// writeSpec upserts the spec row for the asset's category and reloads it
// onto out. Runs inside the same transaction as the asset write.
func (s *Server) writeSpec(ctx context.Context, q querier, out *models.AssetWithSpec, laptop *models.LaptopSpecInput, printer *models.PrinterSpecInput, cctv *models.CCTVSpecInput, nuc *models.NUCSpecInput) error {
	var err error
	switch {
	case laptop != nil:
		_, err = q.ExecContext(ctx, `
			INSERT INTO asset_laptops (asset_id, cpu, ram, storage, os)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (asset_id) DO UPDATE SET
				cpu = EXCLUDED.cpu, ram = EXCLUDED.ram,
				storage = EXCLUDED.storage, os = EXCLUDED.os`,
			out.ID, nullIfEmpty(laptop.CPU), nullIfEmpty(laptop.RAM),
			nullIfEmpty(laptop.Storage), nullIfEmpty(laptop.OS))
	case printer != nil:
		_, err = q.ExecContext(ctx, `
			INSERT INTO asset_printers (asset_id, print_type, color_support)
			VALUES ($1,$2,$3)
			ON CONFLICT (asset_id) DO UPDATE SET
				print_type = EXCLUDED.print_type, color_support = EXCLUDED.color_support`,
			out.ID, nullIfEmpty(printer.PrintType), printer.ColorSupport)
	case cctv != nil:
		_, err = q.ExecContext(ctx, `
			INSERT INTO asset_cctvs (asset_id, resolution, camera_count)
			VALUES ($1,$2,$3)
			ON CONFLICT (asset_id) DO UPDATE SET
				resolution = EXCLUDED.resolution, camera_count = EXCLUDED.camera_count`,
			out.ID, nullIfEmpty(cctv.Resolution), cctv.CameraCount)
	case nuc != nil:
		_, err = q.ExecContext(ctx, `
			INSERT INTO asset_nucs (asset_id, cpu, ram, storage)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (asset_id) DO UPDATE SET
				cpu = EXCLUDED.cpu, ram = EXCLUDED.ram, storage = EXCLUDED.storage`,
			out.ID, nullIfEmpty(nuc.CPU), nullIfEmpty(nuc.RAM), nullIfEmpty(nuc.Storage))
	default:
		return nil
	}
	if err != nil {
		return err
	}
	return s.loadSpec(ctx, q, out)
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}

	if in.Status != nil {
		if !models.ValidStatus(*in.Status) {
			writeError(w, errValidation("unknown status: "+*in.Status))
			return
		}
		if *in.Status == models.StatusAssigned {
			writeError(w, errValidation("status ASSIGNED is set by the assignment endpoints"))
			return
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		writeError(w, errValidation("name must not be empty"))
		return
	}

	purchaseDate, err := parseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		writeError(w, err)
		return
	}
	warrantyEnd, err := parseDate("warranty_end", in.WarrantyEnd)
	if err != nil {
		writeError(w, err)
		return
	}

	type set struct {
		sql string
		val interface{}
	}
	sets := make([]set, 0, 9)
	if in.Name != nil {
		sets = append(sets, set{"name = $%d", *in.Name})
	}
	if in.SerialNumber != nil {
		sets = append(sets, set{"serial_number = $%d", nullIfEmpty(in.SerialNumber)})
	}
	if in.Brand != nil {
		sets = append(sets, set{"brand = $%d", nullIfEmpty(in.Brand)})
	}
	if in.Model != nil {
		sets = append(sets, set{"model = $%d", nullIfEmpty(in.Model)})
	}
	if in.Status != nil {
		sets = append(sets, set{"status = $%d", *in.Status})
	}
	if in.PhysicalLocation != nil {
		sets = append(sets, set{"physical_location = $%d", nullIfEmpty(in.PhysicalLocation)})
	}
	if purchaseDate != nil {
		sets = append(sets, set{"purchase_date = $%d", purchaseDate})
	}
	if warrantyEnd != nil {
		sets = append(sets, set{"warranty_end = $%d", warrantyEnd})
	}
	if in.AcquisitionValue != nil {
		sets = append(sets, set{"acquisition_value = $%d", *in.AcquisitionValue})
	}

	hasSpec := in.Laptop != nil || in.Printer != nil || in.CCTV != nil || in.NUC != nil
	if len(sets) == 0 && !hasSpec {
		writeError(w, errValidation("no fields to update"))
		return
	}

	var out models.AssetWithSpec
	err = runInTx(r.Context(), s.DB, func(q querier) error {
		var slug string
		err := q.QueryRowContext(r.Context(), `
			SELECT c.slug FROM assets a JOIN categories c ON c.id = a.category_id
			WHERE a.id = $1 FOR UPDATE OF a`, id).Scan(&slug)
		if err == sql.ErrNoRows {
			return errNotFound("asset not found")
		}
		if err != nil {
			return err
		}
		if err := specForSlug(slug, in.Laptop, in.Printer, in.CCTV, in.NUC); err != nil {
			return err
		}

		if len(sets) > 0 {
			args := make([]interface{}, 0, len(sets)+1)
			sqlStr := "UPDATE assets SET "
			for i, sset := range sets {
				if i > 0 {
					sqlStr += ", "
				}
				sqlStr += fmt.Sprintf(sset.sql, i+1)
				args = append(args, sset.val)
			}
			sqlStr += fmt.Sprintf(", updated_at = now() WHERE id = $%d", len(args)+1)
			args = append(args, id)
			if _, err := q.ExecContext(r.Context(), sqlStr, args...); err != nil {
				return err
			}
		}

		if err := scanAsset(q.QueryRowContext(r.Context(), `
			SELECT `+assetColumns+`
			FROM assets a JOIN categories c ON c.id = a.category_id
			WHERE a.id = $1`, id), &out.Asset); err != nil {
			return err
		}

		if hasSpec {
			return s.writeSpec(r.Context(), q, &out, in.Laptop, in.Printer, in.CCTV, in.NUC)
		}
		return s.loadSpec(r.Context(), q, &out)
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, errConflict(CodeConflict, "serial_number already exists"))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := runInTx(r.Context(), s.DB, func(q querier) error {
		// createAssignment locks the same row, so the open-loan count below
		// cannot go stale before the delete commits.
		var one int
		err := q.QueryRowContext(r.Context(), `
			SELECT 1 FROM assets WHERE id = $1 FOR UPDATE`, id).Scan(&one)
		if err == sql.ErrNoRows {
			return errNotFound("asset not found")
		}
		if err != nil {
			return err
		}

		var openLoans int
		if err := q.QueryRowContext(r.Context(), `
			SELECT COUNT(*) FROM asset_assignments
			WHERE asset_id = $1 AND return_date IS NULL`, id).Scan(&openLoans); err != nil {
			return err
		}
		if openLoans > 0 {
			return errConflict(CodeAssetOnLoan, "asset has an open assignment")
		}

		_, err = q.ExecContext(r.Context(), `DELETE FROM assets WHERE id = $1`, id)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itam-inventory-api/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
)

const assignmentColumns = `id, asset_id, user_id, asset_tag, loan_date, loan_condition,
	       return_date, return_condition, notes, created_at, updated_at`

func scanAssignment(row interface{ Scan(...any) error }, a *models.AssetAssignment, extra ...any) error {
	dest := []any{
		&a.ID, &a.AssetID, &a.UserID, &a.AssetTag, &a.LoanDate, &a.LoanCondition,
		&a.ReturnDate, &a.ReturnCondition, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// newAssetTag mints a reference tag for assignments created without one.
func newAssetTag() string {
	return "AST-" + ulid.Make().String()
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var in models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}
	if in.AssetID <= 0 {
		writeError(w, errValidation("asset_id is required"))
		return
	}
	if in.UserID <= 0 {
		writeError(w, errValidation("user_id is required"))
		return
	}

	loanDate := time.Now()
	if d, err := parseDate("loan_date", in.LoanDate); err != nil {
		writeError(w, err)
		return
	} else if d != nil {
		loanDate = *d
	}

	tag := newAssetTag()
	if in.AssetTag != nil && strings.TrimSpace(*in.AssetTag) != "" {
		tag = strings.TrimSpace(*in.AssetTag)
	}

	var out models.AssetAssignment
	err := runInTx(r.Context(), s.DB, func(q querier) error {
		// Lock the asset row so concurrent creates serialize on it. The
		// open-loan check below then sees any assignment a racing request
		// already committed.
		var status string
		err := q.QueryRowContext(r.Context(), `
			SELECT status FROM assets WHERE id = $1 FOR UPDATE`, in.AssetID).Scan(&status)
		if err == sql.ErrNoRows {
			return errNotFound("asset not found")
		}
		if err != nil {
			return err
		}
		if models.RetiredStatus(status) {
			return errConflict(CodeAssetRetired, "asset status "+status+" does not allow assignment")
		}

		var openLoans int
		if err := q.QueryRowContext(r.Context(), `
			SELECT COUNT(*) FROM asset_assignments
			WHERE asset_id = $1 AND return_date IS NULL`, in.AssetID).Scan(&openLoans); err != nil {
			return err
		}
		if openLoans > 0 {
			return errConflict(CodeAssetOnLoan, "asset already has an open assignment")
		}

		if err := scanAssignment(q.QueryRowContext(r.Context(), `
			INSERT INTO asset_assignments (asset_id, user_id, asset_tag, loan_date, loan_condition, notes)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING `+assignmentColumns,
			in.AssetID, in.UserID, tag, loanDate, nullIfEmpty(in.LoanCondition),
			nullIfEmpty(in.Notes)), &out); err != nil {
			return err
		}

		_, err = q.ExecContext(r.Context(), `
			UPDATE assets SET status = $1, updated_at = now() WHERE id = $2`,
			models.StatusAssigned, in.AssetID)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			// partial unique index backstop on (asset_id) WHERE return_date IS NULL
			writeError(w, errConflict(CodeAssetOnLoan, "asset already has an open assignment"))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out)
}

// LIST with filters & pagination. open=true keeps only loans without a
// return date, open=false only closed ones.
func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	values := r.URL.Query()

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if v := strings.TrimSpace(values.Get("assetId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, errValidation("assetId must be an integer"))
			return
		}
		clauses = append(clauses, fmt.Sprintf("asset_id = $%d", arg))
		args = append(args, id)
		arg++
	}
	if v := strings.TrimSpace(values.Get("userId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, errValidation("userId must be an integer"))
			return
		}
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", arg))
		args = append(args, id)
		arg++
	}
	if v := strings.TrimSpace(values.Get("open")); v != "" {
		switch v {
		case "true":
			clauses = append(clauses, "return_date IS NULL")
		case "false":
			clauses = append(clauses, "return_date IS NOT NULL")
		default:
			writeError(w, errValidation("open must be true or false"))
			return
		}
	}

	whereClause := ""
	if len(clauses) > 0 {
		whereClause = " WHERE " + strings.Join(clauses, " AND ")
	}

	sqlStr := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() as total_count
		FROM asset_assignments%s`, assignmentColumns, whereClause)

	allowedSort := map[string]string{
		"id":         "id",
		"loan_date":  "loan_date",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sqlStr += buildOrderBy(params.sort, allowedSort)
	sqlStr += fmt.Sprintf(" LIMIT %d OFFSET %d", params.limit(), params.offset())

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	items := []models.AssetAssignment{}
	var totalCount int
	for rows.Next() {
		var a models.AssetAssignment
		if err := scanAssignment(rows, &a, &totalCount); err != nil {
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
		totalCount, err = s.countFiltered(r.Context(), "asset_assignments", whereClause, args...)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	sendListResponse(w, items, totalCount, params)
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var out models.AssetAssignment
	err := scanAssignment(s.DB.QueryRowContext(r.Context(), `
		SELECT `+assignmentColumns+` FROM asset_assignments WHERE id = $1`, id), &out)
	if err == sql.ErrNoRows {
		writeError(w, errNotFound("assignment not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// updateAssignment corrects bookkeeping fields. It never touches the
// open/closed state or the asset status; that is the return endpoint's job.
func (s *Server) updateAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}

	loanDate, err := parseDate("loan_date", in.LoanDate)
	if err != nil {
		writeError(w, err)
		return
	}
	if in.AssetTag != nil && strings.TrimSpace(*in.AssetTag) == "" {
		writeError(w, errValidation("asset_tag must not be empty"))
		return
	}

	type set struct {
		sql string
		val interface{}
	}
	sets := make([]set, 0, 4)
	if in.AssetTag != nil {
		sets = append(sets, set{"asset_tag = $%d", strings.TrimSpace(*in.AssetTag)})
	}
	if loanDate != nil {
		sets = append(sets, set{"loan_date = $%d", loanDate})
	}
	if in.LoanCondition != nil {
		sets = append(sets, set{"loan_condition = $%d", nullIfEmpty(in.LoanCondition)})
	}
	if in.Notes != nil {
		sets = append(sets, set{"notes = $%d", nullIfEmpty(in.Notes)})
	}
	if len(sets) == 0 {
		writeError(w, errValidation("no fields to update"))
		return
	}

	args := make([]interface{}, 0, len(sets)+1)
	sqlStr := "UPDATE asset_assignments SET "
	for i, sset := range sets {
		if i > 0 {
			sqlStr += ", "
		}
		sqlStr += fmt.Sprintf(sset.sql, i+1)
		args = append(args, sset.val)
	}
	sqlStr += fmt.Sprintf(", updated_at = now() WHERE id = $%d RETURNING %s", len(args)+1, assignmentColumns)
	args = append(args, id)

	var out models.AssetAssignment
	if err := scanAssignment(s.DB.QueryRowContext(r.Context(), sqlStr, args...), &out); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, errNotFound("assignment not found"))
			return
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// returnAssignment closes the loan and flips the asset status in one
// transaction, so no reader ever sees a returned loan with an ASSIGNED asset.
func (s *Server) returnAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.ReturnAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}

	returnDate := time.Now()
	if d, err := parseDate("return_date", in.ReturnDate); err != nil {
		writeError(w, err)
		return
	} else if d != nil {
		returnDate = *d
	}

	assetStatus := models.StatusAvailable
	if in.AssetStatus != nil {
		assetStatus = *in.AssetStatus
		switch assetStatus {
		case models.StatusAvailable, models.StatusNeedsRepair, models.StatusBroken:
		default:
			writeError(w, errValidation("asset_status must be AVAILABLE, NEEDS_REPAIR or BROKEN"))
			return
		}
	}

	var out models.AssetAssignment
	err := runInTx(r.Context(), s.DB, func(q querier) error {
		var assetID int64
		var returned *time.Time
		err := q.QueryRowContext(r.Context(), `
			SELECT asset_id, return_date FROM asset_assignments
			WHERE id = $1 FOR UPDATE`, id).Scan(&assetID, &returned)
		if err == sql.ErrNoRows {
			return errNotFound("assignment not found")
		}
		if err != nil {
			return err
		}
		if returned != nil {
			return errConflict(CodeAlreadyReturned, "assignment was already returned")
		}

		if err := scanAssignment(q.QueryRowContext(r.Context(), `
			UPDATE asset_assignments
			SET return_date = $1, return_condition = $2, updated_at = now()
			WHERE id = $3
			RETURNING `+assignmentColumns,
			returnDate, nullIfEmpty(in.ReturnCondition), id), &out); err != nil {
			return err
		}

		_, err = q.ExecContext(r.Context(), `
			UPDATE assets SET status = $1, updated_at = now() WHERE id = $2`,
			assetStatus, assetID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// deleteAssignment removes a loan record. Deleting an open loan frees the
// asset back to AVAILABLE in the same transaction.
func (s *Server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := runInTx(r.Context(), s.DB, func(q querier) error {
		var assetID int64
		var returned *time.Time
		err := q.QueryRowContext(r.Context(), `
			SELECT asset_id, return_date FROM asset_assignments
			WHERE id = $1 FOR UPDATE`, id).Scan(&assetID, &returned)
		if err == sql.ErrNoRows {
			return errNotFound("assignment not found")
		}
		if err != nil {
			return err
		}

		if _, err := q.ExecContext(r.Context(), `
			DELETE FROM asset_assignments WHERE id = $1`, id); err != nil {
			return err
		}

		if returned == nil {
			_, err = q.ExecContext(r.Context(), `
				UPDATE assets SET status = $1, updated_at = now() WHERE id = $2`,
				models.StatusAvailable, assetID)
			return err
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

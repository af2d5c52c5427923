package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"itam-inventory-api/internal/models"

	"github.com/go-chi/chi/v5"
)

const serviceRecordColumns = `id, assignment_id, ticket_id, repair_type, cost, remarks, created_at, updated_at`

func scanServiceRecord(row interface{ Scan(...any) error }, sr *models.ServiceRecord, extra ...any) error {
	dest := []any{
		&sr.ID, &sr.AssignmentID, &sr.TicketID, &sr.RepairType, &sr.Cost,
		&sr.Remarks, &sr.CreatedAt, &sr.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (s *Server) createServiceRecord(w http.ResponseWriter, r *http.Request) {
	var in models.CreateServiceRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}
	if in.AssignmentID <= 0 {
		writeError(w, errValidation("assignment_id is required"))
		return
	}
	if strings.TrimSpace(in.TicketID) == "" {
		writeError(w, errValidation("ticket_id is required"))
		return
	}
	if !models.ValidRepairType(in.RepairType) {
		writeError(w, errValidation("repair_type must be INTERNAL or EXTERNAL"))
		return
	}
	cost := 0.0
	if in.Cost != nil {
		if *in.Cost < 0 {
			writeError(w, errValidation("cost must not be negative"))
			return
		}
		cost = *in.Cost
	}

	var out models.ServiceRecord
	err := runInTx(r.Context(), s.DB, func(q querier) error {
		// FOR KEY SHARE holds off a concurrent assignment delete until the
		// insert commits, so a missing parent is always a 404, never an FK
		// violation.
		var one int
		err := q.QueryRowContext(r.Context(), `
			SELECT 1 FROM asset_assignments WHERE id = $1 FOR KEY SHARE`, in.AssignmentID).Scan(&one)
		if err == sql.ErrNoRows {
			return errNotFound("assignment not found")
		}
		if err != nil {
			return err
		}

		return scanServiceRecord(q.QueryRowContext(r.Context(), `
			INSERT INTO service_records (assignment_id, ticket_id, repair_type, cost, remarks)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING `+serviceRecordColumns,
			in.AssignmentID, strings.TrimSpace(in.TicketID), in.RepairType, cost,
			nullIfEmpty(in.Remarks)), &out)
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, errConflict(CodeConflict, "ticket_id already exists"))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out)
}

func (s *Server) listServiceRecords(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	values := r.URL.Query()

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if v := strings.TrimSpace(values.Get("assignmentId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, errValidation("assignmentId must be an integer"))
			return
		}
		clauses = append(clauses, fmt.Sprintf("assignment_id = $%d", arg))
		args = append(args, id)
		arg++
	}
	if v := strings.TrimSpace(values.Get("repairType")); v != "" {
		if !models.ValidRepairType(v) {
			writeError(w, errValidation("repairType must be INTERNAL or EXTERNAL"))
			return
		}
		clauses = append(clauses, fmt.Sprintf("repair_type = $%d", arg))
		args = append(args, v)
		arg++
	}

	whereClause := ""
	if len(clauses) > 0 {
		whereClause = " WHERE " + strings.Join(clauses, " AND ")
	}

	sqlStr := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() as total_count
		FROM service_records%s`, serviceRecordColumns, whereClause)

	allowedSort := map[string]string{
		"id":         "id",
		"cost":       "cost",
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

	items := []models.ServiceRecord{}
	var totalCount int
	for rows.Next() {
		var sr models.ServiceRecord
		if err := scanServiceRecord(rows, &sr, &totalCount); err != nil {
			writeError(w, err)
			return
		}
		items = append(items, sr)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}
	if len(items) == 0 && params.page > 1 {
		totalCount, err = s.countFiltered(r.Context(), "service_records", whereClause, args...)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	sendListResponse(w, items, totalCount, params)
}

func (s *Server) getServiceRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var out models.ServiceRecord
	err := scanServiceRecord(s.DB.QueryRowContext(r.Context(), `
		SELECT `+serviceRecordColumns+` FROM service_records WHERE id = $1`, id), &out)
	if err == sql.ErrNoRows {
		writeError(w, errNotFound("service record not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) updateServiceRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.UpdateServiceRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}
	if in.TicketID != nil && strings.TrimSpace(*in.TicketID) == "" {
		writeError(w, errValidation("ticket_id must not be empty"))
		return
	}
	if in.RepairType != nil && !models.ValidRepairType(*in.RepairType) {
		writeError(w, errValidation("repair_type must be INTERNAL or EXTERNAL"))
		return
	}
	if in.Cost != nil && *in.Cost < 0 {
		writeError(w, errValidation("cost must not be negative"))
		return
	}

	type set struct {
		sql string
		val interface{}
	}
	sets := make([]set, 0, 4)
	if in.TicketID != nil {
		sets = append(sets, set{"ticket_id = $%d", strings.TrimSpace(*in.TicketID)})
	}
	if in.RepairType != nil {
		sets = append(sets, set{"repair_type = $%d", *in.RepairType})
	}
	if in.Cost != nil {
		sets = append(sets, set{"cost = $%d", *in.Cost})
	}
	if in.Remarks != nil {
		sets = append(sets, set{"remarks = $%d", nullIfEmpty(in.Remarks)})
	}
	if len(sets) == 0 {
		writeError(w, errValidation("no fields to update"))
		return
	}

	args := make([]interface{}, 0, len(sets)+1)
	sqlStr := "UPDATE service_records SET "
	for i, sset := range sets {
		if i > 0 {
			sqlStr += ", "
		}
		sqlStr += fmt.Sprintf(sset.sql, i+1)
		args = append(args, sset.val)
	}
	sqlStr += fmt.Sprintf(", updated_at = now() WHERE id = $%d RETURNING %s", len(args)+1, serviceRecordColumns)
	args = append(args, id)

	var out models.ServiceRecord
	if err := scanServiceRecord(s.DB.QueryRowContext(r.Context(), sqlStr, args...), &out); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, errNotFound("service record not found"))
			return
		}
		if isUniqueViolation(err) {
			writeError(w, errConflict(CodeConflict, "ticket_id already exists"))
			return
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) deleteServiceRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM service_records WHERE id = $1`, id)
	if err != nil {
		writeError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, errNotFound("service record not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"itam-inventory-api/internal/models"

	"github.com/go-chi/chi/v5"
)

const categoryColumns = `id, name, slug, deleted_at, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }, c *models.Category, extra ...any) error {
	dest := []any{&c.ID, &c.Name, &c.Slug, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// slugify normalizes a category slug: lowercase, spaces to hyphens.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}

// LIST. Soft-deleted rows are hidden unless includeDeleted=true.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	whereClause := " WHERE deleted_at IS NULL"
	if r.URL.Query().Get("includeDeleted") == "true" {
		whereClause = ""
	}

	sqlStr := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() as total_count
		FROM categories%s`, categoryColumns, whereClause)

	allowedSort := map[string]string{
		"id":   "id",
		"name": "name",
		"slug": "slug",
	}
	sqlStr += buildOrderBy(params.sort, allowedSort)
	sqlStr += fmt.Sprintf(" LIMIT %d OFFSET %d", params.limit(), params.offset())

	rows, err := s.DB.QueryContext(r.Context(), sqlStr)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	items := []models.Category{}
	var totalCount int
	for rows.Next() {
		var c models.Category
		if err := scanCategory(rows, &c, &totalCount); err != nil {
			writeError(w, err)
			return
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}
	if len(items) == 0 && params.page > 1 {
		totalCount, err = s.countFiltered(r.Context(), "categories", whereClause)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	sendListResponse(w, items, totalCount, params)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var out models.Category
	err := scanCategory(s.DB.QueryRowContext(r.Context(), `
		SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id), &out)
	if err == sql.ErrNoRows {
		writeError(w, errNotFound("category not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, errValidation("name is required"))
		return
	}
	slug := slugify(in.Slug)
	if slug == "" {
		slug = slugify(in.Name)
	}

	var out models.Category
	err := scanCategory(s.DB.QueryRowContext(r.Context(), `
		INSERT INTO categories (name, slug) VALUES ($1,$2)
		RETURNING `+categoryColumns, strings.TrimSpace(in.Name), slug), &out)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, errConflict(CodeConflict, "slug already exists"))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errValidation("invalid JSON"))
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		writeError(w, errValidation("name must not be empty"))
		return
	}
	if in.Slug != nil && slugify(*in.Slug) == "" {
		writeError(w, errValidation("slug must not be empty"))
		return
	}

	type set struct {
		sql string
		val interface{}
	}
	sets := make([]set, 0, 2)
	if in.Name != nil {
		sets = append(sets, set{"name = $%d", strings.TrimSpace(*in.Name)})
	}
	if in.Slug != nil {
		sets = append(sets, set{"slug = $%d", slugify(*in.Slug)})
	}
	if len(sets) == 0 {
		writeError(w, errValidation("no fields to update"))
		return
	}

	args := make([]interface{}, 0, len(sets)+1)
	sqlStr := "UPDATE categories SET "
	for i, sset := range sets {
		if i > 0 {
			sqlStr += ", "
		}
		sqlStr += fmt.Sprintf(sset.sql, i+1)
		args = append(args, sset.val)
	}
	sqlStr += fmt.Sprintf(", updated_at = now() WHERE id = $%d RETURNING %s", len(args)+1, categoryColumns)
	args = append(args, id)

	var out models.Category
	if err := scanCategory(s.DB.QueryRowContext(r.Context(), sqlStr, args...), &out); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, errNotFound("category not found"))
			return
		}
		if isUniqueViolation(err) {
			writeError(w, errConflict(CodeConflict, "slug already exists"))
			return
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// deleteCategory soft-deletes. Existing assets keep their category; only new
// asset creation against a deleted category is rejected.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.DB.ExecContext(r.Context(), `
		UPDATE categories SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		writeError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, errNotFound("category not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reinstateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var out models.Category
	err := scanCategory(s.DB.QueryRowContext(r.Context(), `
		UPDATE categories SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING `+categoryColumns, id), &out)
	if err == sql.ErrNoRows {
		writeError(w, errNotFound("category not found or not deleted"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

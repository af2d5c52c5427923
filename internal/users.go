package internal

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"itam-inventory-api/internal/auth"
	"itam-inventory-api/internal/models"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, email, password_hash, first_name, last_name, roles, is_active,
	       created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	var firstName, lastName sql.NullString
	var lastLoginAt sql.NullTime
	var roles pq.StringArray

	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName,
		&roles, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &lastLoginAt,
	); err != nil {
		return err
	}

	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	u.Roles = roles
	return nil
}

// loginUser handles user authentication
func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	var user models.User
	err := scanUser(s.DB.QueryRowContext(r.Context(), `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND is_active = true`, req.Email), &user)
	if err == sql.ErrNoRows {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Update last login time; failure here should not block login
	if _, err := s.DB.ExecContext(r.Context(), `
		UPDATE users SET last_login_at = now() WHERE id = $1`, user.ID); err != nil {
		log.Printf("failed to update last_login_at: %v", err)
	}

	token, err := s.JWTManager.GenerateToken(user.ID, user.Roles)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := models.LoginResponse{
		Token: token,
		User:  user.Redacted(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getUserProfile handles getting current user's profile
func (s *Server) getUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == 0 {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	var user models.User
	err := scanUser(s.DB.QueryRowContext(r.Context(), `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, userID), &user)
	if err == sql.ErrNoRows {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.Redacted())
}

// changePassword handles password changes
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == 0 {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		http.Error(w, "Current password and new password are required", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 8 {
		http.Error(w, "New password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	var currentPasswordHash string
	err := s.DB.QueryRowContext(r.Context(), `
		SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&currentPasswordHash)
	if err == sql.ErrNoRows {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentPasswordHash), []byte(req.CurrentPassword)); err != nil {
		http.Error(w, "Current password is incorrect", http.StatusBadRequest)
		return
	}

	newPasswordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Failed to hash new password", http.StatusInternalServerError)
		return
	}

	if _, err := s.DB.ExecContext(r.Context(), `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		string(newPasswordHash), userID); err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes surfaced in the {error, code} envelope.
const (
	CodeValidation      = "VALIDATION_FAILED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeAssetOnLoan     = "ASSET_ON_LOAN"
	CodeAssetRetired    = "ASSET_RETIRED"
	CodeAlreadyReturned = "ALREADY_RETURNED"
	CodeInternal        = "INTERNAL"
)

// apiError is a domain error that maps onto one HTTP status. Handlers
// return these from their store helpers; writeError translates them at the
// response boundary so raw driver errors never leak to clients.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errValidation(msg string) error {
	return &apiError{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

func errNotFound(msg string) error {
	return &apiError{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func errConflict(code, msg string) error {
	return &apiError{Status: http.StatusConflict, Code: code, Message: msg}
}

// writeError sends the JSON error envelope for err. Anything that is not an
// *apiError is reported as an opaque internal error.
func writeError(w http.ResponseWriter, err error) {
	var ae *apiError
	if !errors.As(err, &ae) {
		ae = &apiError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal error"}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": ae.Message,
		"code":  ae.Code,
	})
}

// isUniqueViolation detects unique-constraint failures from the driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

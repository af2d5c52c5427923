package models

import "time"

// AssetAssignment represents one loan period of one asset to one user.
// An assignment with no return date is the asset's open loan; the store
// guarantees at most one open loan per asset.
type AssetAssignment struct {
	ID              int64      `json:"id"`
	AssetID         int64      `json:"asset_id"`
	UserID          int64      `json:"user_id"`
	AssetTag        string     `json:"asset_tag"`
	LoanDate        time.Time  `json:"loan_date"`
	LoanCondition   *string    `json:"loan_condition,omitempty"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	ReturnCondition *string    `json:"return_condition,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Open reports whether the loan has not been returned yet.
func (a *AssetAssignment) Open() bool {
	return a.ReturnDate == nil
}

// CreateAssignmentRequest is the body for POST /assignments. AssetTag is
// optional; a reference tag is generated when absent. LoanDate is
// YYYY-MM-DD and defaults to today.
type CreateAssignmentRequest struct {
	AssetID       int64   `json:"asset_id"`
	UserID        int64   `json:"user_id"`
	AssetTag      *string `json:"asset_tag,omitempty"`
	LoanDate      *string `json:"loan_date,omitempty"`
	LoanCondition *string `json:"loan_condition,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateAssignmentRequest is the body for PUT /assignments/{id}. Only
// correction fields are mutable; the open/closed state and the asset
// status are controlled by the return endpoint.
type UpdateAssignmentRequest struct {
	AssetTag      *string `json:"asset_tag,omitempty"`
	LoanDate      *string `json:"loan_date,omitempty"`
	LoanCondition *string `json:"loan_condition,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ReturnAssignmentRequest is the body for POST /assignments/{id}/return.
// ReturnDate is YYYY-MM-DD and defaults to today. AssetStatus picks the
// status the asset transitions to and defaults to AVAILABLE; only
// AVAILABLE, NEEDS_REPAIR and BROKEN are accepted.
type ReturnAssignmentRequest struct {
	ReturnDate      *string `json:"return_date,omitempty"`
	ReturnCondition *string `json:"return_condition,omitempty"`
	AssetStatus     *string `json:"asset_status,omitempty"`
}

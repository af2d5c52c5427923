package models

import "time"

// Repair type values for service records.
const (
	RepairInternal = "INTERNAL"
	RepairExternal = "EXTERNAL"
)

// ValidRepairType reports whether s is a recognized repair type.
func ValidRepairType(s string) bool {
	return s == RepairInternal || s == RepairExternal
}

// ServiceRecord is one logged maintenance event tied to an assignment.
// Records are append-only; updates exist only for in-place correction.
type ServiceRecord struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	TicketID     string    `json:"ticket_id"`
	RepairType   string    `json:"repair_type"`
	Cost         float64   `json:"cost"`
	Remarks      *string   `json:"remarks,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateServiceRecordRequest is the body for POST /service-records.
type CreateServiceRecordRequest struct {
	AssignmentID int64    `json:"assignment_id"`
	TicketID     string   `json:"ticket_id"`
	RepairType   string   `json:"repair_type"`
	Cost         *float64 `json:"cost,omitempty"`
	Remarks      *string  `json:"remarks,omitempty"`
}

// UpdateServiceRecordRequest is the body for PATCH /service-records/{id}.
type UpdateServiceRecordRequest struct {
	TicketID   *string  `json:"ticket_id,omitempty"`
	RepairType *string  `json:"repair_type,omitempty"`
	Cost       *float64 `json:"cost,omitempty"`
	Remarks    *string  `json:"remarks,omitempty"`
}

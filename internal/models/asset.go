package models

import "time"

// Asset physical status values. ASSIGNED is only ever written by the
// assignment endpoints; the rest can be set through the admin edit path.
const (
	StatusAvailable   = "AVAILABLE"
	StatusAssigned    = "ASSIGNED"
	StatusNeedsRepair = "NEEDS_REPAIR"
	StatusBroken      = "BROKEN"
	StatusMissing     = "MISSING"
	StatusSold        = "SOLD"
)

// ValidStatus reports whether s is a recognized asset status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusNeedsRepair, StatusBroken, StatusMissing, StatusSold:
		return true
	}
	return false
}

// RetiredStatus reports whether s blocks new assignments until an
// administrative status reset.
func RetiredStatus(s string) bool {
	return s == StatusSold || s == StatusMissing
}

// Asset represents one tracked physical item.
type Asset struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	SerialNumber     *string    `json:"serial_number,omitempty"`
	Brand            *string    `json:"brand,omitempty"`
	Model            *string    `json:"model,omitempty"`
	CategoryID       int64      `json:"category_id"`
	CategorySlug     string     `json:"category_slug"`
	Status           string     `json:"status"`
	PhysicalLocation *string    `json:"physical_location,omitempty"`
	PurchaseDate     *time.Time `json:"purchase_date,omitempty"`
	WarrantyEnd      *time.Time `json:"warranty_end,omitempty"`
	AcquisitionValue *float64   `json:"acquisition_value,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// LaptopSpec holds laptop-specific attributes, one row per laptop asset.
type LaptopSpec struct {
	AssetID int64   `json:"asset_id"`
	CPU     *string `json:"cpu,omitempty"`
	RAM     *string `json:"ram,omitempty"`
	Storage *string `json:"storage,omitempty"`
	OS      *string `json:"os,omitempty"`
}

// PrinterSpec holds printer-specific attributes.
type PrinterSpec struct {
	AssetID      int64   `json:"asset_id"`
	PrintType    *string `json:"print_type,omitempty"`
	ColorSupport *bool   `json:"color_support,omitempty"`
}

// CCTVSpec holds CCTV-specific attributes.
type CCTVSpec struct {
	AssetID     int64   `json:"asset_id"`
	Resolution  *string `json:"resolution,omitempty"`
	CameraCount *int    `json:"camera_count,omitempty"`
}

// NUCSpec holds intel-NUC-specific attributes.
type NUCSpec struct {
	AssetID int64   `json:"asset_id"`
	CPU     *string `json:"cpu,omitempty"`
	RAM     *string `json:"ram,omitempty"`
	Storage *string `json:"storage,omitempty"`
}

// AssetWithSpec is an asset plus its category spec record. At most one of
// the spec pointers is non-nil, chosen by the category slug.
type AssetWithSpec struct {
	Asset
	Laptop  *LaptopSpec  `json:"laptop,omitempty"`
	Printer *PrinterSpec `json:"printer,omitempty"`
	CCTV    *CCTVSpec    `json:"cctv,omitempty"`
	NUC     *NUCSpec     `json:"nuc,omitempty"`
}

// CreateAssetRequest is the body for POST /assets.
type CreateAssetRequest struct {
	Name             string   `json:"name"`
	SerialNumber     *string  `json:"serial_number,omitempty"`
	Brand            *string  `json:"brand,omitempty"`
	Model            *string  `json:"model,omitempty"`
	CategoryID       int64    `json:"category_id"`
	Status           *string  `json:"status,omitempty"`
	PhysicalLocation *string  `json:"physical_location,omitempty"`
	PurchaseDate     *string  `json:"purchase_date,omitempty"` // YYYY-MM-DD
	WarrantyEnd      *string  `json:"warranty_end,omitempty"`  // YYYY-MM-DD
	AcquisitionValue *float64 `json:"acquisition_value,omitempty"`

	Laptop  *LaptopSpecInput  `json:"laptop,omitempty"`
	Printer *PrinterSpecInput `json:"printer,omitempty"`
	CCTV    *CCTVSpecInput    `json:"cctv,omitempty"`
	NUC     *NUCSpecInput     `json:"nuc,omitempty"`
}

// UpdateAssetRequest is the body for PUT /assets/{id}. Nil fields are left
// untouched.
type UpdateAssetRequest struct {
	Name             *string  `json:"name,omitempty"`
	SerialNumber     *string  `json:"serial_number,omitempty"`
	Brand            *string  `json:"brand,omitempty"`
	Model            *string  `json:"model,omitempty"`
	Status           *string  `json:"status,omitempty"`
	PhysicalLocation *string  `json:"physical_location,omitempty"`
	PurchaseDate     *string  `json:"purchase_date,omitempty"`
	WarrantyEnd      *string  `json:"warranty_end,omitempty"`
	AcquisitionValue *float64 `json:"acquisition_value,omitempty"`

	Laptop  *LaptopSpecInput  `json:"laptop,omitempty"`
	Printer *PrinterSpecInput `json:"printer,omitempty"`
	CCTV    *CCTVSpecInput    `json:"cctv,omitempty"`
	NUC     *NUCSpecInput     `json:"nuc,omitempty"`
}

// LaptopSpecInput carries laptop spec fields on create/update.
type LaptopSpecInput struct {
	CPU     *string `json:"cpu,omitempty"`
	RAM     *string `json:"ram,omitempty"`
	Storage *string `json:"storage,omitempty"`
	OS      *string `json:"os,omitempty"`
}

// PrinterSpecInput carries printer spec fields on create/update.
type PrinterSpecInput struct {
	PrintType    *string `json:"print_type,omitempty"`
	ColorSupport *bool   `json:"color_support,omitempty"`
}

// CCTVSpecInput carries CCTV spec fields on create/update.
type CCTVSpecInput struct {
	Resolution  *string `json:"resolution,omitempty"`
	CameraCount *int    `json:"camera_count,omitempty"`
}

// NUCSpecInput carries intel-NUC spec fields on create/update.
type NUCSpecInput struct {
	CPU     *string `json:"cpu,omitempty"`
	RAM     *string `json:"ram,omitempty"`
	Storage *string `json:"storage,omitempty"`
}

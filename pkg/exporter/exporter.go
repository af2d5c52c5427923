// Package exporter builds xlsx workbooks of the asset register for
// offline audits and handover sign-offs.
package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"
	"gopkg.in/yaml.v3"
)

// ExportOptions defines the configuration for asset register exports
type ExportOptions struct {
	MappingPath string // default "configs/mapping/asset_register.yaml"
	Status      string // optional status filter
	CategoryID  int64  // optional category filter
}

// MappingConfig represents the YAML column mapping configuration
type MappingConfig struct {
	Version   int            `yaml:"version"`
	SheetName string         `yaml:"sheet_name"`
	Columns   []ColumnConfig `yaml:"columns"`
}

type ColumnConfig struct {
	Header string `yaml:"header"`
	Field  string `yaml:"field"`
}

// defaultMapping is used when no mapping file is configured or readable.
func defaultMapping() MappingConfig {
	return MappingConfig{
		Version:   1,
		SheetName: "Assets",
		Columns: []ColumnConfig{
			{Header: "ID", Field: "id"},
			{Header: "Name", Field: "name"},
			{Header: "Serial Number", Field: "serial_number"},
			{Header: "Brand", Field: "brand"},
			{Header: "Model", Field: "model"},
			{Header: "Category", Field: "category"},
			{Header: "Status", Field: "status"},
			{Header: "Location", Field: "physical_location"},
			{Header: "Purchase Date", Field: "purchase_date"},
			{Header: "Warranty End", Field: "warranty_end"},
			{Header: "Acquisition Value", Field: "acquisition_value"},
			{Header: "Assigned To", Field: "assigned_user_id"},
			{Header: "Loan Date", Field: "loan_date"},
		},
	}
}

func loadMappingConfig(path string) (MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MappingConfig{}, err
	}
	var cfg MappingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MappingConfig{}, err
	}
	if len(cfg.Columns) == 0 {
		return MappingConfig{}, fmt.Errorf("mapping %s has no columns", path)
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Assets"
	}
	return cfg, nil
}

// ExportAssets streams the asset register as an xlsx workbook to w.
// Rows include the open assignment, if any, so the sheet answers "who has
// this" without a second export.
func ExportAssets(ctx context.Context, db *pgxpool.Pool, w io.Writer, opts ExportOptions) (int, error) {
	mapping := defaultMapping()
	if opts.MappingPath != "" {
		m, err := loadMappingConfig(opts.MappingPath)
		switch {
		case err == nil:
			mapping = m
		case os.IsNotExist(err):
			// deployments without a mapping file get the built-in layout
		default:
			return 0, fmt.Errorf("failed to load mapping config: %w", err)
		}
	}

	clauses := []string{}
	args := []interface{}{}
	if opts.Status != "" {
		args = append(args, opts.Status)
		clauses = append(clauses, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if opts.CategoryID > 0 {
		args = append(args, opts.CategoryID)
		clauses = append(clauses, fmt.Sprintf("a.category_id = $%d", len(args)))
	}
	whereClause := ""
	if len(clauses) > 0 {
		whereClause = " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := db.Query(ctx, `
		SELECT a.id, a.name, a.serial_number, a.brand, a.model, c.name, a.status,
		       a.physical_location, a.purchase_date, a.warranty_end, a.acquisition_value,
		       l.user_id, l.loan_date
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		LEFT JOIN asset_assignments l ON l.asset_id = a.id AND l.return_date IS NULL`+
		whereClause+`
		ORDER BY a.id`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(mapping.SheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range mapping.Columns {
		header.AddCell().SetString(col.Header)
	}

	count := 0
	for rows.Next() {
		var (
			id               int64
			name             string
			serialNumber     *string
			brand            *string
			model            *string
			category         string
			status           string
			physicalLocation *string
			purchaseDate     *time.Time
			warrantyEnd      *time.Time
			acquisitionValue *float64
			assignedUserID   *int64
			loanDate         *time.Time
		)
		if err := rows.Scan(&id, &name, &serialNumber, &brand, &model, &category, &status,
			&physicalLocation, &purchaseDate, &warrantyEnd, &acquisitionValue,
			&assignedUserID, &loanDate); err != nil {
			return count, fmt.Errorf("failed to scan asset row: %w", err)
		}

		fields := map[string]string{
			"id":                fmt.Sprintf("%d", id),
			"name":              name,
			"serial_number":     strOrEmpty(serialNumber),
			"brand":             strOrEmpty(brand),
			"model":             strOrEmpty(model),
			"category":          category,
			"status":            status,
			"physical_location": strOrEmpty(physicalLocation),
			"purchase_date":     dateOrEmpty(purchaseDate),
			"warranty_end":      dateOrEmpty(warrantyEnd),
			"assigned_user_id":  int64OrEmpty(assignedUserID),
			"loan_date":         dateOrEmpty(loanDate),
		}
		if acquisitionValue != nil {
			fields["acquisition_value"] = fmt.Sprintf("%.2f", *acquisitionValue)
		} else {
			fields["acquisition_value"] = ""
		}

		row := sheet.AddRow()
		for _, col := range mapping.Columns {
			row.AddCell().SetString(fields[col.Field])
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to read asset rows: %w", err)
	}

	if err := file.Write(w); err != nil {
		return count, fmt.Errorf("failed to write workbook: %w", err)
	}
	return count, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func int64OrEmpty(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

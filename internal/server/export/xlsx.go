// Package export renders audit records as an xlsx workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Sheet1"

// WriteXLSX writes a header row of column names followed by one row per
// record to path, replacing any existing file.
func WriteXLSX(path string, records []models.AuditRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRow(f, 1, toAny(models.AuditColumns)); err != nil {
		return err
	}
	for i, r := range records {
		if err := writeRow(f, i+2, r.Row()); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return fmt.Errorf("export: mkdir %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

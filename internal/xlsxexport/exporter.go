// =============================================================================
// Billing Ledger - XLSX Bill Exporter
// =============================================================================
//
// This module writes a single bill into a copy of a pre-formatted spreadsheet
// template. Only the first sheet of the template is used.
//
// TEMPLATE REQUIREMENTS:
//   - One cell holding the "details" label (default "DÉTAILS")
//   - One cell holding the "bill-to" label (default "FACTURER À")
//   - A styled formatting row directly below the details label
//   - Columns A and B free below it for product name and price
//
//   |   | A              | B      |
//   |---|----------------|--------|
//   | 3 | FACTURER À     |        |
//   | 4 | <client name>  |        |   <- written here
//   | 6 | DÉTAILS        |        |
//   | 7 | <product 1>    | 9.99   |   <- inserted rows, styled like row 7
//   | 8 | <product 2>    | 19.50  |      of the template
//   | 9 | (format row)   |        |   <- original formatting row, shifted
//
// EXPORT STEPS:
//   1. Locate the details label (trimmed, case-insensitive, row-major)
//   2. Locate the bill-to label (case-insensitive, row-major)
//   3. Write the client name one row below the bill-to label
//   4. Resolve the bill in the ledger
//   5. Insert one row per product below the details label, copying the
//      formatting row's height and per-cell styles
//   6. Save the workbook to the output path
//
// Nothing is written to the output path unless every step succeeds.
//
// =============================================================================

package xlsxexport

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/billing-ledger/internal/config"
	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrAnchorNotFound is returned when a label is missing from the template.
	ErrAnchorNotFound = errors.New("label not found in template")

	// ErrTemplateNotFound is returned when the template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
)

// Product columns of an inserted row (1-based, A and B).
const (
	nameColumn  = 1
	priceColumn = 2
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls which labels the exporter looks for.
type Options struct {
	// DetailsLabel marks the row below which products are inserted.
	// Default: "DÉTAILS"
	DetailsLabel string

	// BillToLabel marks the cell above which the client name is written.
	// Default: "FACTURER À"
	BillToLabel string

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DetailsLabel == "" {
		o.DetailsLabel = config.DefaultDetailsLabel
	}
	if o.BillToLabel == "" {
		o.BillToLabel = config.DefaultBillToLabel
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// OutputFileName returns the export file name for a bill timestamp, e.g.
// "2024-01-01_10-00-00.xlsx".
func OutputFileName(billAt time.Time) string {
	return billAt.Format(ledger.FileStampLayout) + ".xlsx"
}

// =============================================================================
// EXPORT
// =============================================================================

// Export writes the bill of clientName at billAt into a copy of the template
// and saves it to outputPath, replacing any existing file.
func Export(templatePath, outputPath, clientName string, billAt time.Time, store *ledger.Store, opts Options) error {
	opts = opts.withDefaults()
	log := opts.Logger

	if !utils.FileExists(templatePath) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
	}

	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return fmt.Errorf("template file has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	// =========================================================================
	// STEP 1-2: LOCATE ANCHORS
	// =========================================================================

	detailsRow, _, err := findLabel(rows, opts.DetailsLabel, true)
	if err != nil {
		return err
	}
	billToRow, billToCol, err := findLabel(rows, opts.BillToLabel, false)
	if err != nil {
		return err
	}

	log.Debug("Located template anchors",
		"sheet", sheet,
		"details_row", detailsRow+1,
		"bill_to_row", billToRow+1,
		"bill_to_col", billToCol+1)

	// =========================================================================
	// STEP 3: CLIENT NAME
	// =========================================================================

	nameCell, err := excelize.CoordinatesToCellName(billToCol+1, billToRow+2)
	if err != nil {
		return fmt.Errorf("failed to address client name cell: %w", err)
	}
	if err := f.SetCellStr(sheet, nameCell, clientName); err != nil {
		return fmt.Errorf("failed to write client name: %w", err)
	}

	// =========================================================================
	// STEP 4: RESOLVE BILL
	// =========================================================================

	bill, err := store.Bill(clientName, billAt)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 5: PRODUCT ROWS
	// =========================================================================

	// Rows are 1-based in excelize; the formatting row sits right below the
	// details label.
	formatRow := detailsRow + 2
	if err := insertProductRows(f, sheet, formatRow, sheetWidth(f, sheet, rows), bill.Products()); err != nil {
		return err
	}

	log.Debug("Inserted product rows", "first_row", formatRow, "count", len(bill.Products()))

	// =========================================================================
	// STEP 6: SAVE
	// =========================================================================

	if err := utils.EnsureParentDir(outputPath); err != nil {
		return err
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(outputPath), err)
	}

	return nil
}

// findLabel scans rows in row-major order for the first cell equal to label,
// ignoring case. With trim set, surrounding whitespace in the cell is ignored.
// The returned row and column are 0-based.
func findLabel(rows [][]string, label string, trim bool) (int, int, error) {
	for r, row := range rows {
		for c, value := range row {
			if trim {
				value = strings.TrimSpace(value)
			}
			if strings.EqualFold(value, label) {
				return r, c, nil
			}
		}
	}
	return -1, -1, fmt.Errorf("%w: %q", ErrAnchorNotFound, label)
}

// sheetWidth returns the number of columns whose styles are copied onto each
// inserted row. It covers the sheet dimension, the widest row with values,
// and at least the two product columns.
func sheetWidth(f *excelize.File, sheet string, rows [][]string) int {
	width := priceColumn
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return width
	}
	refs := strings.Split(dim, ":")
	if col, _, err := excelize.CellNameToCoordinates(refs[len(refs)-1]); err == nil && col > width {
		width = col
	}
	return width
}

// insertProductRows inserts one row per product at formatRow, pushing the
// formatting row and everything below it down. Each new row takes the
// formatting row's height and cell styles as they were before insertion.
func insertProductRows(f *excelize.File, sheet string, formatRow, width int, products []ledger.Product) error {
	styles := make([]int, width)
	for col := 1; col <= width; col++ {
		cell, err := excelize.CoordinatesToCellName(col, formatRow)
		if err != nil {
			return err
		}
		if styles[col-1], err = f.GetCellStyle(sheet, cell); err != nil {
			return fmt.Errorf("failed to read style of %s: %w", cell, err)
		}
	}

	height, err := f.GetRowHeight(sheet, formatRow)
	if err != nil {
		return fmt.Errorf("failed to read height of row %d: %w", formatRow, err)
	}

	row := formatRow
	for _, product := range products {
		if err := f.InsertRows(sheet, row, 1); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row, err)
		}
		if err := f.SetRowHeight(sheet, row, height); err != nil {
			return fmt.Errorf("failed to set height of row %d: %w", row, err)
		}

		for col, style := range styles {
			if style == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}

		nameCell, _ := excelize.CoordinatesToCellName(nameColumn, row)
		if err := f.SetCellStr(sheet, nameCell, product.Name); err != nil {
			return fmt.Errorf("failed to write product name: %w", err)
		}
		priceCell, _ := excelize.CoordinatesToCellName(priceColumn, row)
		if err := f.SetCellFloat(sheet, priceCell, product.Price.InexactFloat64(), 2, 64); err != nil {
			return fmt.Errorf("failed to write product price: %w", err)
		}

		row++
	}

	return nil
}

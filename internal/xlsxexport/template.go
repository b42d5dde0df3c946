package xlsxexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/billing-ledger/pkg/utils"
)

// Starter template layout (1-based rows).
const (
	templateSheet     = "Soumission"
	titleRow          = 1
	billToLabelRow    = 3
	detailsLabelRow   = 6
	formattingRow     = 7
	footerRow         = 9
	templateTitle     = "SOUMISSION"
	templateFooter    = "Merci de votre confiance"
	formattingRowSize = 18
)

// WriteTemplate creates a minimal template at path that Export accepts: a
// bill-to label, a details label, a bordered formatting row with a two-digit
// price format, and a footer line below it.
func WriteTemplate(path string, opts Options) error {
	opts = opts.withDefaults()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sheet := templateSheet

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create label style: %w", err)
	}

	border := []excelize.Border{
		{Type: "bottom", Color: "808080", Style: 1},
	}
	nameStyle, err := f.NewStyle(&excelize.Style{
		Border: border,
	})
	if err != nil {
		return fmt.Errorf("failed to create name style: %w", err)
	}
	priceStyle, err := f.NewStyle(&excelize.Style{
		Border:    border,
		NumFmt:    2, // 0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return fmt.Errorf("failed to create price style: %w", err)
	}

	cells := []struct {
		col, row int
		value    string
		style    int
	}{
		{nameColumn, titleRow, templateTitle, titleStyle},
		{nameColumn, billToLabelRow, opts.BillToLabel, labelStyle},
		{nameColumn, detailsLabelRow, opts.DetailsLabel, labelStyle},
		{priceColumn, detailsLabelRow, "", labelStyle},
		{nameColumn, formattingRow, "", nameStyle},
		{priceColumn, formattingRow, "", priceStyle},
		{nameColumn, footerRow, templateFooter, 0},
	}
	for _, c := range cells {
		cell, err := excelize.CoordinatesToCellName(c.col, c.row)
		if err != nil {
			return err
		}
		if c.value != "" {
			if err := f.SetCellStr(sheet, cell, c.value); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
		if c.style != 0 {
			if err := f.SetCellStyle(sheet, cell, cell, c.style); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return fmt.Errorf("failed to size column A: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 14); err != nil {
		return fmt.Errorf("failed to size column B: %w", err)
	}
	if err := f.SetRowHeight(sheet, formattingRow, formattingRowSize); err != nil {
		return fmt.Errorf("failed to size formatting row: %w", err)
	}

	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

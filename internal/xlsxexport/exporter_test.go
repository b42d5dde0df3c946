package xlsxexport

import (
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/pkg/utils"
)

var billAt = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func acmeStore(t *testing.T) *ledger.Store {
	t.Helper()
	store := ledger.New()
	bill := store.GetOrCreateClient("Acme").AddBill(billAt)
	for _, p := range []struct{ name, price string }{{"Widget", "9.99"}, {"Gadget", "19.50"}} {
		price, err := ledger.ParsePrice(p.price)
		if err != nil {
			t.Fatalf("ParsePrice failed: %v", err)
		}
		if _, err := bill.AddProduct(p.name, price); err != nil {
			t.Fatalf("AddProduct failed: %v", err)
		}
	}
	return store
}

func starterTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates", "soumission.xlsx")
	if err := WriteTemplate(path, Options{}); err != nil {
		t.Fatalf("WriteTemplate failed: %v", err)
	}
	return path
}

// customTemplate writes a single-sheet workbook holding the given cells.
func customTemplate(t *testing.T, cells map[string]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, value := range cells {
		if err := f.SetCellStr("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellStr failed: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "custom.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func openSheet(t *testing.T, path string) (*excelize.File, string) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	return f, f.GetSheetName(0)
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
	}
	return v
}

func cellStyle(t *testing.T, f *excelize.File, sheet, cell string) int {
	t.Helper()
	s, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellStyle(%s) failed: %v", cell, err)
	}
	return s
}

func TestOutputFileName(t *testing.T) {
	if got := OutputFileName(billAt); got != "2024-01-01_10-00-00.xlsx" {
		t.Errorf("unexpected file name %q", got)
	}
}

func TestExport(t *testing.T) {
	tpl := starterTemplate(t)
	out := filepath.Join(t.TempDir(), "exports", OutputFileName(billAt))

	if err := Export(tpl, out, "Acme", billAt, acmeStore(t), Options{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	src, srcSheet := openSheet(t, tpl)
	nameStyle := cellStyle(t, src, srcSheet, "A7")
	priceStyle := cellStyle(t, src, srcSheet, "B7")
	formatHeight, err := src.GetRowHeight(srcSheet, formattingRow)
	if err != nil {
		t.Fatalf("GetRowHeight failed: %v", err)
	}

	f, sheet := openSheet(t, out)

	t.Run("client name below bill-to label", func(t *testing.T) {
		if got := cellValue(t, f, sheet, "A4"); got != "Acme" {
			t.Errorf("expected Acme in A4, got %q", got)
		}
	})

	t.Run("product rows in order", func(t *testing.T) {
		want := []struct {
			row   string
			name  string
			price float64
		}{
			{"7", "Widget", 9.99},
			{"8", "Gadget", 19.50},
		}
		for _, w := range want {
			if got := cellValue(t, f, sheet, "A"+w.row); got != w.name {
				t.Errorf("row %s: expected %q, got %q", w.row, w.name, got)
			}
			raw := cellValue(t, f, sheet, "B"+w.row)
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				t.Fatalf("row %s: price %q is not numeric: %v", w.row, raw, err)
			}
			if price != w.price {
				t.Errorf("row %s: expected %.2f, got %v", w.row, w.price, price)
			}
		}
	})

	t.Run("rows take the formatting row's styles", func(t *testing.T) {
		for _, row := range []string{"7", "8", "9"} {
			if got := cellStyle(t, f, sheet, "A"+row); got != nameStyle {
				t.Errorf("A%s: expected style %d, got %d", row, nameStyle, got)
			}
			if got := cellStyle(t, f, sheet, "B"+row); got != priceStyle {
				t.Errorf("B%s: expected style %d, got %d", row, priceStyle, got)
			}
		}
		for _, row := range []int{7, 8} {
			h, err := f.GetRowHeight(sheet, row)
			if err != nil {
				t.Fatalf("GetRowHeight failed: %v", err)
			}
			if h != formatHeight {
				t.Errorf("row %d: expected height %v, got %v", row, formatHeight, h)
			}
		}
	})

	t.Run("rows below are shifted", func(t *testing.T) {
		if got := cellValue(t, f, sheet, "A9"); got != "" {
			t.Errorf("expected the formatting row at 9 to stay blank, got %q", got)
		}
		if got := cellValue(t, f, sheet, "A11"); got != templateFooter {
			t.Errorf("expected footer in A11, got %q", got)
		}
	})

	t.Run("template is untouched", func(t *testing.T) {
		if got := cellValue(t, src, srcSheet, "A4"); got != "" {
			t.Errorf("template A4 changed to %q", got)
		}
		if got := cellValue(t, src, srcSheet, "A9"); got != templateFooter {
			t.Errorf("template footer moved, A9 is %q", got)
		}
	})
}

func TestExportEmptyBill(t *testing.T) {
	store := ledger.New()
	store.GetOrCreateClient("Initech").AddBill(billAt)

	out := filepath.Join(t.TempDir(), OutputFileName(billAt))
	if err := Export(starterTemplate(t), out, "Initech", billAt, store, Options{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, sheet := openSheet(t, out)
	if got := cellValue(t, f, sheet, "A4"); got != "Initech" {
		t.Errorf("expected Initech in A4, got %q", got)
	}
	if got := cellValue(t, f, sheet, "A9"); got != templateFooter {
		t.Errorf("expected footer to stay in A9, got %q", got)
	}
}

func TestExportLabelMatching(t *testing.T) {
	tpl := customTemplate(t, map[string]string{
		"C2": "facturer à",
		"B5": "  Détails ",
	})
	out := filepath.Join(t.TempDir(), "out.xlsx")

	if err := Export(tpl, out, "Acme", billAt, acmeStore(t), Options{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, sheet := openSheet(t, out)
	if got := cellValue(t, f, sheet, "C3"); got != "Acme" {
		t.Errorf("expected client name in C3, got %q", got)
	}
	if got := cellValue(t, f, sheet, "A6"); got != "Widget" {
		t.Errorf("expected Widget in A6, got %q", got)
	}
	if got := cellValue(t, f, sheet, "A7"); got != "Gadget" {
		t.Errorf("expected Gadget in A7, got %q", got)
	}
}

func TestExportCustomLabels(t *testing.T) {
	tpl := customTemplate(t, map[string]string{
		"A1": "BILL TO",
		"A3": "ITEMS",
	})
	out := filepath.Join(t.TempDir(), "out.xlsx")

	opts := Options{DetailsLabel: "Items", BillToLabel: "Bill To"}
	if err := Export(tpl, out, "Acme", billAt, acmeStore(t), opts); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, sheet := openSheet(t, out)
	if got := cellValue(t, f, sheet, "A2"); got != "Acme" {
		t.Errorf("expected client name in A2, got %q", got)
	}
	if got := cellValue(t, f, sheet, "A4"); got != "Widget" {
		t.Errorf("expected Widget in A4, got %q", got)
	}
}

func TestExportFailures(t *testing.T) {
	store := acmeStore(t)

	cases := []struct {
		name     string
		template func(t *testing.T) string
		client   string
		at       time.Time
		want     error
	}{
		{
			name:     "missing details label",
			template: func(t *testing.T) string { return customTemplate(t, map[string]string{"A3": "FACTURER À"}) },
			client:   "Acme",
			at:       billAt,
			want:     ErrAnchorNotFound,
		},
		{
			name:     "missing bill-to label",
			template: func(t *testing.T) string { return customTemplate(t, map[string]string{"A6": "DÉTAILS"}) },
			client:   "Acme",
			at:       billAt,
			want:     ErrAnchorNotFound,
		},
		{
			name: "bill-to label is not trimmed",
			template: func(t *testing.T) string {
				return customTemplate(t, map[string]string{"A3": " FACTURER À", "A6": "DÉTAILS"})
			},
			client: "Acme",
			at:     billAt,
			want:   ErrAnchorNotFound,
		},
		{
			name:     "unknown client",
			template: starterTemplate,
			client:   "Nobody",
			at:       billAt,
			want:     ledger.ErrClientNotFound,
		},
		{
			name:     "unknown bill",
			template: starterTemplate,
			client:   "Acme",
			at:       billAt.Add(time.Minute),
			want:     ledger.ErrBillNotFound,
		},
		{
			name:     "missing template",
			template: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.xlsx") },
			client:   "Acme",
			at:       billAt,
			want:     ErrTemplateNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.xlsx")
			err := Export(tc.template(t), out, tc.client, tc.at, store, Options{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if utils.FileExists(out) {
				t.Error("expected no output file after a failed export")
			}
		})
	}
}

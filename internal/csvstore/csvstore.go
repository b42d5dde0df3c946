// =============================================================================
// Billing Ledger - CSV Persistence
// =============================================================================
//
// This module reads and writes the whole ledger as delimited text, one row per
// product line item:
//
//   Client,BillDateTime,ProductName,Price
//   Acme,2024-01-01 10:00:00,Widget,9.99
//   Acme,2024-01-01 10:00:00,Gadget,19.50
//
// FORMAT RULES:
//   - Line 1 is a header and is discarded on load
//   - Each physical line is one row; a row never spans lines
//   - A row is split on its first three commas, so anything after the third
//     comma is the price
//   - BillDateTime uses YYYY-MM-DD HH:MM:SS
//   - Price is written with exactly two fraction digits
//   - Fields are written verbatim. A field containing a comma, or one that
//     would read back as a quoted field, is written as "..." with inner
//     quotes doubled
//   - Rows with fewer than 4 fields are skipped
//   - A bad timestamp or price fails the whole load
//
// Clients and bills without products have no row and are not persisted.
//
// =============================================================================

package csvstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/pkg/utils"
)

// Header is the literal first line of a ledger file.
var Header = []string{"Client", "BillDateTime", "ProductName", "Price"}

// ErrLineBreak is returned when a value cannot be stored on a single line.
var ErrLineBreak = errors.New("value contains a line break")

// Column positions within a row.
const (
	colClient = iota
	colBillDateTime
	colProductName
	colPrice

	minFields
)

// =============================================================================
// LOADING
// =============================================================================

// Load reads the ledger file at path. A missing file yields an empty Store.
func Load(path string) (*ledger.Store, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	store, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return store, nil
}

// Read rebuilds a Store from ledger rows. For each row the client and the
// bill at that exact timestamp are fetched or created, then the product is
// inserted or overwritten.
func Read(r io.Reader) (*ledger.Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	store := ledger.New()

	for line := 1; scanner.Scan(); line++ {
		// Discard the header.
		if line == 1 {
			continue
		}

		record := splitRow(scanner.Text())
		if len(record) < minFields {
			continue
		}
		if err := applyRow(store, record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return store, nil
}

// applyRow inserts a single line item into the store.
func applyRow(store *ledger.Store, record []string) error {
	at, err := ledger.ParseTimestamp(record[colBillDateTime])
	if err != nil {
		return err
	}

	price, err := ledger.ParsePrice(record[colPrice])
	if err != nil {
		return err
	}

	client := store.GetOrCreateClient(record[colClient])
	bill, err := client.Bill(at)
	if err != nil {
		bill = client.AddBill(at)
	}

	_, err = bill.AddProduct(record[colProductName], price)
	return err
}

// maxLineSize bounds a single ledger line.
const maxLineSize = 1024 * 1024

// splitRow splits a line into at most four fields. The last field keeps any
// remaining commas.
func splitRow(line string) []string {
	fields := make([]string, 0, minFields)
	rest := line
	for len(fields) < minFields-1 {
		field, tail, found := cutField(rest)
		fields = append(fields, field)
		if !found {
			return fields
		}
		rest = tail
	}
	return append(fields, rest)
}

// cutField returns the first field of s and the text after its comma.
// found reports whether a comma followed the field.
func cutField(s string) (field, rest string, found bool) {
	if value, n, ok := unquote(s); ok {
		if n == len(s) {
			return value, "", false
		}
		return value, s[n+1:], true
	}
	return strings.Cut(s, ",")
}

// unquote decodes a leading "..." field with doubled inner quotes. It only
// succeeds when the closing quote ends the line or is followed by a comma;
// otherwise the field is plain text that happens to start with a quote. n is
// the number of bytes consumed.
func unquote(s string) (value string, n int, ok bool) {
	if !strings.HasPrefix(s, `"`) {
		return "", 0, false
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '"' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			b.WriteByte('"')
			i++
			continue
		}
		if i+1 == len(s) || s[i+1] == ',' {
			return b.String(), i + 1, true
		}
		return "", 0, false
	}
	return "", 0, false
}

// =============================================================================
// SAVING
// =============================================================================

// Save overwrites the ledger file at path with the contents of store. The
// file is replaced atomically; a failed save leaves the previous file intact.
func Save(path string, store *ledger.Store) error {
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Write(w, store)
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Write emits the header and one row per product, walking clients, bills and
// products in insertion order.
func Write(w io.Writer, store *ledger.Store) error {
	if err := writeRow(w, Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, client := range store.Clients() {
		for _, bill := range client.Bills() {
			stamp := ledger.FormatTimestamp(bill.At())
			for _, product := range bill.Products() {
				row := []string{
					client.Name(),
					stamp,
					product.Name,
					ledger.FormatPrice(product.Price),
				}
				if err := writeRow(w, row); err != nil {
					return fmt.Errorf("failed to write row: %w", err)
				}
			}
		}
	}

	return nil
}

func writeRow(w io.Writer, fields []string) error {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		if strings.ContainsAny(field, "\r\n") {
			return fmt.Errorf("%w: %q", ErrLineBreak, field)
		}
		escaped[i] = escapeField(field)
	}
	_, err := io.WriteString(w, strings.Join(escaped, ",")+"\n")
	return err
}

// escapeField quotes a field only when writing it verbatim would not read
// back as the same value.
func escapeField(field string) string {
	_, n, quotedForm := unquote(field)
	if !strings.Contains(field, ",") && !(quotedForm && n == len(field)) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

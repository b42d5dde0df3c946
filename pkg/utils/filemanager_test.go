package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "database.csv")

	t.Run("creates parent directory and file", func(t *testing.T) {
		err := WriteFileAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "first\n")
			return err
		})
		if err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(data) != "first\n" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("failed write leaves original untouched", func(t *testing.T) {
		boom := errors.New("boom")
		err := WriteFileAtomic(path, func(w io.Writer) error {
			io.WriteString(w, "partial")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected write error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(data) != "first\n" {
			t.Errorf("expected original content, got %q", data)
		}

		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatalf("failed to list directory: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected temporary file to be removed, found %d entries", len(entries))
		}
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if !FileExists(dir) {
		t.Error("expected temp dir to exist")
	}
	if FileExists(filepath.Join(dir, "missing.xlsx")) {
		t.Error("expected missing file to be reported absent")
	}
}

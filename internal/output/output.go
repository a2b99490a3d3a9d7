package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"esbd-engine/internal/domain"

	"github.com/gofrs/flock"
)

// PreviewCount is how many records Preview prints.
const PreviewCount = 5

// Encode renders records as an indented JSON array. Identical input gives
// identical bytes.
func Encode(records []domain.CanonicalRecord) ([]byte, error) {
	if records == nil {
		records = []domain.CanonicalRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON replaces path with the encoded records. A sibling .lock file
// keeps concurrent runs from interleaving.
func WriteJSON(path string, records []domain.CanonicalRecord) error {
	b, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Preview writes the first PreviewCount records to w.
func Preview(w io.Writer, records []domain.CanonicalRecord) error {
	if len(records) > PreviewCount {
		records = records[:PreviewCount]
	}
	b, err := Encode(records)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n=== PREVIEW (first %d records) ===\n", PreviewCount); err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

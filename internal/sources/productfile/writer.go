package productfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrReadOnly is returned when saving without a local file.
var ErrReadOnly = errors.New("products source is read-only")

// Writer replaces products.json atomically: the data lands in a temporary
// file of the same directory which is then renamed over the target.
type Writer struct {
	filePath string
}

func NewWriter(filePath string) *Writer {
	return &Writer{filePath: filePath}
}

// Save writes data to the products file.
func (w *Writer) Save(ctx context.Context, data []byte) error {
	if w == nil || w.filePath == "" {
		return ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.filePath)
	tmp, err := os.CreateTemp(dir, ".products-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write products: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync products: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod products: %w", err)
	}
	if err := os.Rename(tmpName, w.filePath); err != nil {
		return fmt.Errorf("failed to replace products file: %w", err)
	}
	return nil
}

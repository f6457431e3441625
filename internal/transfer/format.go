package transfer

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Format is an import file type.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Detect picks the format from the file extension, then from the content
// type.
func Detect(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/json", "text/json":
			return FormatJSON, nil
		case "text/csv", "application/csv":
			return FormatCSV, nil
		}
	}
	return "", ErrUnsupportedFormat
}

// ParseFormat accepts an explicit format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
	}
}

// Import decodes r with the reader for format.
func Import(format Format, r io.Reader) ([]domain.Product, error) {
	switch format {
	case FormatJSON:
		return ImportJSON(r)
	case FormatCSV:
		return ImportCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Receipt records a completed import.
type Receipt struct {
	ID         uuid.UUID `json:"id"`
	Format     Format    `json:"format"`
	Filename   string    `json:"filename,omitempty"`
	Count      int       `json:"count"`
	ImportedAt time.Time `json:"importedAt"`
}

func NewReceipt(format Format, filename string, count int) Receipt {
	return Receipt{
		ID:         uuid.New(),
		Format:     format,
		Filename:   filename,
		Count:      count,
		ImportedAt: time.Now(),
	}
}

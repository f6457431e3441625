package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

var (
	ErrNotArray          = domain.ErrNotArray
	ErrMalformed         = domain.ErrMalformed
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmpty             = errors.New("nothing to import")
)

// ImportJSON reads a JSON array of product objects. Ids and unknown fields
// are kept as given.
func ImportJSON(r io.Reader) ([]domain.Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	products, err := domain.ParseProducts(bytes.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("import json: %w", err)
	}
	return products, nil
}

// ExportJSON renders products as a JSON array indented with two spaces,
// fields in stored order, without a trailing newline.
func ExportJSON(products []domain.Product) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, p := range products {
		if i > 0 {
			compact.WriteByte(',')
		}
		raw, err := p.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("export product %d: %w", i, err)
		}
		compact.Write(raw)
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return out.Bytes(), nil
}

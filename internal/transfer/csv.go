package transfer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ImportCSV reads the spreadsheet dialect produced by hand-made exports:
// the first line names the fields, every following line is one product.
// Lines split on "\n" and cells on ",", with no quoting rules beyond
// stripping one surrounding double quote on each side and collapsing ""
// into ". A "price" column becomes a number (0 when unparsable) and an
// "id" column an integer (the 1-based row number when unparsable or 0).
// Every record starts with id set to its row number.
func ImportCSV(r io.Reader) ([]domain.Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, fmt.Errorf("import csv: %w", ErrEmpty)
	}

	lines := strings.Split(text, "\n")
	header := strings.Split(lines[0], ",")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	products := make([]domain.Product, 0, len(lines)-1)
	for i, line := range lines[1:] {
		position := i + 1
		cells := strings.Split(line, ",")

		p := domain.NewProduct()
		if err := p.Set("id", position); err != nil {
			return nil, fmt.Errorf("import csv row %d: %w", position, err)
		}
		for col, field := range header {
			var cell string
			if col < len(cells) {
				cell = cleanCell(cells[col])
			}
			if err := p.Set(field, coerce(field, cell, position)); err != nil {
				return nil, fmt.Errorf("import csv row %d: %w", position, err)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

func cleanCell(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, `"`)
	cell = strings.TrimSuffix(cell, `"`)
	return strings.ReplaceAll(cell, `""`, `"`)
}

func coerce(field, cell string, position int) any {
	switch strings.ToLower(field) {
	case "price":
		return leadingFloat(cell)
	case "id":
		if id := leadingInt(cell); id != 0 {
			return id
		}
		return position
	default:
		return cell
	}
}

// leadingFloat parses the longest numeric prefix of s, 0 when there is none.
func leadingFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func leadingInt(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return v
}

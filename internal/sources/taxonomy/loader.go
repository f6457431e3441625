package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Loader reads the category table. With no file configured the built-in
// table is used.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and validates the taxonomy file.
func (l *Loader) Load() (*domain.Taxonomy, error) {
	if l.filePath == "" {
		return domain.DefaultTaxonomy(), nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy yaml: %w", err)
	}

	return toTaxonomy(file)
}

func toTaxonomy(file File) (*domain.Taxonomy, error) {
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy defines no categories")
	}

	tax := &domain.Taxonomy{Categories: make([]domain.Category, 0, len(file.Categories))}
	seen := make(map[string]bool, len(file.Categories))
	for i, c := range file.Categories {
		key := strings.ToLower(strings.TrimSpace(c.Key))
		if key == "" {
			return nil, fmt.Errorf("category %d has no key", i)
		}
		if key == domain.CategoryAll {
			return nil, fmt.Errorf("category key %q is reserved", key)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate category %q", key)
		}
		seen[key] = true

		label := strings.TrimSpace(c.Label)
		if label == "" {
			label = key
		}
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		tax.Categories = append(tax.Categories, domain.Category{Key: key, Label: label, Keywords: keywords})
	}
	return tax, nil
}

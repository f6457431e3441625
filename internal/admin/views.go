package admin

import (
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

// NoSuppliers is shown for products without purchase links.
const NoSuppliers = "None"

// Row is one line of the admin products table.
type Row struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Suppliers   string `json:"suppliers"`
	Category    string `json:"category"`
	Image       string `json:"image,omitempty"` // empty means placeholder
}

// Rows renders products in order.
func Rows(products []domain.Product) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		row := Row{
			ID:          p.ID(),
			Name:        p.Name(),
			Description: p.Description(),
			Price:       utils.FormatGBP(p.Price()),
			Suppliers:   Suppliers(p),
			Category:    domain.CategoryLabel(p),
		}
		if p.HasRenderableImage() {
			row.Image = p.Image()
		}
		rows = append(rows, row)
	}
	return rows
}

// Suppliers lists a product's supplier labels: stored labels for
// structured links (blank ones are left out), derived names for plain
// URLs, NoSuppliers when there are none.
func Suppliers(p domain.Product) string {
	set := p.Links()
	names := make([]string, 0, len(set.Entries))
	for _, e := range set.Entries {
		switch {
		case set.Format == domain.LinksStructured:
			if e.Supplier != "" {
				names = append(names, e.Supplier)
			}
		case e.URL != "":
			names = append(names, domain.DeriveSupplierName(e.URL))
		}
	}
	if len(names) == 0 {
		return NoSuppliers
	}
	return strings.Join(names, ", ")
}

// ImagePreview is the editor's preview of an image field: the URL when it
// can be displayed, empty for the "No image" placeholder.
func ImagePreview(image string) string {
	image = strings.TrimSpace(image)
	if strings.HasPrefix(image, "http") {
		return image
	}
	return ""
}

package storefront

import (
	"fmt"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

const (
	NoProductsMessage = "No products found"
	NoLinksMessage    = "No affiliate links available."
	RedirectNote      = "You'll be redirected to the supplier's website to complete your purchase."
)

// Card is a product tile of the storefront grid.
type Card struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"` // empty means placeholder icon
}

// BuyLink is one purchase button of the detail view.
type BuyLink struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Supplier string `json:"supplier"`
}

// Detail is the product detail view.
type Detail struct {
	Card
	Links   []BuyLink `json:"links"`
	Message string    `json:"message,omitempty"`
	Note    string    `json:"note"`
}

// Grid is the rendered product list.
type Grid struct {
	Cards   []Card `json:"products"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

func CardOf(p domain.Product) Card {
	c := Card{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       utils.FormatGBP(p.Price()),
	}
	if p.HasRenderableImage() {
		c.Image = p.Image()
	}
	return c
}

// GridOf renders the visible products in order.
func GridOf(products []domain.Product) Grid {
	g := Grid{Cards: make([]Card, 0, len(products)), Count: len(products)}
	for _, p := range products {
		g.Cards = append(g.Cards, CardOf(p))
	}
	if g.Count == 0 {
		g.Message = NoProductsMessage
	}
	return g
}

// DetailOf renders the detail view with up to four numbered buy links.
func DetailOf(p domain.Product) Detail {
	d := Detail{Card: CardOf(p), Note: RedirectNote}
	for i, l := range domain.Normalize(p) {
		d.Links = append(d.Links, BuyLink{
			Label:    fmt.Sprintf("Buy Link %d", i+1),
			URL:      l.URL,
			Supplier: l.Supplier,
		})
	}
	if len(d.Links) == 0 {
		d.Links = []BuyLink{}
		d.Message = NoLinksMessage
	}
	return d
}

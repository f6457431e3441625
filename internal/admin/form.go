package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// ErrValidation is wrapped by FieldErrors.
var ErrValidation = errors.New("please fill in all required fields")

// FieldErrors maps form fields to what is wrong with them.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return ErrValidation.Error() + ": " + strings.Join(fields, ", ")
}

func (e FieldErrors) Unwrap() error { return ErrValidation }

// Amount is a form number. It accepts JSON numbers and strings alike.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Amount(cast.ToString(v))
	return nil
}

// Form is the product editor: the scalar fields plus four link/supplier
// slots.
type Form struct {
	Name        string                                `json:"name"`
	Description string                                `json:"description"`
	Price       Amount                                `json:"price"`
	Image       string                                `json:"image"`
	Category    string                                `json:"category"`
	Links       [domain.MaxLinks]domain.SupplierLink `json:"links"`
}

// FormFromProduct fills the editor from a stored product.
func FormFromProduct(p domain.Product) Form {
	f := Form{
		Name:        p.Name(),
		Description: p.Description(),
		Image:       p.Image(),
		Links:       domain.Slots(p),
	}
	if raw, ok := p.Raw("price"); ok && string(raw) != "null" {
		f.Price = Amount(strconv.FormatFloat(p.Price(), 'f', -1, 64))
	}
	if key, state := p.Category(); state == domain.CategorySet {
		f.Category = key
	}
	return f
}

// Validate checks the required fields, the price, the URLs and the
// category against tax.
func (f Form) Validate(tax *domain.Taxonomy) error {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "required"
	}
	if strings.TrimSpace(f.Description) == "" {
		errs["description"] = "required"
	}

	switch price := strings.TrimSpace(string(f.Price)); {
	case price == "":
		errs["price"] = "required"
	default:
		v, err := strconv.ParseFloat(price, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errs["price"] = "must be a number"
		} else if v < 0 {
			errs["price"] = "must not be negative"
		}
	}

	if img := strings.TrimSpace(f.Image); img != "" && !isAbsoluteURL(img) {
		errs["image"] = "must be an absolute URL"
	}
	for i, l := range f.Links {
		if u := strings.TrimSpace(l.URL); u != "" && !isAbsoluteURL(u) {
			errs["links."+strconv.Itoa(i)+".url"] = "must be an absolute URL"
		}
	}

	if c := strings.TrimSpace(f.Category); c != "" && !tax.Known(c) {
		errs["category"] = "unknown category"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Product builds the record stored for a submitted form: link holds the
// first slot's URL and links every non-empty slot, with the supplier
// derived from the URL when left blank. An empty category is stored as
// null. The form must have been validated.
func (f Form) Product() (domain.Product, error) {
	links := make([]domain.SupplierLink, 0, domain.MaxLinks)
	for _, slot := range f.Links {
		u := strings.TrimSpace(slot.URL)
		if u == "" {
			continue
		}
		supplier := strings.TrimSpace(slot.Supplier)
		if supplier == "" {
			supplier = domain.DeriveSupplierName(u)
		}
		links = append(links, domain.SupplierLink{URL: u, Supplier: supplier})
	}

	price, _ := strconv.ParseFloat(strings.TrimSpace(string(f.Price)), 64)

	var category any
	if c := strings.TrimSpace(f.Category); c != "" {
		category = c
	}

	p := domain.NewProduct()
	fields := []struct {
		key   string
		value any
	}{
		{"name", strings.TrimSpace(f.Name)},
		{"description", strings.TrimSpace(f.Description)},
		{"price", price},
		{"image", strings.TrimSpace(f.Image)},
		{"link", strings.TrimSpace(f.Links[0].URL)},
		{"links", links},
		{"category", category},
	}
	for _, field := range fields {
		if err := p.Set(field.key, field.value); err != nil {
			return domain.Product{}, fmt.Errorf("form field %s: %w", field.key, err)
		}
	}
	return p, nil
}

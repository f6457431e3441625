package domain

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxLinks is the number of purchase links a product exposes.
const MaxLinks = 4

// DefaultSupplier labels a link whose URL cannot be parsed.
const DefaultSupplier = "Supplier"

// LinkFormat identifies which historical shape a product's links use.
type LinkFormat int

const (
	LinksEmpty         LinkFormat = iota // no usable link data
	LinksSingleLegacy                    // "link": "https://..."
	LinksLegacyURLList                   // "links": ["https://...", ...]
	LinksStructured                      // "links": [{"url": ..., "supplier": ...}, ...]
)

func (f LinkFormat) String() string {
	switch f {
	case LinksSingleLegacy:
		return "single"
	case LinksLegacyURLList:
		return "url-list"
	case LinksStructured:
		return "structured"
	default:
		return "empty"
	}
}

// SupplierLink is one purchase URL with its supplier label.
type SupplierLink struct {
	URL      string `json:"url"`
	Supplier string `json:"supplier"`
}

// LinkSet is the resolved link data of a product. Entries keep the stored
// positions, including empty URLs; Supplier holds the stored label, which
// may be empty.
type LinkSet struct {
	Format  LinkFormat
	Entries []SupplierLink
}

// Links resolves the product's link fields, first match wins:
// structured list, plain URL list, single legacy link, nothing.
func (p Product) Links() LinkSet {
	links := p.get("links")
	if items := links.Array(); links.IsArray() && len(items) > 0 {
		switch first := items[0]; {
		case first.IsObject() && first.Get("url").Exists():
			return LinkSet{Format: LinksStructured, Entries: structuredEntries(items)}
		case first.Type == gjson.String:
			return LinkSet{Format: LinksLegacyURLList, Entries: urlListEntries(items)}
		}
	}
	if link := p.Link(); link != "" {
		return LinkSet{Format: LinksSingleLegacy, Entries: []SupplierLink{{URL: link}}}
	}
	return LinkSet{Format: LinksEmpty}
}

func structuredEntries(items []gjson.Result) []SupplierLink {
	entries := make([]SupplierLink, 0, len(items))
	for _, item := range items {
		switch {
		case item.IsObject():
			entries = append(entries, SupplierLink{
				URL:      stringOf(item.Get("url")),
				Supplier: stringOf(item.Get("supplier")),
			})
		default:
			entries = append(entries, SupplierLink{URL: stringOf(item)})
		}
	}
	return entries
}

func urlListEntries(items []gjson.Result) []SupplierLink {
	entries := make([]SupplierLink, 0, len(items))
	for _, item := range items {
		entries = append(entries, SupplierLink{URL: stringOf(item)})
	}
	return entries
}

func stringOf(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(r.Str)
}

// Normalize returns the product's purchase links in stored order: empty
// URLs are skipped, missing suppliers are derived from the URL host, and
// at most MaxLinks pairs are returned.
func Normalize(p Product) []SupplierLink {
	set := p.Links()
	out := make([]SupplierLink, 0, MaxLinks)
	for _, e := range set.Entries {
		if e.URL == "" {
			continue
		}
		supplier := e.Supplier
		if supplier == "" {
			supplier = DeriveSupplierName(e.URL)
		}
		out = append(out, SupplierLink{URL: e.URL, Supplier: supplier})
		if len(out) == MaxLinks {
			break
		}
	}
	return out
}

// EffectiveURLs is Normalize without the supplier labels.
func EffectiveURLs(p Product) []string {
	links := Normalize(p)
	urls := make([]string, 0, len(links))
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	return urls
}

// Slots lays the stored links out over the four edit-form slots. Plain
// URLs get a derived supplier, structured entries keep the stored one.
func Slots(p Product) [MaxLinks]SupplierLink {
	var slots [MaxLinks]SupplierLink
	set := p.Links()
	for i, e := range set.Entries {
		if i == MaxLinks {
			break
		}
		slots[i] = e
		if set.Format != LinksStructured && e.URL != "" {
			slots[i].Supplier = DeriveSupplierName(e.URL)
		}
	}
	return slots
}

// DeriveSupplierName turns a URL into a short supplier label: the host with
// one leading "www." removed, cut at the first dot.
//
//	https://www.acme-widgets.com/p/1 -> acme-widgets
//
// Anything that is not an absolute URL with a host yields DefaultSupplier.
func DeriveSupplierName(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return DefaultSupplier
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexByte(host, '.'); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return DefaultSupplier
	}
	return host
}

package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestDeriveSupplierName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.acme-widgets.com/p/1", "acme-widgets"},
		{"https://shop.example.co.uk/item", "shop"},
		{"http://WWW.Amazon.co.uk/dp/B00", "amazon"},
		{"https://localhost:8080/x", "localhost"},
		{"not a url", DefaultSupplier},
		{"", DefaultSupplier},
		{"/relative/path", DefaultSupplier},
		{"https://", DefaultSupplier},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := DeriveSupplierName(tt.url); got != tt.want {
				t.Errorf("DeriveSupplierName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestLinksFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LinkFormat
	}{
		{"structured", `{"links":[{"url":"https://a.com","supplier":"A"}]}`, LinksStructured},
		{"url list", `{"links":["https://a.com","https://b.com"]}`, LinksLegacyURLList},
		{"single legacy", `{"link":"https://a.com"}`, LinksSingleLegacy},
		{"empty links falls back to link", `{"links":[],"link":"https://a.com"}`, LinksSingleLegacy},
		{"structured wins over link", `{"link":"https://x.com","links":[{"url":"https://a.com"}]}`, LinksStructured},
		{"nothing", `{"name":"x"}`, LinksEmpty},
		{"empty link", `{"link":""}`, LinksEmpty},
		{"object without url", `{"links":[{"supplier":"A"}]}`, LinksEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustProduct(t, tt.raw).Links().Format; got != tt.want {
				t.Errorf("Links().Format = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []SupplierLink
	}{
		{
			name: "structured with and without supplier",
			raw:  `{"links":[{"url":"https://www.acme.com/1","supplier":"Acme Ltd"},{"url":"https://shop.example.com/2"}]}`,
			want: []SupplierLink{
				{URL: "https://www.acme.com/1", Supplier: "Acme Ltd"},
				{URL: "https://shop.example.com/2", Supplier: "shop"},
			},
		},
		{
			name: "legacy url list skips empty entries",
			raw:  `{"links":["https://www.a.com","","https://b.org"]}`,
			want: []SupplierLink{
				{URL: "https://www.a.com", Supplier: "a"},
				{URL: "https://b.org", Supplier: "b"},
			},
		},
		{
			name: "single legacy link",
			raw:  `{"link":"https://www.acme-widgets.com/p/1"}`,
			want: []SupplierLink{{URL: "https://www.acme-widgets.com/p/1", Supplier: "acme-widgets"}},
		},
		{
			name: "caps at four",
			raw:  `{"links":["https://a.com","https://b.com","https://c.com","https://d.com","https://e.com"]}`,
			want: []SupplierLink{
				{URL: "https://a.com", Supplier: "a"},
				{URL: "https://b.com", Supplier: "b"},
				{URL: "https://c.com", Supplier: "c"},
				{URL: "https://d.com", Supplier: "d"},
			},
		},
		{
			name: "none",
			raw:  `{"name":"x"}`,
			want: []SupplierLink{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(mustProduct(t, tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeInvariants(t *testing.T) {
	raws := []string{
		`{"links":[{"url":""},{"url":"https://a.com"},{"url":"  "},{"url":"https://b.com"},{"url":"https://c.com"},{"url":"https://d.com"},{"url":"https://e.com"}]}`,
		`{"links":["","","",""],"link":"https://x.com"}`,
		`{"links":[{"url":"https://a.com","supplier":""}]}`,
	}
	for _, raw := range raws {
		links := Normalize(mustProduct(t, raw))
		if len(links) > MaxLinks {
			t.Errorf("Normalize(%s) returned %d links", raw, len(links))
		}
		for _, l := range links {
			if strings.TrimSpace(l.URL) == "" || l.Supplier == "" {
				t.Errorf("Normalize(%s) produced incomplete link %+v", raw, l)
			}
		}
	}
}

func TestEffectiveURLs(t *testing.T) {
	p := mustProduct(t, `{"links":[{"url":"https://a.com"},{"url":""},{"url":"https://b.com"}]}`)
	got := EffectiveURLs(p)
	want := []string{"https://a.com", "https://b.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EffectiveURLs() = %v, want %v", got, want)
	}
}

func TestSlots(t *testing.T) {
	structured := Slots(mustProduct(t, `{"links":[{"url":"https://a.com","supplier":"A"},{"url":"https://b.com"}]}`))
	if structured[0] != (SupplierLink{URL: "https://a.com", Supplier: "A"}) {
		t.Errorf("slot 0 = %+v", structured[0])
	}
	if structured[1] != (SupplierLink{URL: "https://b.com"}) {
		t.Errorf("structured slot 1 should keep empty supplier, got %+v", structured[1])
	}
	if structured[2] != (SupplierLink{}) || structured[3] != (SupplierLink{}) {
		t.Errorf("unused slots should be empty: %+v", structured)
	}

	legacy := Slots(mustProduct(t, `{"link":"https://www.acme.com"}`))
	if legacy[0] != (SupplierLink{URL: "https://www.acme.com", Supplier: "acme"}) {
		t.Errorf("legacy slot 0 = %+v", legacy[0])
	}
}

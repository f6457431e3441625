package domain

import (
	"errors"
	"testing"
)

func mustProduct(t *testing.T, raw string) Product {
	t.Helper()
	p, err := ParseProduct([]byte(raw))
	if err != nil {
		t.Fatalf("ParseProduct(%s) error = %v", raw, err)
	}
	return p
}

func TestParseProductKeepsFieldOrder(t *testing.T) {
	raw := `{"zeta":1,"id":7,"name":"Lamp","custom":{"a":[1,2]},"price":"12.50"}`
	p := mustProduct(t, raw)

	want := []string{"zeta", "id", "name", "custom", "price"}
	got := p.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	out, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(out) != raw {
		t.Errorf("MarshalJSON() = %s, want %s", out, raw)
	}
}

func TestParseProductErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"malformed", `{"id":`, ErrMalformed},
		{"array", `[{"id":1}]`, ErrNotObject},
		{"string", `"hello"`, ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProduct([]byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseProduct() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseProducts(t *testing.T) {
	products, err := ParseProducts([]byte(`[{"id":1},{"id":2,"name":"B"}]`))
	if err != nil {
		t.Fatalf("ParseProducts() error = %v", err)
	}
	if len(products) != 2 || products[1].Name() != "B" {
		t.Fatalf("ParseProducts() = %+v", products)
	}

	if _, err := ParseProducts([]byte(`{"id":1}`)); !errors.Is(err, ErrNotArray) {
		t.Errorf("object root error = %v, want ErrNotArray", err)
	}
	if _, err := ParseProducts([]byte(`[1,2]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("number elements error = %v, want ErrNotObject", err)
	}
	if _, err := ParseProducts([]byte(`[`)); !errors.Is(err, ErrMalformed) {
		t.Errorf("truncated error = %v, want ErrMalformed", err)
	}

	empty, err := ParseProducts([]byte(`[]`))
	if err != nil || len(empty) != 0 {
		t.Errorf("ParseProducts([]) = %v, %v", empty, err)
	}
}

func TestAccessors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantID    int
		wantName  string
		wantPrice float64
	}{
		{"numbers", `{"id":3,"name":"Desk","price":49.99}`, 3, "Desk", 49.99},
		{"string id and price", `{"id":"12","name":"Mug","price":"4.5"}`, 12, "Mug", 4.5},
		{"unparsable price", `{"id":1,"price":"abc"}`, 1, "", 0},
		{"negative price", `{"id":1,"price":-3}`, 1, "", 0},
		{"null price", `{"id":1,"price":null}`, 1, "", 0},
		{"absent fields", `{}`, 0, "", 0},
		{"numeric name", `{"name":2024}`, 0, "2024", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustProduct(t, tt.raw)
			if got := p.ID(); got != tt.wantID {
				t.Errorf("ID() = %d, want %d", got, tt.wantID)
			}
			if got := p.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := p.Price(); got != tt.wantPrice {
				t.Errorf("Price() = %v, want %v", got, tt.wantPrice)
			}
		})
	}
}

func TestCategoryState(t *testing.T) {
	tests := []struct {
		raw       string
		wantKey   string
		wantState CategoryState
	}{
		{`{"name":"x"}`, "", CategoryAbsent},
		{`{"category":null}`, "", CategoryUnset},
		{`{"category":""}`, "", CategoryUnset},
		{`{"category":"tech"}`, "tech", CategorySet},
	}

	for _, tt := range tests {
		key, state := mustProduct(t, tt.raw).Category()
		if key != tt.wantKey || state != tt.wantState {
			t.Errorf("Category(%s) = (%q, %v), want (%q, %v)", tt.raw, key, state, tt.wantKey, tt.wantState)
		}
	}
}

func TestHasRenderableImage(t *testing.T) {
	tests := map[string]bool{
		`{"image":"https://cdn.example.com/a.png"}`: true,
		`{"image":"http://cdn.example.com/a.png"}`:  true,
		`{"image":"/static/a.png"}`:                 false,
		`{"image":""}`:                              false,
		`{}`:                                        false,
	}
	for raw, want := range tests {
		if got := mustProduct(t, raw).HasRenderableImage(); got != want {
			t.Errorf("HasRenderableImage(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestMergeAndWithID(t *testing.T) {
	base := mustProduct(t, `{"id":4,"name":"Old","extra":true}`)
	patch := NewProduct()
	_ = patch.Set("name", "New")
	_ = patch.Set("category", nil)

	merged := base.Merge(patch)
	out, _ := merged.MarshalJSON()
	if want := `{"id":4,"name":"New","extra":true,"category":null}`; string(out) != want {
		t.Errorf("Merge() = %s, want %s", out, want)
	}

	// base is untouched
	if base.Name() != "Old" || base.Has("category") {
		t.Errorf("Merge() mutated its receiver: %+v", base)
	}

	withID := patch.WithID(9)
	out, _ = withID.MarshalJSON()
	if want := `{"id":9,"name":"New","category":null}`; string(out) != want {
		t.Errorf("WithID() = %s, want %s", out, want)
	}
}

func TestSetDoesNotEscapeHTML(t *testing.T) {
	p := NewProduct()
	if err := p.Set("name", "Salt & Pepper <set>"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	out, _ := p.MarshalJSON()
	if want := `{"name":"Salt & Pepper <set>"}`; string(out) != want {
		t.Errorf("MarshalJSON() = %s, want %s", out, want)
	}
}

func TestDelete(t *testing.T) {
	p := mustProduct(t, `{"a":1,"b":2,"c":3}`)
	p.Delete("b")
	p.Delete("missing")
	out, _ := p.MarshalJSON()
	if want := `{"a":1,"c":3}`; string(out) != want {
		t.Errorf("after Delete() = %s, want %s", out, want)
	}
}

package transfer

import (
	"errors"
	"strings"
	"testing"
)

func TestImportCSV(t *testing.T) {
	products, err := ImportCSV(strings.NewReader("name,price,id\nWidget,9.99,5\nGadget,abc,"))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	got, _ := ExportJSON(products)
	want := `[
  {
    "id": 5,
    "name": "Widget",
    "price": 9.99
  },
  {
    "id": 2,
    "name": "Gadget",
    "price": 0
  }
]`
	if string(got) != want {
		t.Errorf("ImportCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestImportCSVCells(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantPrice float64
		wantID    int
	}{
		{"quoted cell", "name,price\n\"Big \"\"Red\"\" Lamp\",12", `Big "Red" Lamp`, 12, 1},
		{"padded cells", "  name , price \n  Mug  ,  4.50  ", "Mug", 4.5, 1},
		{"price prefix", "name,price\nMug,3.5GBP", "Mug", 3.5, 1},
		{"id prefix", "id,name\n12abc,Mug", "Mug", 12, 1},
		{"zero id uses position", "id,name\n0,Mug", "Mug", 0, 1},
		{"short row", "name,price,description\nMug", "Mug", 0, 1},
		{"windows line endings", "name,price\r\nMug,2\r\n", "Mug", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := ImportCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ImportCSV() error = %v", err)
			}
			if len(products) != 1 {
				t.Fatalf("ImportCSV() returned %d products, want 1", len(products))
			}
			p := products[0]
			if p.Name() != tt.wantName {
				t.Errorf("name = %q, want %q", p.Name(), tt.wantName)
			}
			if p.Price() != tt.wantPrice {
				t.Errorf("price = %v, want %v", p.Price(), tt.wantPrice)
			}
			wantID := tt.wantID
			if wantID == 0 {
				wantID = 1
			}
			if p.ID() != wantID {
				t.Errorf("id = %d, want %d", p.ID(), wantID)
			}
		})
	}
}

func TestImportCSVHeaderOnlyAndEmpty(t *testing.T) {
	products, err := ImportCSV(strings.NewReader("name,price\n"))
	if err != nil || len(products) != 0 {
		t.Errorf("header only = %v, %v; want empty list", products, err)
	}

	if _, err := ImportCSV(strings.NewReader("  \n ")); !errors.Is(err, ErrEmpty) {
		t.Errorf("blank input error = %v, want ErrEmpty", err)
	}
}

func TestImportJSON(t *testing.T) {
	products, err := ImportJSON(strings.NewReader(`  [{"id":7,"name":"A","custom":1}]  `))
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if products[0].ID() != 7 || !products[0].Has("custom") {
		t.Errorf("ImportJSON() lost fields: %v", products[0].Keys())
	}

	if _, err := ImportJSON(strings.NewReader(`{"id":1}`)); !errors.Is(err, ErrNotArray) {
		t.Errorf("object root error = %v, want ErrNotArray", err)
	}
	if _, err := ImportJSON(strings.NewReader(`[{"id":1},`)); !errors.Is(err, ErrMalformed) {
		t.Errorf("truncated error = %v, want ErrMalformed", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := `[
  {
    "id": 1,
    "name": "Lamp",
    "price": 19.5,
    "links": [
      {
        "url": "https://www.acme.com/lamp",
        "supplier": "Acme"
      }
    ],
    "category": null,
    "x-extra": {
      "nested": [
        1,
        2
      ]
    }
  },
  {
    "link": "https://shop.example.com",
    "id": 2
  }
]`
	products, err := ImportJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	out, err := ExportJSON(products)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if string(out) != src {
		t.Errorf("round trip changed the document:\n%s", out)
	}
}

func TestExportJSONEmpty(t *testing.T) {
	out, err := ExportJSON(nil)
	if err != nil || string(out) != "[]" {
		t.Errorf("ExportJSON(nil) = %q, %v", out, err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        Format
		wantErr     bool
	}{
		{"products.json", "", FormatJSON, false},
		{"PRODUCTS.CSV", "", FormatCSV, false},
		{"upload", "application/json; charset=utf-8", FormatJSON, false},
		{"upload", "text/csv", FormatCSV, false},
		{"products.xlsx", "application/octet-stream", "", true},
	}

	for _, tt := range tests {
		got, err := Detect(tt.filename, tt.contentType)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Detect(%q, %q) = %q, %v", tt.filename, tt.contentType, got, err)
		}
		if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Detect() error = %v, want ErrUnsupportedFormat", err)
		}
	}
}

func TestImportDispatchAndReceipt(t *testing.T) {
	products, err := Import(FormatCSV, strings.NewReader("name\nA\nB"))
	if err != nil || len(products) != 2 {
		t.Fatalf("Import(csv) = %d, %v", len(products), err)
	}
	if _, err := Import(Format("xml"), strings.NewReader("")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Import(xml) error = %v", err)
	}

	r := NewReceipt(FormatCSV, "a.csv", len(products))
	if r.ID.String() == "" || r.Count != 2 || r.ImportedAt.IsZero() {
		t.Errorf("NewReceipt() = %+v", r)
	}
}

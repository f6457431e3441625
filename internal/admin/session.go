package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/transfer"
)

var ErrNothingToExport = errors.New("no products to export")

// Saver persists an exported catalog.
type Saver interface {
	Save(ctx context.Context, data []byte) error
}

type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
	NoticeInfo    NoticeType = "info"
)

// Notice is the one-line message shown after a command.
type Notice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}

func success(msg string) Notice { return Notice{Type: NoticeSuccess, Message: msg} }
func failure(msg string) Notice { return Notice{Type: NoticeError, Message: msg} }
func info(msg string) Notice    { return Notice{Type: NoticeInfo, Message: msg} }

// ─────────────────────────────
// Commands
// ─────────────────────────────

// Command is one editor action. Dispatch maps each onto a store or filter
// operation.
type Command interface {
	commandName() string
}

// Submit stores the form: it updates ID when set, else the product being
// edited, else adds a new product.
type Submit struct {
	Form Form
	ID   *int
}

// BeginEdit loads a product into the editor.
type BeginEdit struct{ ID int }

// NewProduct clears the editor for a new product.
type NewProduct struct{}

// CancelEdit leaves edit mode.
type CancelEdit struct{}

type Delete struct{ ID int }

// Import replaces the whole catalog with the decoded file.
type Import struct {
	Format   transfer.Format
	Filename string
	Body     io.Reader
}

// Export renders the catalog as products.json.
type Export struct{}

// Save writes the catalog back to products.json when it has unsaved changes.
type Save struct{}

// FilterChange recomputes the table for a category and search text.
type FilterChange struct {
	Category string
	Query    string
}

func (Submit) commandName() string       { return "submit" }
func (BeginEdit) commandName() string    { return "edit" }
func (NewProduct) commandName() string   { return "new" }
func (CancelEdit) commandName() string   { return "cancel" }
func (Delete) commandName() string       { return "delete" }
func (Import) commandName() string       { return "import" }
func (Export) commandName() string       { return "export" }
func (Save) commandName() string         { return "save" }
func (FilterChange) commandName() string { return "filter" }

// CommandName identifies a command in logs and metrics.
func CommandName(c Command) string { return c.commandName() }

// Result is what a command produced; the HTTP layer renders it.
type Result struct {
	Notice  Notice            `json:"notice"`
	Product *domain.Product   `json:"product,omitempty"`
	Form    *Form             `json:"form,omitempty"`
	Rows    []Row             `json:"rows,omitempty"`
	Receipt *transfer.Receipt `json:"receipt,omitempty"`
	Created bool              `json:"created,omitempty"`
	Export  []byte            `json:"-"`
}

// State is the editor state outside the catalog itself.
type State struct {
	EditingID  *int              `json:"editingId"`
	Dirty      bool              `json:"unsavedChanges"`
	Count      int               `json:"totalProducts"`
	LastImport *transfer.Receipt `json:"lastImport,omitempty"`
}

// Session is the admin editor over its own working copy of the catalog.
// Commands are serialized.
type Session struct {
	mu       sync.Mutex
	store    *catalog.Store
	taxonomy *domain.Taxonomy
	saver    Saver
	onSaved  func()

	editingID  *int
	dirty      bool
	lastImport *transfer.Receipt
}

// NewSession creates an editor over store. onSaved, when set, runs after
// each successful save.
func NewSession(store *catalog.Store, tax *domain.Taxonomy, saver Saver, onSaved func()) *Session {
	return &Session{
		store:    store,
		taxonomy: tax,
		saver:    saver,
		onSaved:  onSaved,
	}
}

func (s *Session) Store() *catalog.Store { return s.store }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Dirty: s.dirty, Count: s.store.Count(), LastImport: s.lastImport}
	if s.editingID != nil {
		id := *s.editingID
		st.EditingID = &id
	}
	return st
}

func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editingID != nil
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

// Dispatch runs cmd. On failure the returned Result still carries the
// error notice to show.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Submit:
		return s.submit(c)
	case BeginEdit:
		return s.beginEdit(c.ID)
	case NewProduct:
		s.resetEditor()
		return Result{Notice: info("Add New Product")}, nil
	case CancelEdit:
		s.resetEditor()
		return Result{Notice: info("Edit cancelled")}, nil
	case Delete:
		return s.delete(c.ID)
	case Import:
		return s.importFile(c)
	case Export:
		data, err := s.export()
		if err != nil {
			return Result{Notice: failure("No products to export")}, err
		}
		return Result{Notice: success("Products exported successfully!"), Export: data}, nil
	case Save:
		return s.save(ctx)
	case FilterChange:
		rows := Rows(domain.AdminFilter(s.store.All(), c.Category, c.Query))
		return Result{Notice: info(fmt.Sprintf("%d products", len(rows))), Rows: rows}, nil
	default:
		return Result{Notice: failure("Unknown command")}, fmt.Errorf("unknown command %T", cmd)
	}
}

func (s *Session) resetEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editingID = nil
}

func (s *Session) submit(c Submit) (Result, error) {
	if err := c.Form.Validate(s.taxonomy); err != nil {
		return Result{Notice: failure("Please fill in all required fields")}, err
	}
	data, err := c.Form.Product()
	if err != nil {
		return Result{Notice: failure("Please fill in all required fields")}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.editingID
	if c.ID != nil {
		target = c.ID
	}
	p, created := s.store.Upsert(data, target)
	s.editingID = nil
	s.dirty = true

	msg := "Product updated successfully!"
	if created {
		msg = "Product added successfully!"
	}
	return Result{Notice: success(msg), Product: &p, Created: created}, nil
}

func (s *Session) beginEdit(id int) (Result, error) {
	p, err := s.store.Get(id)
	if err != nil {
		return Result{Notice: failure("Product not found")}, err
	}

	s.mu.Lock()
	s.editingID = &id
	s.mu.Unlock()

	form := FormFromProduct(p)
	return Result{Notice: info("Edit Product"), Product: &p, Form: &form}, nil
}

func (s *Session) delete(id int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Remove(id) {
		return Result{Notice: failure("Product not found")}, catalog.ErrNotFound
	}
	if s.editingID != nil && *s.editingID == id {
		s.editingID = nil
	}
	s.dirty = true
	return Result{Notice: success("Product deleted successfully!")}, nil
}

func (s *Session) importFile(c Import) (Result, error) {
	products, err := transfer.Import(c.Format, c.Body)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrUnsupportedFormat):
			return Result{Notice: failure("Unsupported file type")}, err
		case errors.Is(err, transfer.ErrNotArray):
			return Result{Notice: failure("Invalid JSON format")}, err
		default:
			return Result{Notice: failure("Error parsing file")}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Load(products)
	s.editingID = nil
	s.dirty = true
	receipt := transfer.NewReceipt(c.Format, c.Filename, len(products))
	s.lastImport = &receipt

	msg := "JSON imported successfully!"
	if c.Format == transfer.FormatCSV {
		msg = "CSV imported successfully!"
	}
	return Result{Notice: success(msg), Receipt: &receipt}, nil
}

func (s *Session) export() ([]byte, error) {
	products := s.store.All()
	if len(products) == 0 {
		return nil, ErrNothingToExport
	}
	return transfer.ExportJSON(products)
}

func (s *Session) save(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return Result{Notice: info("No changes to save")}, nil
	}

	data, err := s.export()
	if err != nil {
		return Result{Notice: failure("No products to export")}, err
	}
	if s.saver == nil {
		return Result{Notice: failure("Saving is not configured")}, errors.New("no saver configured")
	}
	if err := s.saver.Save(ctx, data); err != nil {
		return Result{Notice: failure("Failed to save changes")}, err
	}

	s.dirty = false
	if s.onSaved != nil {
		s.onSaved()
	}
	return Result{Notice: success("Changes saved!"), Export: data}, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/sources/productfile"
	"github.com/MrSnakeDoc/shelf/internal/transfer"
)

// commandResponse is the body of every admin command: the notice to
// show, what the command produced and the editor state afterwards.
type commandResponse struct {
	admin.Result
	Errors admin.FieldErrors `json:"errors,omitempty"`
	State  admin.State       `json:"state"`
}

func dispatch(d deps.Deps, r *http.Request, cmd admin.Command) (admin.Result, error) {
	res, err := d.Admin.Dispatch(r.Context(), cmd)
	name := admin.CommandName(cmd)
	d.Metrics.ObserveCommand(name, err)
	d.Metrics.ObserveCatalogSize(metrics.SurfaceAdmin, d.Admin.Store().Count())
	if err != nil {
		d.Logger.Debug("admin command failed",
			logger.String("command", name),
			logger.Error(err))
	}
	return res, err
}

func commandStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, admin.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, transfer.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, transfer.ErrNotArray),
		errors.Is(err, transfer.ErrMalformed),
		errors.Is(err, domain.ErrNotObject),
		errors.Is(err, transfer.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrNothingToExport),
		errors.Is(err, productfile.ErrReadOnly):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeCommand(d deps.Deps, w http.ResponseWriter, res admin.Result, err error, okStatus int) {
	status := okStatus
	if err != nil {
		status = commandStatus(err)
	}
	if status == http.StatusRequestEntityTooLarge {
		res.Notice = admin.Notice{Type: admin.NoticeError, Message: "File too large"}
	}

	body := commandResponse{Result: res, State: d.Admin.State()}
	var fields admin.FieldErrors
	if errors.As(err, &fields) {
		body.Errors = fields
	}
	writeJSON(d, w, status, body)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(v)
}

// ─────────────────────────────
// Products
// ─────────────────────────────

// AdminProducts renders the products table, filtered by "category" and
// "q".
func AdminProducts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res, err := dispatch(d, r, admin.FilterChange{Category: q.Get("category"), Query: q.Get("q")})
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

// AdminEdit loads a product into the editor.
func AdminEdit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(d, w, "Invalid product id")
			return
		}
		res, err := dispatch(d, r, admin.BeginEdit{ID: id})
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

// AdminSubmit stores the posted form. Without an {id} in the path it
// behaves like the editor's submit button: it updates the product being
// edited, or adds a new one.
func AdminSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form admin.Form
		if err := decodeBody(r, &form); err != nil {
			badRequest(d, w, "Invalid JSON format")
			return
		}

		cmd := admin.Submit{Form: form}
		if hasPathID(r) {
			id, ok := pathID(r)
			if !ok {
				badRequest(d, w, "Invalid product id")
				return
			}
			cmd.ID = &id
		}

		res, err := dispatch(d, r, cmd)
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeCommand(d, w, res, err, status)
	}
}

func AdminDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(d, w, "Invalid product id")
			return
		}
		res, err := dispatch(d, r, admin.Delete{ID: id})
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

// ─────────────────────────────
// Editor state
// ─────────────────────────────

func AdminNew(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := dispatch(d, r, admin.NewProduct{})
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

func AdminCancel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := dispatch(d, r, admin.CancelEdit{})
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

// AdminShortcut runs the command bound to a key event. Keys without a
// binding answer 204.
func AdminShortcut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev admin.KeyEvent
		if err := decodeBody(r, &ev); err != nil {
			badRequest(d, w, "Invalid JSON format")
			return
		}

		res, ok, err := d.Admin.Shortcut(r.Context(), ev)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

func AdminSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(d, w, http.StatusOK, d.Admin.State())
	}
}

type statsResponse struct {
	catalog.Summary
	Views map[int]int64 `json:"views,omitempty"`
}

// AdminStats summarizes the working copy, with storefront view counts
// when redis is available.
func AdminStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statsResponse{Summary: d.Admin.Store().Summary()}
		if d.Cache != nil {
			views, err := d.Cache.ViewStats(r.Context())
			if err != nil {
				d.Logger.Warn("failed to read view stats", logger.Error(err))
			} else {
				resp.Views = views
			}
		}
		writeJSON(d, w, http.StatusOK, resp)
	}
}

// ─────────────────────────────
// Import / export / save
// ─────────────────────────────

// AdminImport replaces the working copy with an uploaded file: either a
// multipart "file" field or the raw request body. The format comes from
// ?format=, else the file extension, else the content type.
func AdminImport(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.MaxImportBytes)

		cmd, closeFn, err := importCommand(r)
		if err != nil {
			d.Metrics.ObserveImport(formatLabel(cmd.Format), metrics.Outcome(err))
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeCommand(d, w, admin.Result{}, err, http.StatusOK)
				return
			}
			badRequest(d, w, "Error parsing file")
			return
		}
		defer closeFn()

		res, err := dispatch(d, r, cmd)
		d.Metrics.ObserveImport(formatLabel(cmd.Format), metrics.Outcome(err))
		if err == nil {
			d.Logger.Info("catalog imported",
				logger.String("format", string(cmd.Format)),
				logger.String("filename", cmd.Filename),
				logger.Int("count", res.Receipt.Count))
		}
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

func importCommand(r *http.Request) (admin.Import, func(), error) {
	cmd := admin.Import{Body: r.Body}
	closeFn := func() {}
	contentType := r.Header.Get("Content-Type")

	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return cmd, closeFn, err
		}
		cmd.Body = file
		cmd.Filename = header.Filename
		contentType = header.Header.Get("Content-Type")
		closeFn = func() { _ = file.Close() }
	} else {
		cmd.Filename = r.URL.Query().Get("filename")
	}

	// An undetectable format is left empty and reported by the import itself.
	if name := r.URL.Query().Get("format"); name != "" {
		cmd.Format, _ = transfer.ParseFormat(name)
	} else {
		cmd.Format, _ = transfer.Detect(cmd.Filename, contentType)
	}
	return cmd, closeFn, nil
}

func formatLabel(f transfer.Format) string {
	if f == "" {
		return "unknown"
	}
	return string(f)
}

// AdminExport downloads the working copy as products.json.
func AdminExport(d deps.Deps) http.HandlerFunc {
	return exportHandler(d, "application/json", true)
}

// AdminExportText returns the same JSON as plain text, for copying.
func AdminExportText(d deps.Deps) http.HandlerFunc {
	return exportHandler(d, "text/plain; charset=utf-8", false)
}

func exportHandler(d deps.Deps, contentType string, attachment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := dispatch(d, r, admin.Export{})
		if err != nil {
			writeCommand(d, w, res, err, http.StatusOK)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if attachment {
			w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
		}
		if _, err := w.Write(res.Export); err != nil {
			d.Logger.Debug("failed to write export", logger.Error(err))
		}
	}
}

// AdminSave writes the working copy to products.json, which in turn
// schedules a storefront reload.
func AdminSave(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := dispatch(d, r, admin.Save{})
		if err != nil && commandStatus(err) == http.StatusInternalServerError {
			d.Logger.Error("failed to save catalog", logger.Error(err))
		}
		writeCommand(d, w, res, err, http.StatusOK)
	}
}

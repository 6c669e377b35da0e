package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/nevindra/locality"
)

// Applier is the settings side of the panel. *locality.Manager satisfies it.
type Applier interface {
	Snapshot() locality.Settings
	Apply(ctx context.Context, change locality.SettingChanged) (locality.Settings, error)
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets a structured logger for the handler.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// Handler serves the panel:
//
//	GET  /settings       HTML form
//	GET  /settings.json  panel description with current values
//	POST /settings       apply one change (form or JSON body)
type Handler struct {
	settings Applier
	logger   *slog.Logger
	mux      *http.ServeMux
}

const maxChangeBody = 64 << 10 // 64KB

// NewHandler creates a Handler backed by settings.
func NewHandler(settings Applier, opts ...HandlerOption) *Handler {
	h := &Handler{settings: settings, logger: slog.New(discardHandler{})}
	for _, o := range opts {
		o(h)
	}
	h.mux = http.NewServeMux()
	h.mux.HandleFunc("GET /settings", h.handlePage)
	h.mux.HandleFunc("GET /settings.json", h.handleDescribe)
	h.mux.HandleFunc("POST /settings", h.handleChange)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Panel
		Help template.HTML
	}{Describe(h.settings.Snapshot()), helpHTML()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("panel: render failed", "error", err)
	}
}

func (h *Handler) handleDescribe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Describe(h.settings.Snapshot()))
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	isJSON := false
	if ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && ct == "application/json" {
		isJSON = true
	}

	change, err := readChange(r, isJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s, ok := change.Value.(string); ok && !Allowed(change.Key, s) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("value %q not allowed for %s", s, change.Key))
		return
	}

	settings, err := h.settings.Apply(r.Context(), change)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, locality.ErrInvalidSetting) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	if !isJSON {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// readChange parses a SettingChanged from a JSON body or form values.
// Forms post a hidden "false" before a checkbox's "true", so the last
// value wins.
func readChange(r *http.Request, isJSON bool) (locality.SettingChanged, error) {
	var change locality.SettingChanged
	if isJSON {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxChangeBody))
		if err != nil {
			return change, errors.New("failed to read request body")
		}
		if err := json.Unmarshal(body, &change); err != nil {
			return change, errors.New("invalid JSON: " + err.Error())
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return change, errors.New("invalid form: " + err.Error())
		}
		change.Key = r.PostForm.Get("key")
		values := r.PostForm["value"]
		if len(values) == 0 {
			return change, errors.New("value is required")
		}
		change.Value = values[len(values)-1]
	}
	if change.Key == "" {
		return change, errors.New("key is required")
	}
	if change.ID == "" {
		change.ID = locality.NewID()
	}
	return change, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var pageTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<details{{if .Open}} open{{end}}>
<summary>{{.Title}}</summary>
<div class="help">{{.Help}}</div>
{{range .Widgets}}
<form method="post" action="/settings">
<input type="hidden" name="key" value="{{.Key}}">
{{if eq .Kind "checkbox"}}
<input type="hidden" name="value" value="false">
<label><input type="checkbox" name="value" value="true"{{if .Checked}} checked{{end}} onchange="this.form.submit()"> {{.Label}}</label>
{{else}}
{{$cur := .Value}}
<label>{{.Label}}
<select name="value" onchange="this.form.submit()">
{{range .Choices}}<option value="{{.Value}}"{{if eq .Value $cur}} selected{{end}}>{{.Label}}</option>
{{end}}</select></label>
{{end}}
</form>
{{end}}
</details>
</body>
</html>
`))

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Package webui serves the QR form page and the JSON endpoint that drives the
// coordinator, plus the routes that expose and download the generated image.
package webui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-qrform/pkg/coordinator"
	"github.com/goliatone/go-qrform/pkg/formspec"
	"github.com/goliatone/go-qrform/pkg/model"
	"github.com/goliatone/go-qrform/pkg/resource"
)

// DownloadFilename is the attachment name offered by the download route.
const DownloadFilename = "qrcode.png"

//go:embed templates
var templatesFS embed.FS

// Option configures the server.
type Option func(*Server)

// WithThemeSelection overrides the built-in theme selection.
func WithThemeSelection(selection *theme.Selection) Option {
	return func(s *Server) {
		if selection != nil {
			s.selection = selection
		}
	}
}

// WithThemeVariant picks a variant of the built-in theme, e.g. "dark". It is
// ignored when a full selection is supplied.
func WithThemeVariant(variant string) Option {
	return func(s *Server) {
		s.variant = variant
	}
}

// Server is the HTTP presentation surface over a coordinator.
type Server struct {
	router    *mux.Router
	coord     *coordinator.Coordinator
	store     *resource.Store
	op        *formspec.Operation
	page      *pongo2.Template
	selection *theme.Selection
	variant   string

	themeStyle string
}

var _ http.Handler = (*Server)(nil)

// New constructs the server. The coordinator, store, and operation are
// required; the store must be the one the coordinator mints handles from.
func New(coord *coordinator.Coordinator, store *resource.Store, op *formspec.Operation, options ...Option) (*Server, error) {
	if coord == nil {
		return nil, errors.New("webui: coordinator is required")
	}
	if store == nil {
		return nil, errors.New("webui: result store is required")
	}
	if op == nil {
		return nil, errors.New("webui: form operation is required")
	}

	s := &Server{
		coord: coord,
		store: store,
		op:    op,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.selection == nil {
		selection, err := defaultSelection()
		if err != nil {
			return nil, err
		}
		selection.Variant = s.variant
		s.selection = selection
	}
	s.themeStyle = cssVarsStyle(themeVars(s.selection))

	set := pongo2.NewSet("webui", pongo2.NewFSLoader(templatesFS))
	page, err := set.FromFile("templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("webui: load page template: %w", err)
	}
	s.page = page

	s.router = mux.NewRouter()
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	s.router.HandleFunc("/qr/{id}", s.handleImage).Methods(http.MethodGet)
	s.router.HandleFunc("/qr/{id}/download", s.handleDownload).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	title := s.op.Summary
	if title == "" {
		title = "QR Code Generator"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.page.ExecuteWriter(pongo2.Context{
		"title":         title,
		"description":   s.op.Description,
		"generate_path": "/api/generate",
		"theme_style":   s.themeStyle,
		"fields":        s.fieldViews(),
	}, w)
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// handleGenerate applies the posted raw field values and performs one
// submission. Coordinator outcomes, including validation and generation
// failures, are part of the page state and always travel back as a 200
// snapshot; only a dead coordinator or a bad request body gets an HTTP error.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	for _, field := range s.op.Fields {
		raw, ok := body[field.Name]
		if !ok {
			continue
		}
		if err := s.coord.UpdateField(field.Name, raw); err != nil {
			if errors.Is(err, coordinator.ErrClosed) {
				http.Error(w, "shutting down", http.StatusServiceUnavailable)
				return
			}
			// Non-integer input keeps the prior value; the page moves on.
			if !errors.Is(err, model.ErrNotAnInteger) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	if err := s.coord.Submit(r.Context()); err != nil {
		if errors.Is(err, coordinator.ErrClosed) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
	}
	s.writeJSON(w, s.coord.Snapshot())
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadFilename))
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
	}
}

// fieldViews merges the field catalog with the values currently held by the
// coordinator so a reloaded page shows what will be submitted.
func (s *Server) fieldViews() []map[string]any {
	cfg := s.coord.Configuration()
	views := make([]map[string]any, 0, len(s.op.Fields))
	for _, field := range s.op.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		views = append(views, map[string]any{
			"name":        field.Name,
			"type":        string(field.Type),
			"label":       label,
			"placeholder": field.Placeholder,
			"description": field.Description,
			"value":       fieldValue(cfg, field),
		})
	}
	return views
}

func fieldValue(cfg model.Configuration, field model.Field) string {
	var current string
	switch field.Name {
	case model.FieldText:
		current = cfg.Text
	case model.FieldSize:
		current = cfg.Size.String()
	case model.FieldColor:
		current = cfg.Color
	case model.FieldBackground:
		current = cfg.Background
	case model.FieldMargin:
		current = cfg.Margin.String()
	}
	if current == "" {
		return field.Default
	}
	return current
}

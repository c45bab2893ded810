// Package ui serves the reports of a workspace over HTTP.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"
	"github.com/yuin/goldmark"

	"github.com/dhamidi/hserr/config"
	"github.com/dhamidi/hserr/format"
	"github.com/dhamidi/hserr/report/outline"
	"github.com/dhamidi/hserr/report/parser"
	"github.com/dhamidi/hserr/report/workspace"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("hserr.ui")

type Server struct {
	workspace  *workspace.Workspace
	config     *config.Config
	router     chi.Router
	markdown   goldmark.Markdown
	templateFS fs.FS
	funcMap    template.FuncMap
}

func NewServer(ws *workspace.Workspace, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"reportPath": func(name string) string {
			return "/reports/" + url.PathEscape(name)
		},
		"humanBytes": func(n int) string {
			if n < 1024 {
				return fmt.Sprintf("%d B", n)
			}
			return fmt.Sprintf("%.1f KiB", float64(n)/1024)
		},
	}

	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		workspace:  ws,
		config:     cfg,
		markdown:   goldmark.New(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/reports/{name}", s.handleReport)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RequestSize(s.config.UI.MaxUploadBytes)).Post("/parse", s.handleParse)
		r.Get("/reports/{name}/outline", s.handleOutline)
	})

	s.router = r
}

// render parses the templates on every call so that files below
// ui/templates override the embedded copies while developing.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type reportSummary struct {
	Name     string
	Sections int
	Bytes    int
	Signal   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var reports []reportSummary
	for _, report := range s.workspace.Files() {
		summary := reportSummary{
			Name:     report.Name(s.workspace.RootDir()),
			Sections: len(report.Doc.Sections()),
			Bytes:    len(report.Content),
		}
		for _, tok := range report.Tokens {
			if tok.Category == parser.Signal {
				summary.Signal = tok.Literal
				break
			}
		}
		reports = append(reports, summary)
	}

	data := struct {
		Root    string
		Reports []reportSummary
	}{
		Root:    s.workspace.RootDir(),
		Reports: reports,
	}
	s.render(w, "index.html", data)
}

// findReport resolves the {name} URL parameter, which arrives path-escaped
// when the name contains slashes.
func (s *Server) findReport(r *http.Request) *workspace.Report {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return nil
	}
	return s.workspace.Find(name)
}

type sourceLine struct {
	Number int
	Text   string
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.findReport(r)
	if report == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	var outlineHTML bytes.Buffer
	if err := s.markdown.Convert([]byte(outline.Markdown(report.Doc)), &outlineHTML); err != nil {
		http.Error(w, "render outline: "+err.Error(), http.StatusInternalServerError)
		return
	}

	text := strings.TrimSuffix(string(report.Content), "\n")
	var lines []sourceLine
	for i, line := range strings.Split(text, "\n") {
		lines = append(lines, sourceLine{Number: i + 1, Text: strings.TrimSuffix(line, "\r")})
	}

	data := struct {
		Name    string
		Outline template.HTML
		Lines   []sourceLine
	}{
		Name:    report.Name(s.workspace.RootDir()),
		Outline: template.HTML(outlineHTML.String()),
		Lines:   lines,
	}
	s.render(w, "report.html", data)
}

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = "json"
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("report exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "read report: "+err.Error(), http.StatusBadRequest)
		return
	}

	var out bytes.Buffer
	enc, err := format.NewEncoder(name, &out, s.config.Highlight)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := parser.ParseContext(r.Context(), body, s.config.ParserOptions()...)
	if err != nil {
		log.Infof("parse abandoned: %s", err)
		return
	}
	if err := enc.Encode(doc); err != nil {
		jsonError(w, "encode report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	contentType, ok := contentTypes[name]
	if !ok {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(out.Bytes())
}

type outlineEntry struct {
	Name     string          `json:"name,omitempty"`
	Label    string          `json:"label"`
	Icon     parser.Icon     `json:"icon"`
	Line     int             `json:"line"`
	EndLine  int             `json:"endLine"`
	Children []*outlineEntry `json:"children,omitempty"`
}

func toOutlineEntries(symbols []*outline.Symbol) []*outlineEntry {
	entries := make([]*outlineEntry, 0, len(symbols))
	for _, sym := range symbols {
		entries = append(entries, &outlineEntry{
			Name:     sym.Name,
			Label:    sym.Label,
			Icon:     sym.Icon,
			Line:     sym.Span.Start.Line,
			EndLine:  sym.Span.End.Line,
			Children: toOutlineEntries(sym.Children),
		})
	}
	return entries
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	report := s.findReport(r)
	if report == nil {
		jsonError(w, "report not found", http.StatusNotFound)
		return
	}
	symbols := outline.Symbols(report.Doc)
	if r.URL.Query().Get("sort") == "alpha" {
		outline.SortAlpha(symbols)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    report.Name(s.workspace.RootDir()),
		"symbols": toOutlineEntries(symbols),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)
	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		if list, err := fs.ReadDir(fsys, name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

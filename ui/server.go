package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/format"
	"github.com/dhamidi/bindexpr/grammar"
	"github.com/dhamidi/bindexpr/layout"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("bindexpr.ui")

const (
	ModeBinding    = "binding"
	ModeExpression = "expression"
	ModeLayout     = "layout"
)

var modes = []string{ModeBinding, ModeExpression, ModeLayout}

// maxSourceSize bounds the text accepted by POST /parse.
const maxSourceSize = 1 << 20

type Server struct {
	templates  *template.Template
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

func NewServer() (*Server, error) {
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates:  tmpl,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /grammar/{name}", s.handleGrammar)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render reparses the templates on every request so files under
// ui/templates take effect without a restart.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		log.Warningf("reload templates: %s", err)
		tmpl = s.templates
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

type PageData struct {
	Source   string
	Mode     string
	Modes    []string
	Grammars []string
	Result   *Result
}

type Result struct {
	Tree        string
	Canonical   string
	Diagnostics []DiagnosticView
	Tokens      []TokenView
	Expressions []ExpressionView
}

type DiagnosticView struct {
	Severity string
	Position string
	Message  string
}

type TokenView struct {
	Kind     string
	Literal  string
	Position string
}

type ExpressionView struct {
	Attribute string
	Source    string
	Tree      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", PageData{
		Mode:     ModeBinding,
		Modes:    modes,
		Grammars: grammar.Names(),
	})
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	src, err := grammar.Source(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(src)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}
	source := r.FormValue("source")
	mode := r.FormValue("mode")
	if mode == "" {
		mode = ModeBinding
	}

	wantJSON := r.Header.Get("Accept") == "application/json"
	var buf bytes.Buffer
	var result *Result
	var err error

	switch mode {
	case ModeBinding, ModeExpression:
		result, err = parseBinding(&buf, source, mode, wantJSON)
	case ModeLayout:
		result, err = parseLayout(&buf, source, wantJSON)
	default:
		http.Error(w, fmt.Sprintf("unknown mode %q", mode), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Debugf("parsed %d bytes as %s", len(source), mode)

	if wantJSON {
		w.Header().Set("Content-Type", "application/json")
		w.Write(buf.Bytes())
		return
	}

	s.render(w, "index.html", PageData{
		Source:   source,
		Mode:     mode,
		Modes:    modes,
		Grammars: grammar.Names(),
		Result:   result,
	})
}

// parseBinding parses source and either writes the JSON tree to buf or
// returns the view of the result.
func parseBinding(buf *bytes.Buffer, source, mode string, wantJSON bool) (*Result, error) {
	var p *parser.Parser
	if mode == ModeExpression {
		p = parser.ParseExpression(strings.NewReader(source))
	} else {
		p = parser.ParseBinding(strings.NewReader(source))
	}
	root := p.Finish()

	if wantJSON {
		return nil, format.NewASTJSONEncoder(buf).Encode(root, p.Errors())
	}

	result := &Result{}
	if root != nil {
		result.Tree = root.String()
		if text, err := format.NewBindingPrinter(nil).Format(root); err == nil {
			result.Canonical = text
		}
	}
	for _, err := range p.Errors() {
		pos := ""
		if err.Got != nil {
			pos = err.Got.Span.Start.String()
		}
		result.Diagnostics = append(result.Diagnostics, DiagnosticView{
			Severity: "error",
			Position: pos,
			Message:  err.Message,
		})
	}
	for _, tok := range p.Tokens() {
		if tok.Kind == parser.TokenEOF {
			continue
		}
		result.Tokens = append(result.Tokens, TokenView{
			Kind:     tok.Kind.String(),
			Literal:  tok.Literal,
			Position: tok.Span.Start.String(),
		})
	}
	return result, nil
}

func parseLayout(buf *bytes.Buffer, source string, wantJSON bool) (*Result, error) {
	report := layout.CheckSource("layout.xml", []byte(source))

	if wantJSON {
		return nil, format.NewJSONEncoder(buf).Encode(report)
	}

	result := &Result{}
	if report.Document != nil {
		result.Tree = report.Document.String()
	}
	if !report.HasErrors() {
		if out, err := format.FormatLayout([]byte(source)); err == nil {
			result.Canonical = string(out)
		}
	}
	for _, d := range report.Diagnostics() {
		result.Diagnostics = append(result.Diagnostics, DiagnosticView{
			Severity: d.Severity.String(),
			Position: d.Span.Start.String(),
			Message:  d.Message,
		})
	}
	for _, expr := range report.Expressions {
		view := ExpressionView{Attribute: expr.Attribute, Source: expr.Source}
		if expr.Root != nil {
			view.Tree = expr.Root.String()
		}
		result.Expressions = append(result.Expressions, view)
	}
	return result, nil
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

// overlayFS serves files from primaryPath on disk when present and falls
// back to secondary.
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

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}

package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func post(s *Server, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<textarea", `value="layout"`, `href="/grammar/binding"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index does not contain %s", want)
		}
	}
}

func TestParseJSON(t *testing.T) {
	s := newTestServer(t)
	rec := post(s, url.Values{"source": {"a + b * c"}}, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var doc struct {
		Root struct {
			Kind string `json:"kind"`
		} `json:"root"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body)
	}
	if doc.Root.Kind != "BindingSyntax" || len(doc.Errors) != 0 {
		t.Errorf("got %+v", doc)
	}

	rec = post(s, url.Values{"source": {"a +"}, "mode": {"expression"}}, "application/json")
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Root.Kind != "MathOp" || len(doc.Errors) != 1 {
		t.Errorf("got %+v", doc)
	}
}

func TestParseHTML(t *testing.T) {
	s := newTestServer(t)
	rec := post(s, url.Values{"source": {"a&&b"}}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Canonical form", "a &amp;&amp; b", "AndOrOp"} {
		if !strings.Contains(body, want) {
			t.Errorf("response does not contain %q:\n%s", want, body)
		}
	}

	rec = post(s, url.Values{"source": {`<a b="@{x +}"/>`}, "mode": {"layout"}}, "")
	body = rec.Body.String()
	if !strings.Contains(body, `class="error"`) || !strings.Contains(body, "layout.xml:1:12") {
		t.Errorf("layout problems missing:\n%s", body)
	}
}

func TestParseBadMode(t *testing.T) {
	s := newTestServer(t)
	rec := post(s, url.Values{"source": {"a"}, "mode": {"java"}}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGrammar(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grammar/xml", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Element") {
		t.Errorf("status = %d body = %.80s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grammar/java", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	tmpl, err := template.New("").Funcs(template.FuncMap{"add": func(a, b int) int { return a + b }}).
		ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		t.Fatalf("parse embedded templates: %v", err)
	}
	for _, name := range []string{"index.html", "result.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %s is not embedded", name)
		}
	}

	var sb strings.Builder
	data := PageData{Mode: ModeBinding, Modes: modes, Result: &Result{Canonical: "a + b"}}
	if err := tmpl.ExecuteTemplate(&sb, "index.html", data); err != nil {
		t.Fatalf("render with result: %v", err)
	}
	if !strings.Contains(sb.String(), "a + b") {
		t.Errorf("result not rendered:\n%s", sb.String())
	}
}

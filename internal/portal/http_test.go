package portal

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"devportal/internal/configsource"
	"devportal/internal/links"
	"devportal/internal/theme"
)

func newTestHandler(t *testing.T, src configsource.Reader) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	h, err := NewHandler(Options{Title: "Internal Developer Platform", Source: src, Theme: theme.Build(), Logger: logger})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h.Routes(), &buf
}

func configuredSource() configsource.Reader {
	return configsource.FromMap(map[string]any{
		"integrations": map[string]any{
			"gitlab": []any{map[string]any{"baseUrl": "https://gitlab.corp.example"}},
		},
	})
}

func TestLinksEndpointUsesRequestHost(t *testing.T) {
	h, logs := newTestHandler(t, configuredSource())

	req := httptest.NewRequest(http.MethodGet, "http://10.0.0.4:3000/api/links", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "portal.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Links []links.ToolLink `json:"links"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Links) != 6 {
		t.Fatalf("links=%d, want 6", len(body.Links))
	}
	if body.Links[1].URL != "https://gitlab.corp.example" {
		t.Fatalf("GitLab URL = %q", body.Links[1].URL)
	}
	if body.Links[2].URL != "https://portal.example.com/argocd" || body.Links[4].URL != "https://portal.example.com" {
		t.Fatalf("domain links = %+v", body.Links)
	}
	if !strings.Contains(logs.String(), "event=portal_http_request") {
		t.Fatalf("expected request log line, got %q", logs.String())
	}
}

func TestLinksEndpointFallsBackWithoutConfig(t *testing.T) {
	h, logs := newTestHandler(t, configsource.Empty())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), links.DefaultGitProviderURL) {
		t.Fatalf("expected default GitLab URL in %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "links_config_fallback") {
		t.Fatalf("expected fallback diagnostic in logs, got %q", logs.String())
	}
}

func TestThemeEndpoints(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/theme", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var full theme.Theme
	if err := json.Unmarshal(rec.Body.Bytes(), &full); err != nil {
		t.Fatal(err)
	}
	if len(full.Pages) != len(theme.Categories()) {
		t.Fatalf("page themes=%d", len(full.Pages))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/theme/tool", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var tool theme.ThemeDescriptor
	if err := json.Unmarshal(rec.Body.Bytes(), &tool); err != nil {
		t.Fatal(err)
	}
	if tool.Shape != theme.ShapeRound || tool.Colors != [2]theme.Color{theme.BrandPurple, theme.BrandPurple} {
		t.Fatalf("tool descriptor = %+v", tool)
	}
}

func TestUnknownCategoryReturns404(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/theme/blog", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "UNKNOWN_CATEGORY") {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestThemeExtraSegmentsRejected(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/theme/tool/extra", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	for _, path := range []string{"/", "/healthz", "/search", "/api/links", "/api/theme", "/api/theme/home", "/backstage/img/gitlab.png"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("path=%s status=%d body=%s", path, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "METHOD_NOT_ALLOWED") {
			t.Fatalf("path=%s body=%s", path, rec.Body.String())
		}
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLandingPageRendersLinks(t *testing.T) {
	h, _ := newTestHandler(t, configuredSource())

	req := httptest.NewRequest(http.MethodGet, "https://portal.example.com/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<h1>Internal Developer Platform</h1>",
		`href="/catalog"`,
		`href="https://gitlab.corp.example"`,
		`href="https://portal.example.com/argocd"`,
		`href="https://portal.example.com/argo-workflows"`,
		`href="https://portal.example.com/keycloak"`,
		"tool-argo-workflows",
		"<span>Kargo</span>",
		"linear-gradient(90deg, #0d456b, #9d599f)",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("landing page missing %q:\n%s", want, body)
		}
	}
}

func TestLandingPageDefaultTitle(t *testing.T) {
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	h, err := NewHandler(Options{Theme: theme.Build(), Logger: logger})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "<title>"+defaultTitle+"</title>") {
		t.Fatalf("expected default title, got %s", rec.Body.String())
	}
}

func TestNewHandlerRejectsInvalidTheme(t *testing.T) {
	th := theme.Build()
	th.Palette.Primary = "sky"
	_, err := NewHandler(Options{Theme: th, Logger: log.NewWithOptions(&bytes.Buffer{}, log.Options{})})
	if !errors.Is(err, theme.ErrInvalidColor) {
		t.Fatalf("NewHandler() error = %v, want ErrInvalidColor", err)
	}
}

func TestNewHandlerRequiresLogger(t *testing.T) {
	if _, err := NewHandler(Options{Theme: theme.Build()}); err == nil {
		t.Fatal("NewHandler() expected error without logger")
	}
}

var pageRefPattern = regexp.MustCompile(`(?:src|action)="([^"]+)"|url\("([^"]+)"\)`)

func TestLandingPageReferencesAreServed(t *testing.T) {
	h, _ := newTestHandler(t, configuredSource())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var refs []string
	for _, m := range pageRefPattern.FindAllStringSubmatch(rec.Body.String(), -1) {
		ref := m[1]
		if ref == "" {
			ref = m[2]
		}
		refs = append(refs, ref)
	}
	// logo, five tool icons, search action and the header shape
	if len(refs) < 8 {
		t.Fatalf("expected at least 8 page references, got %v", refs)
	}

	for _, ref := range refs {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ref, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d body=%s", ref, rec.Code, rec.Body.String())
		}
	}
}

func TestAssetsServedWithContentType(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	cases := map[string]string{
		"/backstage/img/keycloak.png":     "image/png",
		"/backstage/img/shapes/round.svg": "image/svg+xml",
		"/backstage/img/shapes/wave.svg":  "image/svg+xml",
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, want) {
			t.Fatalf("GET %s content type = %q, want %q", path, ct, want)
		}
	}
}

func TestUnknownAssetsReturn404(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	for _, path := range []string{"/backstage/img/nope.png", "/backstage/img/", "/backstage/img/shapes/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s status=%d body=%s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestSearchFiltersQuickLinks(t *testing.T) {
	h, _ := newTestHandler(t, configuredSource())

	tests := []struct {
		name    string
		query   string
		want    []string
		notWant []string
	}{
		{name: "substring", query: "argo", want: []string{"<span>ArgoCD</span>", "<span>Argo Workflows</span>", "<span>Kargo</span>"}, notWant: []string{"<span>GitLab</span>", "<span>Catalog</span>"}},
		{name: "case insensitive", query: "KEYCLOAK", want: []string{"<span>Keycloak</span>"}, notWant: []string{"<span>Catalog</span>"}},
		{name: "matches url", query: "gitlab.corp", want: []string{"<span>GitLab</span>"}, notWant: []string{"<span>ArgoCD</span>"}},
		{name: "empty query keeps all", query: "", want: []string{"<span>Catalog</span>", "<span>Keycloak</span>"}},
		{name: "no match", query: "jenkins", want: []string{`No quick links match "jenkins".`}, notWant: []string{"<span>Catalog</span>"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/search?query="+url.QueryEscape(tc.query), nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			body := rec.Body.String()
			for _, w := range tc.want {
				if !strings.Contains(body, w) {
					t.Fatalf("missing %q:\n%s", w, body)
				}
			}
			for _, w := range tc.notWant {
				if strings.Contains(body, w) {
					t.Fatalf("unexpected %q:\n%s", w, body)
				}
			}
		})
	}
}

func TestSearchEchoesQuery(t *testing.T) {
	h, _ := newTestHandler(t, configsource.Empty())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?query=%3Cb%3Eargo", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `value="&lt;b&gt;argo"`) {
		t.Fatalf("expected escaped query in search box:\n%s", body)
	}
}

package portal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"devportal/internal/configsource"
	"devportal/internal/links"
	"devportal/internal/theme"
)

// Options configures a Handler.
type Options struct {
	Title    string
	Source   configsource.Reader
	Theme    theme.Theme
	Resolver *links.Resolver
	Logger   *log.Logger
}

// Handler serves the landing page, the resolved quick links and the theme.
type Handler struct {
	title    string
	source   configsource.Reader
	theme    theme.Theme
	resolver *links.Resolver
	logger   *log.Logger
	page     *template.Template
}

func NewHandler(opts Options) (*Handler, error) {
	if opts.Logger == nil {
		return nil, errors.New("portal: logger is required")
	}
	if err := opts.Theme.Validate(); err != nil {
		return nil, fmt.Errorf("portal: theme: %w", err)
	}
	if opts.Resolver == nil {
		opts.Resolver = links.NewResolver(opts.Logger)
	}
	page, err := parseLandingPage()
	if err != nil {
		return nil, err
	}
	return &Handler{
		title:    opts.Title,
		source:   opts.Source,
		theme:    opts.Theme,
		resolver: opts.Resolver,
		logger:   opts.Logger,
		page:     page,
	}, nil
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.landing)
	mux.HandleFunc("/healthz", h.health)
	mux.HandleFunc("/search", h.search)
	mux.Handle(assetPrefix, h.assets())
	mux.HandleFunc("/api/links", h.links)
	mux.HandleFunc("/api/theme", h.fullTheme)
	mux.HandleFunc("/api/theme/", h.categoryTheme)
	return h.instrument(mux)
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		observer := &statusObserver{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(observer, r)
		h.logger.Info("request",
			"event", "portal_http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", observer.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}

type statusObserver struct {
	http.ResponseWriter
	status int
}

func (o *statusObserver) WriteHeader(status int) {
	o.status = status
	o.ResponseWriter.WriteHeader(status)
}

func (h *Handler) landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.reject(r, "landing", "unknown_route", r.URL.Path)
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}
	if !h.allowGet(w, r, "landing") {
		return
	}

	h.render(w, r, "")
}

// search renders the landing page with the quick links whose label or URL
// contains the query, ignoring case.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r, "search") {
		return
	}
	h.render(w, r, strings.TrimSpace(r.URL.Query().Get("query")))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, query string) {
	resolved := filterLinks(h.resolver.Resolve(h.source, links.RuntimeHostFromRequest(r)), query)
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, newLandingView(h.title, query, h.theme, resolved)); err != nil {
		h.logger.Error("render landing page", "event", "portal_render_failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "INTERNAL_ERROR", "landing page could not be rendered")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func filterLinks(all []links.ToolLink, query string) []links.ToolLink {
	if query == "" {
		return all
	}
	needle := strings.ToLower(query)
	return lo.Filter(all, func(l links.ToolLink, _ int) bool {
		return strings.Contains(strings.ToLower(l.Label), needle) || strings.Contains(strings.ToLower(l.URL), needle)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r, "health") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) links(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r, "links") {
		return
	}
	resolved := h.resolver.Resolve(h.source, links.RuntimeHostFromRequest(r))
	h.logger.Debug("links resolved", "event", "portal_links_resolved", "labels", strings.Join(lo.Map(resolved, func(l links.ToolLink, _ int) string { return l.Label }), ","))
	writeJSON(w, http.StatusOK, map[string][]links.ToolLink{"links": resolved})
}

func (h *Handler) fullTheme(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r, "theme") {
		return
	}
	writeJSON(w, http.StatusOK, h.theme)
}

func (h *Handler) categoryTheme(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/theme/"), "/")
	if trimmed == "" {
		h.fullTheme(w, r)
		return
	}
	if strings.Contains(trimmed, "/") {
		h.reject(r, "category_theme", "too_many_path_parts", trimmed)
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}
	if !h.allowGet(w, r, "category_theme") {
		return
	}

	category, err := theme.ParseCategory(trimmed)
	if err != nil {
		h.reject(r, "category_theme", "unknown_category", trimmed)
		writeMappedErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.theme.Descriptor(category))
}

func (h *Handler) allowGet(w http.ResponseWriter, r *http.Request, operation string) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	h.reject(r, operation, "method_not_allowed", "")
	w.Header().Set("Allow", "GET, HEAD")
	writeErr(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	return false
}

func (h *Handler) reject(r *http.Request, operation, reason, details string) {
	h.logger.Warn("request rejected",
		"event", "portal_request_rejected",
		"operation", operation,
		"method", r.Method,
		"path", r.URL.Path,
		"reason", reason,
		"details", details,
		"remote", r.RemoteAddr,
	)
}

func writeMappedErr(w http.ResponseWriter, err error) {
	if errors.Is(err, theme.ErrUnknownCategory) {
		writeErr(w, http.StatusNotFound, "UNKNOWN_CATEGORY", "page category is not known")
		return
	}
	writeErr(w, http.StatusInternalServerError, "INTERNAL_ERROR", "portal internal error")
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message, "status": strconv.Itoa(status)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

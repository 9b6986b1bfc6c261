// Package links resolves the quick links shown on the portal landing page.
//
// Resolution is total: every entry is always produced with a best-effort URL.
// Configuration problems and a missing runtime host are recovered locally and
// reported as Diagnostics rather than errors.
package links

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"devportal/internal/configsource"
)

const (
	// DefaultGitProviderURL is used when no GitLab integration baseUrl is configured.
	DefaultGitProviderURL = "https://gitlab.com"

	gitProviderPath = "integrations.gitlab"
	baseURLKey      = "baseUrl"
	catalogPath     = "/catalog"
	iconBasePath    = DefaultBasePath + "/img/"
)

var (
	ErrNoConfigSource      = errors.New("no config source")
	ErrIntegrationMissing  = errors.New("integration not configured")
	ErrIntegrationEmpty    = errors.New("integration list is empty")
	ErrBaseURLMissing      = errors.New("integration has no baseUrl")
	ErrConfigAccessPanic   = errors.New("config access panicked")
	ErrRuntimeHostNotFound = errors.New("runtime host unavailable")
)

// ToolLink is one labeled entry in the landing page toolkit.
type ToolLink struct {
	URL     string `json:"url"`
	Label   string `json:"label"`
	IconRef string `json:"icon"`
}

// DiagnosticKind classifies a recovered resolution failure.
type DiagnosticKind string

const (
	KindConfigAccessFailure    DiagnosticKind = "config_access_failure"
	KindRuntimeHostUnavailable DiagnosticKind = "runtime_host_unavailable"
)

// Diagnostic records a failure that was replaced by a fallback value.
type Diagnostic struct {
	Kind     DiagnosticKind
	Path     string
	Fallback string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s path=%s fallback=%s: %v", d.Kind, d.Path, d.Fallback, d.Err)
}

// Resolve returns the six landing page links in display order.
func Resolve(src configsource.Reader, host RuntimeHost) []ToolLink {
	links, _ := ResolveWithDiagnostics(src, host)
	return links
}

// ResolveWithDiagnostics is Resolve plus the list of fallbacks that were taken.
func ResolveWithDiagnostics(src configsource.Reader, host RuntimeHost) ([]ToolLink, []Diagnostic) {
	var diags []Diagnostic

	gitURL, err := gitProviderURL(src)
	if err != nil {
		gitURL = DefaultGitProviderURL
		diags = append(diags, Diagnostic{Kind: KindConfigAccessFailure, Path: gitProviderPath, Fallback: gitURL, Err: err})
	}

	domainURL := host.DomainURL()
	if host.IsZero() {
		diags = append(diags, Diagnostic{Kind: KindRuntimeHostUnavailable, Fallback: domainURL, Err: ErrRuntimeHostNotFound})
	}

	return []ToolLink{
		{URL: catalogPath, Label: "Catalog", IconRef: "backstage-logo"},
		{URL: gitURL, Label: "GitLab", IconRef: iconBasePath + "gitlab.png"},
		{URL: domainURL + "/argocd", Label: "ArgoCD", IconRef: iconBasePath + "argocd.png"},
		{URL: domainURL + "/argo-workflows", Label: "Argo Workflows", IconRef: iconBasePath + "argo-workflows.png"},
		{URL: domainURL, Label: "Kargo", IconRef: iconBasePath + "kargo.png"},
		{URL: domainURL + "/keycloak", Label: "Keycloak", IconRef: iconBasePath + "keycloak.png"},
	}, diags
}

func gitProviderURL(src configsource.Reader) (url string, err error) {
	if src == nil {
		return "", ErrNoConfigSource
	}
	defer func() {
		if rec := recover(); rec != nil {
			url, err = "", fmt.Errorf("%w: %v", ErrConfigAccessPanic, rec)
		}
	}()

	integrations, err := src.OptionalConfigArray(gitProviderPath)
	if err != nil {
		return "", err
	}
	if integrations == nil {
		return "", ErrIntegrationMissing
	}
	if len(integrations) == 0 {
		return "", ErrIntegrationEmpty
	}
	if integrations[0] == nil {
		return "", ErrBaseURLMissing
	}

	baseURL, ok, err := integrations[0].OptionalString(baseURLKey)
	if err != nil {
		return "", err
	}
	if !ok || baseURL == "" {
		return "", ErrBaseURLMissing
	}
	return baseURL, nil
}

// Resolver wraps ResolveWithDiagnostics and reports fallbacks to a logger.
type Resolver struct {
	logger *log.Logger
}

// NewResolver returns a Resolver logging through logger; a nil logger discards.
func NewResolver(logger *log.Logger) *Resolver {
	return &Resolver{logger: logger}
}

func (r *Resolver) Resolve(src configsource.Reader, host RuntimeHost) []ToolLink {
	links, diags := ResolveWithDiagnostics(src, host)
	if r.logger == nil {
		return links
	}
	for _, d := range diags {
		switch d.Kind {
		case KindConfigAccessFailure:
			r.logger.Warn("link fallback", "event", "links_config_fallback", "path", d.Path, "fallback", d.Fallback, "err", d.Err)
		default:
			r.logger.Debug("link fallback", "event", "links_host_fallback", "fallback", d.Fallback, "err", d.Err)
		}
	}
	return links
}

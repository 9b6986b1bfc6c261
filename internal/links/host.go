package links

import (
	"net/http"
	"strings"
)

const (
	// DefaultBasePath is the portal mount point used by the fallback domain.
	DefaultBasePath = "/backstage"
	// DefaultDomainURL is used when no runtime host is available.
	DefaultDomainURL = "http://localhost:3000" + DefaultBasePath

	defaultScheme = "http"
)

// RuntimeHost is the scheme and host:port the portal is being served from.
// The zero value means no runtime host is known.
type RuntimeHost struct {
	Scheme      string `json:"scheme"`
	HostAndPort string `json:"host"`
}

// IsZero reports whether the host carries no usable host:port.
func (h RuntimeHost) IsZero() bool {
	return strings.TrimSpace(h.HostAndPort) == ""
}

// DomainURL renders "{scheme}://{hostAndPort}", or DefaultDomainURL for the zero host.
func (h RuntimeHost) DomainURL() string {
	if h.IsZero() {
		return DefaultDomainURL
	}
	scheme := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h.Scheme)), ":")
	if scheme == "" {
		scheme = defaultScheme
	}
	return scheme + "://" + strings.TrimSpace(h.HostAndPort)
}

// RuntimeHostFromRequest derives the public host of an incoming request,
// honouring X-Forwarded-Proto and X-Forwarded-Host set by ingress proxies.
func RuntimeHostFromRequest(r *http.Request) RuntimeHost {
	if r == nil {
		return RuntimeHost{}
	}

	scheme := firstHeaderValue(r.Header.Get("X-Forwarded-Proto"))
	if scheme == "" {
		scheme = defaultScheme
		if r.TLS != nil {
			scheme = "https"
		}
	}

	host := firstHeaderValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = strings.TrimSpace(r.Host)
	}
	if host == "" {
		return RuntimeHost{}
	}

	return RuntimeHost{Scheme: scheme, HostAndPort: host}
}

func firstHeaderValue(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

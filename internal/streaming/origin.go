package streaming

import (
	"net/http"
	"net/url"
	"strings"
)

// OriginGuard validates the Origin/Referer of manifest and segment requests
// against an allow-list. The stream-initiation endpoint does not use it;
// that call is protected by session auth instead.
type OriginGuard struct {
	wildcard bool
	allowed  map[string]struct{}
}

// NewOriginGuard builds a guard from a comma-separated allow-list. "*"
// anywhere in the list disables the check.
func NewOriginGuard(allowedOrigins string) *OriginGuard {
	g := &OriginGuard{allowed: make(map[string]struct{})}
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			g.wildcard = true
			continue
		}
		g.allowed[o] = struct{}{}
	}
	return g
}

// Allow reports whether the request's origin is acceptable. Callers must
// map a false result to one generic rejection: the reasons (missing origin,
// unlisted origin, malformed referer) are deliberately not distinguished.
func (g *OriginGuard) Allow(r *http.Request) bool {
	if g.wildcard {
		return true
	}
	origin := deriveOrigin(r)
	if origin == "" {
		return false
	}
	_, ok := g.allowed[origin]
	return ok
}

// deriveOrigin prefers the Origin header and falls back to the scheme and
// host (plus non-default port) of the Referer.
func deriveOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" {
		return normalizeOrigin(o)
	}
	ref := r.Header.Get("Referer")
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	host := u.Host
	// Default ports are implied and never part of an Origin value.
	if (u.Scheme == "http" && u.Port() == "80") || (u.Scheme == "https" && u.Port() == "443") {
		host = u.Hostname()
	}
	return normalizeOrigin(u.Scheme + "://" + host)
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

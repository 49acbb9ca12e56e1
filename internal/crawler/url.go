package crawler

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a raw href into the Domain it points at, resolving
// relative references against baseURL. The scheme, path, query, fragment,
// and userinfo are discarded; the host is lowercased and default ports are
// removed. Hrefs that do not resolve to an absolute http(s) URL with a host
// (mailto:, javascript:, tel:, fragment-only refs, malformed syntax) fail
// with a *NormalizationError. Pure and deterministic.
func Normalize(rawHref, baseURL string) (Domain, error) {
	href := strings.TrimSpace(rawHref)
	if href == "" {
		return "", &NormalizationError{Href: rawHref, Err: errEmptyHref}
	}
	if strings.HasPrefix(href, "#") {
		return "", &NormalizationError{Href: rawHref, Err: errFragmentOnly}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", &NormalizationError{Href: rawHref, Err: err}
	}

	resolved := ref
	if baseURL != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return "", &NormalizationError{Href: rawHref, Err: err}
		}
		resolved = base.ResolveReference(ref)
	}

	return domainOf(resolved, rawHref)
}

// NormalizeSeed canonicalizes an operator-supplied seed, which may be a bare
// domain ("facebook.com") or a URL. A missing scheme defaults to https.
func NormalizeSeed(raw string) (Domain, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &NormalizationError{Href: raw, Err: errEmptyHref}
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", &NormalizationError{Href: raw, Err: err}
	}
	return domainOf(u, raw)
}

// domainOf reduces an absolute URL to its Domain identity. Lowercases the
// host and removes default ports, mirroring what the fetch layer requests.
func domainOf(u *url.URL, raw string) (Domain, error) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", &NormalizationError{Href: raw, Err: errUnsupportedScheme}
	}

	host := strings.ToLower(u.Host)
	if scheme == "http" {
		host = strings.TrimSuffix(host, ":80")
	}
	if scheme == "https" {
		host = strings.TrimSuffix(host, ":443")
	}
	if host == "" {
		return "", &NormalizationError{Href: raw, Err: errEmptyHost}
	}
	return Domain(host), nil
}

package urlutil

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

// ErrInvalidURL is returned when a raw string cannot be parsed as a URL, or
// when Resolve is given a base that is not itself absolute.
var ErrInvalidURL = errors.New("invalid url")

// trackingParams are query parameters known to vary per-visit/per-referrer
// without changing the resource identified, so they are dropped rather than
// sorted alongside the rest.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"mc_cid":       true,
	"mc_eid":       true,
}

// sessionIDParamNames lists common session-id-style query keys
// (case-insensitive exact match), since naming varies by framework (sid,
// sessionid, PHPSESSID, jsessionid, ...).
var sessionIDParamNames = []string{"sessionid", "sessid", "phpsessid", "jsessionid", "sid"}

func isSessionIDParam(key string) bool {
	lower := strings.ToLower(key)
	for _, candidate := range sessionIDParamNames {
		if lower == candidate {
			return true
		}
	}
	return false
}

// Canonicalize applies a deterministic normalization to a URL, producing a
// canonical form intended for idempotent dedup, not global identity.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased; path case is preserved
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Percent-encoding is unified via url.URL's own parse/re-encode
//   - The fragment is dropped
//   - Dot-segments in the path are resolved and trailing
//     /index.{html,htm,php} is reduced to /
//   - Trailing slashes on non-root paths are removed
//   - Tracking query parameters (utm_*, fbclid, gclid, mc_cid, mc_eid) and
//     session-id-style parameters are removed; remaining parameters are
//     sorted lexicographically by key
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(url)) == Canonicalize(url)
//   - Context-free: does not depend on crawl history
func Canonicalize(sourceUrl url.URL) url.URL {
	canonical := sourceUrl

	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	canonical.Path = cleanPath(canonical.Path)

	canonical.Fragment = ""
	canonical.RawFragment = ""

	canonical.RawQuery = canonicalQuery(canonical.Query())
	canonical.ForceQuery = false

	return canonical
}

// cleanPath resolves "." and ".." segments the way path.Clean does, reduces
// a trailing index.{html,htm,php} to the directory's own trailing slash,
// and otherwise strips trailing slashes from non-root paths.
func cleanPath(p string) string {
	if p == "" {
		return p
	}
	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".":
			continue
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	cleaned := strings.Join(out, "/")

	switch {
	case strings.HasSuffix(cleaned, "/index.html"):
		return strings.TrimSuffix(cleaned, "index.html")
	case strings.HasSuffix(cleaned, "/index.htm"):
		return strings.TrimSuffix(cleaned, "index.htm")
	case strings.HasSuffix(cleaned, "/index.php"):
		return strings.TrimSuffix(cleaned, "index.php")
	}

	if len(cleaned) > 1 {
		cleaned = stripTrailingSlash(cleaned)
	}
	return cleaned
}

// canonicalQuery drops tracking/session parameters and re-encodes the rest
// in lexicographic key order.
func canonicalQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if trackingParams[strings.ToLower(key)] || isSessionIDParam(key) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	kept := url.Values{}
	for _, key := range keys {
		kept[key] = values[key]
	}
	return kept.Encode()
}

// SimilarityClass describes the set of URL spellings treated as equivalent
// to canonical: variants differing only in trailing-slash presence on a
// non-root path, the www./bare-host prefix, or parameter ordering. A
// diagnostic/dedup equivalence, not a global identity.
func SimilarityClass(canonical url.URL) []url.URL {
	variants := []url.URL{canonical}

	if len(canonical.Path) > 1 && !strings.HasSuffix(canonical.Path, "/") {
		withSlash := canonical
		withSlash.Path += "/"
		variants = append(variants, withSlash)
	}

	host := canonical.Host
	if strings.HasPrefix(host, "www.") {
		bare := canonical
		bare.Host = strings.TrimPrefix(host, "www.")
		variants = append(variants, bare)
	} else {
		withWWW := canonical
		withWWW.Host = "www." + host
		variants = append(variants, withWWW)
	}

	return variants
}

// Resolve joins a relative reference against an absolute base and returns
// its canonical form. Both a malformed relative reference and a base that
// is not itself absolute are reported as ErrInvalidURL.
func Resolve(base url.URL, relative string) (url.URL, error) {
	if !base.IsAbs() {
		return url.URL{}, ErrInvalidURL
	}
	ref, err := url.Parse(relative)
	if err != nil {
		return url.URL{}, ErrInvalidURL
	}
	resolved := base.ResolveReference(ref)
	return Canonicalize(*resolved), nil
}

// ResolveRelative fills in a discovered URL's scheme and host when it was
// parsed from an in-page reference that omitted them (a path-only href such
// as "/guide/intro" or a protocol-relative "//cdn.example.com/x.js"). It does
// not canonicalize; callers that need a dedup/identity key still run the
// result through Canonicalize or SimilarityClass themselves.
func ResolveRelative(u url.URL, scheme, host string) url.URL {
	resolved := u
	if resolved.Scheme == "" {
		resolved.Scheme = scheme
	}
	if resolved.Host == "" {
		resolved.Host = host
	}
	return resolved
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

package cache

import (
	"fmt"
	"strings"
	"time"

	"lukechampine.com/blake3"
)

// Entry is a cached cleaned document plus the bookkeeping needed to expire
// and invalidate it.
type Entry struct {
	Content     []byte
	ContentType string

	// SourceURL is the normalized URL the entry was built from. Invalidate
	// matches against this field, not against the fingerprinted key.
	SourceURL string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its TTL as of now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// KeyOptions is the option subset that participates in cache-key
// fingerprinting. Only fields that change the *output* belong here —
// cache-control knobs like skip-cache or TTL never do.
type KeyOptions struct {
	// Format is the requested rendering: "html", "markdown", or "text".
	Format string
	// WaitSelector is the CSS selector a browser fetch waited on, if any.
	WaitSelector string
	// Actions is the ordered list of browser actions (click, scroll, type)
	// applied before extraction, rendered as a stable string per action.
	Actions []string
	// ForceBrowser requests the browser fetcher even when the plain HTTP
	// fetcher would otherwise have been chosen.
	ForceBrowser bool
}

// FingerprintKey derives the cache key for (url, opts). It is a pure
// function: the same inputs always produce the same key, and unrelated
// option fields (cache-control) never influence it.
func FingerprintKey(url string, opts KeyOptions) string {
	var b strings.Builder
	b.WriteString(url)
	b.WriteByte('|')
	b.WriteString(opts.Format)
	b.WriteByte('|')
	b.WriteString(opts.WaitSelector)
	b.WriteByte('|')
	b.WriteString(fmt.Sprintf("%t", opts.ForceBrowser))
	b.WriteByte('|')
	for _, action := range opts.Actions {
		b.WriteString(action)
		b.WriteByte(';')
	}

	sum := blake3.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum)
}

// diskEntry is the on-disk metadata sidecar for a cached entry; the
// content itself is written to a sibling ".data" file so that large
// bodies never round-trip through JSON.
type diskEntry struct {
	ContentType string    `json:"contentType"`
	SourceURL   string    `json:"sourceUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

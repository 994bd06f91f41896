package lspclient

import (
	"net/url"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/Camilotk/lspclient/protocol"
)

// globCache caches compiled glob patterns. Selectors are matched whenever a
// provider lookup runs, and registrations tend to reuse a small set of
// patterns.
var globCache sync.Map // pattern -> glob.Glob

func compileGlob(pattern string) (glob.Glob, bool) {
	if cached, ok := globCache.Load(pattern); ok {
		return cached.(glob.Glob), true
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, false
	}
	globCache.Store(pattern, g)
	return g, true
}

// MatchesSelector reports whether the document identified by uri and
// languageID matches at least one filter in the selector. An empty selector
// matches nothing, as does a filter that constrains no axis at all.
func MatchesSelector(selector protocol.DocumentSelector, uri protocol.DocumentURI, languageID string) bool {
	for _, filter := range selector {
		if matchesFilter(filter, uri, languageID) {
			return true
		}
	}
	return false
}

func matchesFilter(filter protocol.DocumentFilter, uri protocol.DocumentURI, languageID string) bool {
	if filter.Language == "" && filter.Scheme == "" && filter.Pattern == "" {
		return false
	}
	if filter.Language != "" && filter.Language != languageID {
		return false
	}

	scheme, path := splitURI(uri)
	if filter.Scheme != "" && filter.Scheme != scheme {
		return false
	}
	if filter.Pattern != "" {
		g, ok := compileGlob(filter.Pattern)
		if !ok || !g.Match(path) {
			return false
		}
	}
	return true
}

// splitURI separates a document URI into its scheme and path. Malformed URIs
// fall back to a plain prefix split so matching stays total.
func splitURI(uri protocol.DocumentURI) (scheme, path string) {
	if parsed, err := url.Parse(string(uri)); err == nil && parsed.Scheme != "" {
		return parsed.Scheme, strings.TrimPrefix(parsed.Path, "/")
	}
	raw := string(uri)
	if i := strings.Index(raw, "://"); i >= 0 {
		return raw[:i], strings.TrimPrefix(raw[i+3:], "/")
	}
	return "", raw
}

package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// Sanitization is best-effort cleanup, independent of validation: the
// tolerant load path runs it so a flagged document still renders something
// safe. It never errors.

var (
	mdLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]*)(?:\s+"[^"]*")?\)`)
	jsFragment    = regexp.MustCompile(`(?i)javascript:[^\s"'<>)]*`)
	eventHandler  = regexp.MustCompile(`(?i)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)

	blockedMu      sync.Mutex
	blockedPattern = map[string]*regexp.Regexp{}
)

// blockedElementPattern builds and caches the greedy open/close matcher
// for a blocked element.
func blockedElementPattern(elem string) *regexp.Regexp {
	blockedMu.Lock()
	defer blockedMu.Unlock()
	if re, ok := blockedPattern[elem]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?is)<%s\b[^>]*>.*?</%s\s*>|<%s\b[^>]*/?>`, elem, elem, elem))
	blockedPattern[elem] = re
	return re
}

// Sanitize strips blocked HTML elements, rewrites links whose scheme is
// not allow-listed (keeping the visible text) and removes script-like
// inline constructs. Stripping preserves line structure: a removed
// multi-line element leaves its newlines behind, so line numbers
// collected during validation still address the sanitized text.
func Sanitize(text string, cfg Config) string {
	cfg = cfg.withDefaults()

	for elem := range cfg.BlockedElements {
		text = blockedElementPattern(elem).ReplaceAllStringFunc(text, func(m string) string {
			return strings.Repeat("\n", strings.Count(m, "\n"))
		})
	}

	text = mdLinkPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := mdLinkPattern.FindStringSubmatch(m)
		label, dest := sub[1], sub[2]
		if schemeAllowed(dest, cfg.AllowedSchemes) {
			return m
		}
		return label
	})

	text = jsFragment.ReplaceAllString(text, "")
	text = eventHandler.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat("\n", strings.Count(m, "\n"))
	})
	return text
}

// schemeAllowed reports whether a link destination uses an allow-listed
// scheme. Relative and fragment links carry no scheme and pass.
func schemeAllowed(dest string, allowed map[string]bool) bool {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	return allowed[strings.ToLower(u.Scheme)]
}

// Package validator runs size, nesting and security checks over raw
// Markdown before it reaches the parser. Checks are line-oriented
// heuristics, not a full HTML parse: defense-in-depth ahead of a
// non-executing renderer, cheap enough to run on every parse.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/document"
	"golang.org/x/net/html"
)

// Config controls validation behavior.
type Config struct {
	MaxBytes        int64
	MaxNesting      int
	AllowUnsafeHTML bool
	BlockedElements map[string]bool
	AllowedSchemes  map[string]bool
}

// DefaultConfig returns the shipped defaults: 2 MiB size cap, nesting
// depth 16, HTML blocked-element and link-scheme allow lists.
func DefaultConfig() Config {
	return Config{
		MaxBytes:   2 * 1024 * 1024,
		MaxNesting: 16,
		BlockedElements: map[string]bool{
			"script": true, "iframe": true, "object": true, "embed": true, "form": true,
		},
		AllowedSchemes: map[string]bool{
			"http": true, "https": true, "mailto": true, "file": true,
		},
	}
}

// FromAppConfig builds a validator config from the application config.
func FromAppConfig(app config.Config) Config {
	cfg := Config{
		MaxBytes:        app.MaxDocumentBytes,
		MaxNesting:      app.MaxNestingLevel,
		AllowUnsafeHTML: app.AllowUnsafeHTML,
		BlockedElements: make(map[string]bool, len(app.BlockedElements)),
		AllowedSchemes:  make(map[string]bool, len(app.AllowedSchemes)),
	}
	for _, e := range app.BlockedElements {
		cfg.BlockedElements[strings.ToLower(e)] = true
	}
	for _, s := range app.AllowedSchemes {
		cfg.AllowedSchemes[strings.ToLower(s)] = true
	}
	return cfg
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxBytes <= 0 {
		c.MaxBytes = d.MaxBytes
	}
	if c.MaxNesting <= 0 {
		c.MaxNesting = d.MaxNesting
	}
	if c.BlockedElements == nil {
		c.BlockedElements = d.BlockedElements
	}
	if c.AllowedSchemes == nil {
		c.AllowedSchemes = d.AllowedSchemes
	}
	return c
}

// Result is the outcome of the lenient validation path. Errors are
// collected, not thrown; Sanitized carries the cleaned content.
type Result struct {
	IsValid   bool
	Errors    []document.SyntaxError
	Sanitized string
}

var (
	dangerousPattern = regexp.MustCompile(`(?i)(<script|javascript:|data:text/html|vbscript:|<iframe|<object|<embed)`)
	linkPattern      = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	htmlTagPattern   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// CheckSize enforces the byte cap. Callers pass the complete source text,
// front matter included: the cap bounds what was handed over, not what
// survives preprocessing.
func CheckSize(text string, cfg Config) error {
	cfg = cfg.withDefaults()
	if int64(len(text)) > cfg.MaxBytes {
		return document.NewLoadError(document.FailFileTooLarge,
			fmt.Errorf("document is %d bytes, limit is %d", len(text), cfg.MaxBytes))
	}
	return nil
}

// Validate is the strict form: the first failed check aborts with a
// LoadError (size) or a SyntaxError for everything else.
func Validate(text string, cfg Config) error {
	cfg = cfg.withDefaults()

	if err := CheckSize(text, cfg); err != nil {
		return err
	}
	if e := checkNesting(text, cfg); e != nil {
		return *e
	}
	if e := checkSyntax(text); e != nil {
		return *e
	}
	if e := checkSecurity(text, cfg); e != nil {
		return *e
	}
	return nil
}

// ValidateCollectingErrors is the tolerant form used on the load path: a
// single malformed line must not blank the whole document. Only the size
// cap renders the result invalid outright.
func ValidateCollectingErrors(text string, cfg Config) Result {
	cfg = cfg.withDefaults()
	res := Result{IsValid: true, Sanitized: text}

	if int64(len(text)) > cfg.MaxBytes {
		res.IsValid = false
		res.Errors = append(res.Errors, newSyntaxError(1, 1, document.ErrFileTooLarge,
			fmt.Sprintf("document is %d bytes, limit is %d", len(text), cfg.MaxBytes),
			document.SeverityError))
		return res
	}

	res.Errors = append(res.Errors, collectNesting(text, cfg)...)
	res.Errors = append(res.Errors, collectSyntax(text)...)
	res.Errors = append(res.Errors, collectSecurity(text, cfg)...)
	res.Sanitized = Sanitize(text, cfg)
	return res
}

func newSyntaxError(line, col int, kind document.ErrorKind, msg string, sev document.Severity) document.SyntaxError {
	return document.SyntaxError{
		ID:       document.NewID(),
		Line:     line,
		Column:   col,
		Kind:     kind,
		Message:  msg,
		Severity: sev,
	}
}

// nestingDepths reports the list-indentation depth and blockquote depth of
// a single line.
func nestingDepths(line string) (listDepth, quoteDepth int) {
	leading := 0
	for _, r := range line {
		if r != ' ' {
			break
		}
		leading++
	}
	listDepth = leading / 2

	rest := strings.TrimLeft(line, " ")
	for len(rest) > 0 && rest[0] == '>' {
		quoteDepth++
		rest = strings.TrimLeft(rest[1:], " ")
	}
	return listDepth, quoteDepth
}

func checkNesting(text string, cfg Config) *document.SyntaxError {
	for i, line := range strings.Split(text, "\n") {
		listDepth, quoteDepth := nestingDepths(line)
		if listDepth > cfg.MaxNesting || quoteDepth > cfg.MaxNesting {
			e := newSyntaxError(i+1, 1, document.ErrExcessiveNesting,
				fmt.Sprintf("nesting exceeds maximum depth of %d", cfg.MaxNesting),
				document.SeverityError)
			return &e
		}
	}
	return nil
}

func collectNesting(text string, cfg Config) []document.SyntaxError {
	var errs []document.SyntaxError
	for i, line := range strings.Split(text, "\n") {
		listDepth, quoteDepth := nestingDepths(line)
		if listDepth > cfg.MaxNesting || quoteDepth > cfg.MaxNesting {
			errs = append(errs, newSyntaxError(i+1, 1, document.ErrExcessiveNesting,
				fmt.Sprintf("nesting exceeds maximum depth of %d", cfg.MaxNesting),
				document.SeverityError))
		}
	}
	return errs
}

// lineSyntaxIssue flags a line that looks like a broken table row or a
// broken link. Returns nil when the line is fine.
func lineSyntaxIssue(lineNo int, line string) *document.SyntaxError {
	if strings.Contains(line, "|") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
			e := newSyntaxError(lineNo, strings.Index(line, "|")+1, document.ErrMalformedTable,
				"table row must start and end with '|'", document.SeverityWarning)
			return &e
		}
	}
	if strings.Contains(line, "](") && !linkPattern.MatchString(line) {
		e := newSyntaxError(lineNo, strings.Index(line, "](")+1, document.ErrMalformedLink,
			"link must match [text](url)", document.SeverityWarning)
		return &e
	}
	return nil
}

func checkSyntax(text string) *document.SyntaxError {
	for i, line := range strings.Split(text, "\n") {
		if e := lineSyntaxIssue(i+1, line); e != nil {
			return e
		}
	}
	return nil
}

func collectSyntax(text string) []document.SyntaxError {
	var errs []document.SyntaxError
	for i, line := range strings.Split(text, "\n") {
		if e := lineSyntaxIssue(i+1, line); e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

func checkSecurity(text string, cfg Config) *document.SyntaxError {
	errs := collectSecurity(text, cfg)
	if len(errs) > 0 {
		return &errs[0]
	}
	return nil
}

func collectSecurity(text string, cfg Config) []document.SyntaxError {
	var errs []document.SyntaxError
	for i, line := range strings.Split(text, "\n") {
		if loc := dangerousPattern.FindStringIndex(line); loc != nil {
			errs = append(errs, newSyntaxError(i+1, loc[0]+1, document.ErrDangerousContent,
				fmt.Sprintf("dangerous content %q", line[loc[0]:loc[1]]),
				document.SeverityError))
			continue
		}
		if cfg.AllowUnsafeHTML || !strings.Contains(line, "<") {
			continue
		}
		for _, tag := range tagNames(line) {
			if cfg.BlockedElements[tag] {
				errs = append(errs, newSyntaxError(i+1, 1, document.ErrBlockedHTMLElement,
					fmt.Sprintf("HTML element <%s> is not allowed", tag),
					document.SeverityError))
				break
			}
		}
	}
	return errs
}

// tagNames extracts lowercase HTML tag names from a fragment using the
// streaming tokenizer, so attribute noise and odd casing do not fool the
// blocked-element check.
func tagNames(fragment string) []string {
	if !htmlTagPattern.MatchString(fragment) {
		return nil
	}
	var names []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return names
		}
		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			names = append(names, strings.ToLower(string(name)))
		}
	}
}

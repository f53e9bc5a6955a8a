package document

import "fmt"

// ErrorKind tags a recoverable syntax issue found during validation or
// tolerant parsing.
type ErrorKind string

const (
	ErrExcessiveNesting   ErrorKind = "excessive_nesting"
	ErrMalformedTable     ErrorKind = "malformed_table"
	ErrMalformedLink      ErrorKind = "malformed_link"
	ErrDangerousContent   ErrorKind = "dangerous_content"
	ErrFileTooLarge       ErrorKind = "file_too_large"
	ErrBlockedHTMLElement ErrorKind = "blocked_html_element"
	ErrInvalidURL         ErrorKind = "invalid_url"
)

// Severity controls how a syntax error is surfaced.
//
//	error:   the offending construct is not rendered, the document still is
//	warning: rendered with a visible marker
//	info:    silent metadata only
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// SyntaxError is a recoverable issue attached to a Model. Collected, never
// thrown: a document with syntax errors still renders best-effort.
type SyntaxError struct {
	ID       string    `json:"id"`
	Line     int       `json:"line"` // 1-based
	Column   int       `json:"column"`
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

// FailureKind classifies unrecoverable load failures.
type FailureKind string

const (
	FailFileNotFound        FailureKind = "file_not_found"
	FailAccessDenied        FailureKind = "access_denied"
	FailFileTooLarge        FailureKind = "file_too_large"
	FailParse               FailureKind = "parse_failure"
	FailCorruptedContent    FailureKind = "corrupted_content"
	FailUnsupportedEncoding FailureKind = "unsupported_encoding"
)

// LoadError is returned when no usable document can be produced. The caller
// shows an error state with retry; nothing partial is published.
type LoadError struct {
	Kind FailureKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError wraps err with a failure classification.
func NewLoadError(kind FailureKind, err error) *LoadError {
	return &LoadError{Kind: kind, Err: err}
}

package document

import (
	"bytes"
	"time"
)

// Reference identifies a document source. It is created when a document is
// selected and compared by value to detect external changes; the core never
// performs file I/O itself.
type Reference struct {
	Path        string    `json:"path"`
	AccessToken []byte    `json:"-"` // opaque capability for sandboxed re-access
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
}

// Equal reports whether two references identify the same source state.
// A mod-time or size difference means the source changed on disk.
func (r Reference) Equal(other Reference) bool {
	return r.Path == other.Path &&
		r.ModTime.Equal(other.ModTime) &&
		r.Size == other.Size &&
		bytes.Equal(r.AccessToken, other.AccessToken)
}

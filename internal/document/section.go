package document

// RenderPriority orders first-paint work. The first section of a document
// is high priority; everything below the fold is normal.
type RenderPriority string

const (
	PriorityHigh   RenderPriority = "high"
	PriorityNormal RenderPriority = "normal"
)

// LineRange is a half-open range of 0-based line indices.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines covered.
func (lr LineRange) Len() int { return lr.End - lr.Start }

// RenderedSection is the unit of viewport virtualization: a contiguous
// slice of the assembled styled content plus a height estimate. Sections
// reference sub-ranges of the model's content, they never copy the whole
// document. The set is regenerated wholesale on every new Model.
type RenderedSection struct {
	ID              string         `json:"id"`
	Span            Range          `json:"span"`
	Content         StyledText     `json:"-"`
	EstimatedHeight float64        `json:"estimated_height"`
	Priority        RenderPriority `json:"priority"`
	Lines           LineRange      `json:"lines"`
}

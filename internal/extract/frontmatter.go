package extract

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter splits a leading YAML front matter block from the content.
// The block must open with "---" on the very first line and close with
// "---" or "...". Returns the parsed mapping, the remaining body and
// whether a block was found; malformed YAML is treated as no front matter
// so the document still loads.
func FrontMatter(content string) (meta map[string]any, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") && content != "---" {
		return nil, content, false
	}

	rest := strings.TrimPrefix(content, "---\n")
	end := -1
	offset := 0
	for _, fence := range []string{"\n---\n", "\n...\n"} {
		if i := strings.Index(rest, fence); i >= 0 && (end == -1 || i < end) {
			end = i
			offset = len(fence)
		}
	}
	if end == -1 {
		// Closing fence on the final line without a trailing newline.
		for _, fence := range []string{"\n---", "\n..."} {
			if strings.HasSuffix(rest, fence) {
				end = len(rest) - len(fence)
				offset = len(fence)
				break
			}
		}
	}
	if end == -1 {
		return nil, content, false
	}

	block := rest[:end]
	meta = map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, content, false
	}
	return meta, rest[end+offset:], true
}

// FrontMatterTitle returns the front matter "title" value when present.
func FrontMatterTitle(meta map[string]any) string {
	if meta == nil {
		return ""
	}
	if t, ok := meta["title"].(string); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

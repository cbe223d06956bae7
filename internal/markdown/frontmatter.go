package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata holds the recognised front-matter keys of a page.
type Metadata struct {
	Title    string
	Category string
}

const delimiter = "---"

// extractFrontMatter splits a leading "---" delimited YAML block from the
// body. A block without a closing delimiter is left in the body. A block that
// is not valid YAML yields empty metadata and is still removed.
func extractFrontMatter(content []byte) (Metadata, []byte) {
	raw, body, ok := splitFrontMatter(content)
	if !ok {
		return Metadata{}, content
	}
	return parseMetadata(raw), body
}

func splitFrontMatter(content []byte) (raw, body []byte, ok bool) {
	nl := newlineOf(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false
	}

	rest := content[len(open):]
	if isDelimiterLine(rest, nl) {
		return nil, trimLine(rest, nl), true
	}

	closeSeq := []byte(nl + delimiter)
	offset := 0
	for {
		idx := bytes.Index(rest[offset:], closeSeq)
		if idx < 0 {
			return nil, content, false
		}
		start := offset + idx + len(nl)
		if isDelimiterLine(rest[start:], nl) {
			return rest[:start], trimLine(rest[start:], nl), true
		}
		offset = start
	}
}

// isDelimiterLine reports whether b starts with a line consisting solely of "---".
func isDelimiterLine(b []byte, nl string) bool {
	if !bytes.HasPrefix(b, []byte(delimiter)) {
		return false
	}
	after := b[len(delimiter):]
	return len(after) == 0 || bytes.HasPrefix(after, []byte(nl))
}

func trimLine(b []byte, nl string) []byte {
	b = b[len(delimiter):]
	return bytes.TrimPrefix(b, []byte(nl))
}

func newlineOf(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func parseMetadata(raw []byte) Metadata {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Metadata{}
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return Metadata{}
	}
	return Metadata{
		Title:    scalarString(fields["title"]),
		Category: scalarString(fields["category"]),
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

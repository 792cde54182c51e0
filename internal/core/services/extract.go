package services

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// entryHeadingLevel is the Markdown heading level of release entries.
const entryHeadingLevel = 2

// ExtractEntry returns the body of the entry for version in the document,
// trimmed. The body runs from the line after the entry heading up to the
// next entry heading or the end of the document.
func ExtractEntry(doc string, version domain.Version) (string, bool) {
	src := []byte(doc)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	want := []byte("[" + version.String() + "]")
	bodyStart, bodyEnd := -1, len(src)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != entryHeadingLevel || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		title := seg.Value(src)

		if bodyStart >= 0 {
			if bytes.HasPrefix(title, []byte("[")) {
				bodyEnd = lineStart(src, seg.Start)
				break
			}
			continue
		}

		if bytes.HasPrefix(title, want) {
			bodyStart = lineEnd(src, seg.Stop)
		}
	}

	if bodyStart < 0 {
		return "", false
	}
	if bodyStart > bodyEnd {
		bodyStart = bodyEnd
	}
	return strings.TrimSpace(string(src[bodyStart:bodyEnd])), true
}

// ReleaseBody returns the hosted release body for version: the document
// entry when there is one, otherwise a one-line fallback.
func ReleaseBody(doc *string, version domain.Version) string {
	if doc == nil {
		return FallbackReleaseBody(version)
	}
	if body, ok := ExtractEntry(*doc, version); ok && body != "" {
		return body
	}
	return FallbackReleaseBody(version)
}

func lineStart(src []byte, pos int) int {
	i := bytes.LastIndexByte(src[:pos], '\n')
	return i + 1
}

func lineEnd(src []byte, pos int) int {
	i := bytes.IndexByte(src[pos:], '\n')
	if i < 0 {
		return len(src)
	}
	return pos + i + 1
}

package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// frontmatterDelimiter opens and closes a fragment header block.
const frontmatterDelimiter = "---"

// headerLine matches one "key: value" pair inside a header block.
var headerLine = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.*?)\s*$`)

// Frontmatter is the result of splitting a fragment into header and body.
type Frontmatter struct {
	// Header holds the parsed key/value pairs. Never nil.
	Header map[string]string

	// HasHeader reports whether a delimited block was found.
	HasHeader bool

	// Body is the remaining text, trimmed.
	Body string
}

// ParseFrontmatter splits raw fragment text into an optional header block
// and a body. It never fails: without a well-formed block the whole input
// is the body.
func ParseFrontmatter(raw string) Frontmatter {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	result := Frontmatter{Header: make(map[string]string)}

	if len(lines) < 2 || !isDelimiter(lines[0]) {
		result.Body = strings.TrimSpace(text)
		return result
	}

	// The block needs at least one line between the delimiters.
	closing := -1
	for i := 2; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			closing = i
			break
		}
	}
	if closing < 0 {
		result.Body = strings.TrimSpace(text)
		return result
	}

	for _, line := range lines[1:closing] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := headerLine.FindStringSubmatch(line)
		if m == nil || m[2] == "" {
			continue
		}
		result.Header[m[1]] = m[2]
	}

	result.HasHeader = true
	result.Body = strings.TrimSpace(strings.Join(lines[closing+1:], "\n"))
	return result
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == frontmatterDelimiter
}

// ParseFragment builds a fragment from its file name and raw content.
func ParseFragment(name string, raw []byte) domain.Fragment {
	fm := ParseFrontmatter(string(raw))

	frag := domain.Fragment{
		Name:   name,
		Raw:    raw,
		Header: fm.Header,
		Body:   fm.Body,
	}

	if v, ok := fm.Header[domain.BumpHeaderKey]; ok {
		if bump, err := domain.ParseBumpKind(v); err == nil {
			frag.DeclaredBump = &bump
		}
	}

	return frag
}

// ParseFragments parses every fragment returned by a store.
func ParseFragments(fragments []domain.Fragment) []domain.Fragment {
	parsed := make([]domain.Fragment, len(fragments))
	for i, f := range fragments {
		parsed[i] = ParseFragment(f.Name, f.Raw)
	}
	return parsed
}

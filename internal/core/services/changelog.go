package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// InsertMarker is the sentinel line that marks where new entries go.
const InsertMarker = "<!-- changelog-insert-here -->"

// entryHeadingPrefix starts every version heading in the document.
const entryHeadingPrefix = "## ["

// changelogPreamble opens a newly created release-note document.
const changelogPreamble = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.0.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

`

// InsertPosition records which rule placed a new entry in the document.
type InsertPosition string

// Insertion rules, in order of precedence.
const (
	InsertAfterMarker   InsertPosition = "after_marker"
	InsertBeforeHeading InsertPosition = "before_heading"
	InsertAppend        InsertPosition = "append"
	InsertCreate        InsertPosition = "create"
)

// AssembleEntry merges fragment bodies, in name order, into one release
// entry. Empty bodies are skipped. Returns domain.ErrNothingToRelease when
// no body remains.
func AssembleEntry(fragments []domain.Fragment, version domain.Version, date time.Time) (domain.ReleaseEntry, error) {
	bodies := make([]string, 0, len(fragments))
	for _, f := range domain.SortFragments(fragments) {
		body := strings.TrimSpace(f.Body)
		if body == "" {
			continue
		}
		bodies = append(bodies, body)
	}

	if len(bodies) == 0 {
		return domain.ReleaseEntry{}, domain.ErrNothingToRelease
	}

	return domain.ReleaseEntry{
		Version: version,
		Date:    date,
		Body:    strings.Join(bodies, "\n\n"),
	}, nil
}

// RenderEntry returns the block inserted into the document for entry.
// The block starts with a newline so it separates itself from what
// precedes it.
func RenderEntry(entry domain.ReleaseEntry) string {
	return "\n" + entry.Heading() + "\n\n" + entry.Body + "\n"
}

// InsertEntry places a rendered entry block into the document. A nil doc
// means the document does not exist yet. Existing entries are never moved
// or rewritten.
func InsertEntry(doc *string, block string) (string, InsertPosition) {
	if doc == nil {
		return changelogPreamble + InsertMarker + "\n" + block, InsertCreate
	}

	content := *doc

	if strings.Contains(content, InsertMarker) {
		return strings.Replace(content, InsertMarker, InsertMarker+block, 1), InsertAfterMarker
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, entryHeadingPrefix) {
			continue
		}
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:i]...)
		out = append(out, block)
		out = append(out, lines[i:]...)
		return strings.Join(out, "\n"), InsertBeforeHeading
	}

	return content + block, InsertAppend
}

// FallbackReleaseBody is used when the document has no entry for version.
func FallbackReleaseBody(version domain.Version) string {
	return fmt.Sprintf("Release %s", version.Tag())
}

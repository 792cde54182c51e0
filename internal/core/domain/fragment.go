package domain

import "sort"

// ReservedFragmentName is the directory documentation file that is never
// treated as a fragment.
const ReservedFragmentName = "README.md"

// FragmentExt is the file extension every fragment carries.
const FragmentExt = ".md"

// BumpHeaderKey is the frontmatter key a fragment uses to declare its bump.
const BumpHeaderKey = "bump"

// Fragment is one pending unit of release-note content.
type Fragment struct {
	// Name orders fragments (lexicographic ascending).
	Name string

	// Raw is the file content as read. Kept so a failed release can put
	// the fragment back.
	Raw []byte

	// Header holds the parsed frontmatter pairs. Never nil.
	Header map[string]string

	// DeclaredBump is nil when the header is absent or its bump value is
	// not a known kind.
	DeclaredBump *BumpKind

	// Body is the note text with the header removed, trimmed.
	Body string
}

// SortFragments returns a copy of fragments ordered by name.
func SortFragments(fragments []Fragment) []Fragment {
	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// FragmentNames returns the names of fragments in their given order.
func FragmentNames(fragments []Fragment) []string {
	names := make([]string, len(fragments))
	for i, f := range fragments {
		names[i] = f.Name
	}
	return names
}

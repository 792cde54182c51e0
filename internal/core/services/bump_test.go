package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

func fragment(name, raw string) domain.Fragment {
	return ParseFragment(name, []byte(raw))
}

func bumpFragment(name string, bump domain.BumpKind) domain.Fragment {
	return fragment(name, "---\nbump: "+bump.String()+"\n---\n"+name)
}

func TestResolveBump_HighestWins(t *testing.T) {
	fragments := []domain.Fragment{
		bumpFragment("1.md", domain.BumpPatch),
		bumpFragment("2.md", domain.BumpMajor),
		bumpFragment("3.md", domain.BumpMinor),
	}

	decision := ResolveBump(fragments, domain.BumpPatch)

	assert.Equal(t, domain.BumpMajor, decision.Bump)
	assert.Equal(t, 3, decision.FragmentCount)
}

func TestResolveBump_EmptySetUsesDefault(t *testing.T) {
	decision := ResolveBump(nil, domain.BumpMinor)

	assert.Equal(t, domain.BumpMinor, decision.Bump)
	assert.Equal(t, 0, decision.FragmentCount)
	assert.Empty(t, decision.Declarations)
}

func TestResolveBump_NoDeclarationsUsesDefault(t *testing.T) {
	fragments := []domain.Fragment{
		fragment("a.md", "Fixed a"),
		fragment("b.md", "---\nbump: enormous\n---\nFixed b"),
		fragment("c.md", "---\nscope: docs\n---\nFixed c"),
	}

	decision := ResolveBump(fragments, domain.BumpMinor)

	assert.Equal(t, domain.BumpMinor, decision.Bump)
	assert.Equal(t, 3, decision.FragmentCount)
}

func TestResolveBump_DefaultCanOutrankDeclarations(t *testing.T) {
	fragments := []domain.Fragment{bumpFragment("a.md", domain.BumpPatch)}

	decision := ResolveBump(fragments, domain.BumpMajor)

	assert.Equal(t, domain.BumpMajor, decision.Bump)
}

func TestResolveBump_OrderIndependent(t *testing.T) {
	a := bumpFragment("a.md", domain.BumpMinor)
	b := fragment("b.md", "no header")
	c := bumpFragment("c.md", domain.BumpPatch)
	d := bumpFragment("d.md", domain.BumpMajor)

	permutations := [][]domain.Fragment{
		{a, b, c, d},
		{d, c, b, a},
		{b, d, a, c},
		{c, a, d, b},
	}

	want := ResolveBump(permutations[0], domain.BumpPatch)
	for _, p := range permutations[1:] {
		got := ResolveBump(p, domain.BumpPatch)
		assert.Equal(t, want.Bump, got.Bump)
		assert.Equal(t, want.Declarations, got.Declarations)
	}
}

func TestResolveBump_DeclarationsInNameOrder(t *testing.T) {
	fragments := []domain.Fragment{
		bumpFragment("z.md", domain.BumpMajor),
		fragment("a.md", "plain"),
	}

	decision := ResolveBump(fragments, domain.BumpPatch)

	assert.Len(t, decision.Declarations, 2)
	assert.Equal(t, "a.md", decision.Declarations[0].Name)
	assert.Nil(t, decision.Declarations[0].Declared)
	assert.Equal(t, "z.md", decision.Declarations[1].Name)
	assert.Equal(t, domain.BumpMajor, *decision.Declarations[1].Declared)
}

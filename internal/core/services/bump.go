package services

import (
	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/logger"
)

// ResolveBump reduces fragments to a single bump kind: the most significant
// of every declared bump and def. The reduction does not depend on input
// order; fragments are sorted by name only for the diagnostic listing.
func ResolveBump(fragments []domain.Fragment, def domain.BumpKind) domain.BumpDecision {
	decision := domain.BumpDecision{
		Bump:          def,
		FragmentCount: len(fragments),
		Declarations:  make([]domain.FragmentBump, 0, len(fragments)),
	}

	for _, f := range domain.SortFragments(fragments) {
		decision.Declarations = append(decision.Declarations, domain.FragmentBump{
			Name:     f.Name,
			Declared: f.DeclaredBump,
		})

		if f.DeclaredBump == nil {
			logger.Debug("fragment %s: no bump specified, using default", f.Name)
			continue
		}
		logger.Debug("fragment %s: bump=%s", f.Name, *f.DeclaredBump)
		decision.Bump = domain.MaxBump(decision.Bump, *f.DeclaredBump)
	}

	return decision
}

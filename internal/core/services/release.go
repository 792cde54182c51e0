package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
	"github.com/custodia-labs/shipnote/internal/core/ports/driving"
	"github.com/custodia-labs/shipnote/internal/logger"
)

// Ensure ReleaseService implements the interface.
var _ driving.ReleaseService = (*ReleaseService)(nil)

// ReleaseService drives the release state machine.
//
// A run moves through plan → probe → apply → stage → commit. Each step
// either hands over to the next or ends the run in one of the terminal
// states: AlreadyReleased, NoChanges or Committed. Only this service
// touches the stores.
type ReleaseService struct {
	fragments driven.FragmentStore
	manifest  driven.ManifestStore
	notes     driven.NotesStore
	vcs       driven.VCS
	settings  domain.ReleaseSettings
	now       func() time.Time
}

// NewReleaseService creates a new release service.
func NewReleaseService(
	fragments driven.FragmentStore,
	manifest driven.ManifestStore,
	notes driven.NotesStore,
	vcs driven.VCS,
	settings domain.ReleaseSettings,
) *ReleaseService {
	return &ReleaseService{
		fragments: fragments,
		manifest:  manifest,
		notes:     notes,
		vcs:       vcs,
		settings:  settings,
		now:       time.Now,
	}
}

// SetClock replaces the clock used to date release entries.
func (s *ReleaseService) SetClock(now func() time.Time) {
	s.now = now
}

// releaseStep is one state of the machine. It returns the next step, or
// nil once the run's transition has reached its final state.
type releaseStep func(ctx context.Context, run *releaseRun) (releaseStep, error)

// releaseRun carries the working state of one Release call.
type releaseRun struct {
	req        driving.ReleaseRequest
	transition *domain.ReleaseTransition
	fragments  []domain.Fragment
	snapshot   *releaseSnapshot
	deleting   bool
	staged     []string
	committed  bool
}

// releaseSnapshot holds what apply overwrites, so a failure before the
// commit can put it back.
type releaseSnapshot struct {
	manifest []byte
	notes    *string
}

// Release runs the full transition. Every terminal state is a successful
// return; only failures to reach one are errors.
func (s *ReleaseService) Release(ctx context.Context, req driving.ReleaseRequest) (*domain.ReleaseTransition, error) {
	run := &releaseRun{
		req: req,
		transition: &domain.ReleaseTransition{
			ID:     uuid.New().String(),
			State:  domain.StatePending,
			DryRun: req.DryRun,
		},
	}

	logger.Section("Release " + run.transition.ID)

	var (
		step releaseStep = s.plan
		err  error
	)
	for step != nil {
		if step, err = step(ctx, run); err != nil {
			break
		}
	}

	if err != nil {
		if run.snapshot != nil && !run.committed {
			if rbErr := s.rollback(ctx, run); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			} else {
				logger.Warn("release %s failed, working tree restored", run.transition.Target)
			}
		}
		return run.transition, err
	}

	logger.Info("release %s finished: %s", run.transition.Target, run.transition.State)
	return run.transition, nil
}

// plan reads the current version and fragments and computes the target.
func (s *ReleaseService) plan(ctx context.Context, run *releaseRun) (releaseStep, error) {
	current, err := s.manifest.ReadVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read version from %s: %w", s.manifest.Path(), err)
	}

	fragments, err := s.loadFragments(ctx)
	if err != nil {
		return nil, err
	}

	bump := s.settings.DefaultBump
	if run.req.DefaultBump != nil {
		bump = *run.req.DefaultBump
	}
	if run.req.Bump != nil {
		bump = *run.req.Bump
	} else {
		bump = ResolveBump(fragments, bump).Bump
	}
	if !bump.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBump, bump)
	}

	t := run.transition
	t.Current = current
	t.Bump = bump
	t.Target = current.Next(bump)
	t.Fragments = domain.FragmentNames(fragments)
	run.fragments = fragments

	logger.Info("current version %s, bump %s, target %s (%d fragment(s))",
		current, bump, t.Target, len(fragments))
	return s.probe, nil
}

// probe checks the release marker. An existing tag ends the run.
func (s *ReleaseService) probe(ctx context.Context, run *releaseRun) (releaseStep, error) {
	tag := run.transition.Target.Tag()

	exists, err := s.vcs.TagExists(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("check tag %s: %w", tag, err)
	}
	if exists {
		logger.Info("tag %s already exists", tag)
		run.transition.State = domain.StateAlreadyReleased
		return nil, nil
	}

	if run.req.DryRun {
		logger.Info("dry run, no changes made")
		return nil, nil
	}
	return s.apply, nil
}

// apply writes the new version and folds the fragments into the document.
func (s *ReleaseService) apply(ctx context.Context, run *releaseRun) (releaseStep, error) {
	manifestRaw, err := s.manifest.ReadRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot manifest: %w", err)
	}
	doc, err := s.notes.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.notes.Path(), err)
	}
	run.snapshot = &releaseSnapshot{manifest: manifestRaw, notes: doc}

	t := run.transition
	if err := s.manifest.WriteVersion(ctx, t.Target); err != nil {
		return nil, fmt.Errorf("write version: %w", err)
	}
	logger.Debug("updated %s to version %s", s.manifest.Path(), t.Target)

	written, err := s.writeEntry(ctx, doc, run.fragments, t.Target)
	if err != nil {
		return nil, err
	}
	t.EntryWritten = written

	if len(run.fragments) > 0 {
		// Delete may stop partway, so rollback restores from here on.
		run.deleting = true
		if err := s.fragments.Delete(ctx, t.Fragments); err != nil {
			return nil, fmt.Errorf("remove fragments: %w", err)
		}
		t.FragmentsConsumed = true
		logger.Debug("removed %d fragment(s) from %s", len(t.Fragments), s.fragments.Dir())
	}

	return s.stage, nil
}

// stage records the modified files and decides whether anything changed.
func (s *ReleaseService) stage(ctx context.Context, run *releaseRun) (releaseStep, error) {
	paths := []string{s.manifest.Path()}
	if run.snapshot.notes != nil || run.transition.EntryWritten {
		paths = append(paths, s.notes.Path())
	}
	if run.transition.FragmentsConsumed {
		paths = append(paths, s.fragments.Dir())
	}

	if err := s.vcs.Stage(ctx, paths...); err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	run.staged = paths

	changed, err := s.vcs.HasStagedChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("diff staged: %w", err)
	}
	if !changed {
		logger.Info("no changes to commit")
		run.transition.State = domain.StateNoChanges
		return nil, nil
	}
	return s.commit, nil
}

// commit records, tags and pushes the release.
func (s *ReleaseService) commit(ctx context.Context, run *releaseRun) (releaseStep, error) {
	tag := run.transition.Target.Tag()

	if s.settings.Identity.IsConfigured() {
		if err := s.vcs.ConfigureIdentity(ctx, s.settings.Identity); err != nil {
			return nil, fmt.Errorf("configure identity: %w", err)
		}
	}

	if err := s.vcs.Commit(ctx, withDescription("chore: release "+tag, run.req.Description)); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	run.committed = true
	logger.Info("committed version %s", run.transition.Target)

	if err := s.vcs.CreateTag(ctx, tag, withDescription("Release "+tag, run.req.Description)); err != nil {
		return nil, fmt.Errorf("create tag %s: %w", tag, err)
	}
	if err := s.vcs.Push(ctx, s.settings.Remote); err != nil {
		return nil, fmt.Errorf("push to %s: %w", s.settings.Remote, err)
	}
	if err := s.vcs.PushTag(ctx, s.settings.Remote, tag); err != nil {
		return nil, fmt.Errorf("push tag %s to %s: %w", tag, s.settings.Remote, err)
	}
	logger.Info("pushed changes and tag %s", tag)

	run.transition.State = domain.StateCommitted
	return nil, nil
}

// rollback restores everything apply changed. Paths already staged are
// staged again so the index matches the restored tree.
func (s *ReleaseService) rollback(ctx context.Context, run *releaseRun) error {
	var errs []error

	if err := s.manifest.WriteRaw(ctx, run.snapshot.manifest); err != nil {
		errs = append(errs, fmt.Errorf("restore manifest: %w", err))
	}

	if run.transition.EntryWritten {
		var err error
		if run.snapshot.notes == nil {
			err = s.notes.Remove(ctx)
		} else {
			err = s.notes.Write(ctx, *run.snapshot.notes)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", s.notes.Path(), err))
		}
	}

	if run.deleting {
		if err := s.fragments.Restore(ctx, run.fragments); err != nil {
			errs = append(errs, fmt.Errorf("restore fragments: %w", err))
		}
	}

	if len(errs) == 0 && len(run.staged) > 0 {
		if err := s.vcs.Stage(ctx, run.staged...); err != nil {
			errs = append(errs, fmt.Errorf("unstage release changes: %w", err))
		}
	}

	return errors.Join(errs...)
}

// writeEntry assembles and inserts the entry for version. It reports false
// without error when the fragments carry no content.
func (s *ReleaseService) writeEntry(
	ctx context.Context,
	doc *string,
	fragments []domain.Fragment,
	version domain.Version,
) (bool, error) {
	entry, err := AssembleEntry(fragments, version, s.now())
	if errors.Is(err, domain.ErrNothingToRelease) {
		logger.Info("no changelog content for %s", version)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	content, pos := InsertEntry(doc, RenderEntry(entry))
	if err := s.notes.Write(ctx, content); err != nil {
		return false, fmt.Errorf("write %s: %w", s.notes.Path(), err)
	}
	logger.Debug("inserted %s entry (%s)", version, pos)
	return true, nil
}

// loadFragments lists and parses the pending fragments.
func (s *ReleaseService) loadFragments(ctx context.Context) ([]domain.Fragment, error) {
	raw, err := s.fragments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fragments in %s: %w", s.fragments.Dir(), err)
	}
	return ParseFragments(raw), nil
}

// DetermineBump resolves the bump kind from pending fragments.
func (s *ReleaseService) DetermineBump(ctx context.Context, def *domain.BumpKind) (*domain.BumpDecision, error) {
	fallback := s.settings.DefaultBump
	if def != nil {
		fallback = *def
	}

	fragments, err := s.loadFragments(ctx)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		logger.Info("no changelog fragments found")
	}

	decision := ResolveBump(fragments, fallback)
	return &decision, nil
}

// BumpVersion rewrites the manifest version only.
func (s *ReleaseService) BumpVersion(ctx context.Context, bump domain.BumpKind, dryRun bool) (*driving.BumpResult, error) {
	if !bump.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBump, bump)
	}

	current, err := s.manifest.ReadVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read version from %s: %w", s.manifest.Path(), err)
	}

	result := &driving.BumpResult{Previous: current, Current: current.Next(bump), DryRun: dryRun}
	if dryRun {
		return result, nil
	}

	if err := s.manifest.WriteVersion(ctx, result.Current); err != nil {
		return nil, fmt.Errorf("write version: %w", err)
	}
	return result, nil
}

// CollectChangelog folds pending fragments into the document under the
// current manifest version. Fragments are only removed once the document
// has been written.
func (s *ReleaseService) CollectChangelog(ctx context.Context) (*domain.ReleaseEntry, error) {
	version, err := s.manifest.ReadVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read version from %s: %w", s.manifest.Path(), err)
	}

	fragments, err := s.loadFragments(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := AssembleEntry(fragments, version, s.now())
	if err != nil {
		return nil, err
	}

	doc, err := s.notes.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.notes.Path(), err)
	}
	content, pos := InsertEntry(doc, RenderEntry(entry))
	if err := s.notes.Write(ctx, content); err != nil {
		return nil, fmt.Errorf("write %s: %w", s.notes.Path(), err)
	}
	logger.Debug("inserted %s entry (%s)", version, pos)

	if err := s.fragments.Delete(ctx, domain.FragmentNames(fragments)); err != nil {
		return nil, fmt.Errorf("remove fragments: %w", err)
	}
	return &entry, nil
}

// Status reports what a release would do now.
func (s *ReleaseService) Status(ctx context.Context) (*domain.ReleaseStatus, error) {
	current, err := s.manifest.ReadVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("read version from %s: %w", s.manifest.Path(), err)
	}

	decision, err := s.DetermineBump(ctx, nil)
	if err != nil {
		return nil, err
	}

	target := current.Next(decision.Bump)
	tagged, err := s.vcs.TagExists(ctx, target.Tag())
	if err != nil {
		return nil, fmt.Errorf("check tag %s: %w", target.Tag(), err)
	}

	latest, err := s.vcs.LatestTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return &domain.ReleaseStatus{
		Current:       current,
		Decision:      *decision,
		Target:        target,
		TargetTagged:  tagged,
		LatestTag:     latest,
		ChangelogPath: s.notes.Path(),
	}, nil
}

func withDescription(msg, description string) string {
	if description == "" {
		return msg
	}
	return msg + "\n\n" + description
}

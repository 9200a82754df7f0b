package migration

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/logger"
)

var (
	// ErrNoTypesSelected is returned when a sync is started without codenames.
	ErrNoTypesSelected = errors.New("no content types selected for migration")
	// ErrTypeConflicts is returned when selected types cannot be synced.
	ErrTypeConflicts = errors.New("content type conflicts found")
)

const (
	reasonNotInSource   = "Content type not found in source environment"
	reasonMissingAfter  = "Content type was not found after migration"
	reasonSkippedUpdate = "Target type is older; use overwrite to add missing elements"
)

// TypeClient is the part of the Kontent client used to copy content types.
type TypeClient interface {
	ListContentTypes(ctx context.Context) ([]element.ContentType, error)
	AddContentType(ctx context.Context, ct element.ContentType) (element.ContentType, []string, error)
	ModifyContentType(ctx context.Context, codename string, ops []kontent.PatchOperation) (element.ContentType, error)
	TestConnection(ctx context.Context) error
}

// SyncStep names a phase of a content type sync.
type SyncStep string

const (
	StepConnecting      SyncStep = "connecting"
	StepAnalyzingSource SyncStep = "analyzing-source"
	StepAnalyzingTarget SyncStep = "analyzing-target"
	StepComparing       SyncStep = "comparing"
	StepMigratingTypes  SyncStep = "migrating-types"
	StepValidating      SyncStep = "validating"
	StepCompleted       SyncStep = "completed"
)

// SyncStatus is reported when a sync enters a step or finishes a type.
type SyncStatus struct {
	Step    SyncStep `json:"step"`
	Percent int      `json:"percent"`
	Message string   `json:"message"`
}

// SyncStatusFunc receives sync status updates.
type SyncStatusFunc func(SyncStatus)

// TypeConflict is a selected type that cannot be synced.
type TypeConflict struct {
	Codename string `json:"codename"`
	Reason   string `json:"reason"`
}

// TypePlan is the result of comparing two environments.
type TypePlan struct {
	ToCreate  []element.ContentType `json:"to_create"`
	ToUpdate  []element.ContentType `json:"to_update"`
	UpToDate  []string              `json:"up_to_date"`
	Conflicts []TypeConflict        `json:"conflicts"`
}

// SyncOptions controls Sync.
type SyncOptions struct {
	// DryRun returns the plan without changing the target.
	DryRun bool
	// OverwriteExisting adds source elements missing from outdated target types.
	// Without it outdated types are skipped.
	OverwriteExisting bool
}

// SyncResult describes what a sync changed.
type SyncResult struct {
	Plan    TypePlan `json:"plan"`
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
	// SkippedElements lists, per type, elements that could not be copied.
	SkippedElements map[string][]string `json:"skipped_elements,omitempty"`
	Errors          []TypeConflict      `json:"errors"`
}

// TypeSyncer copies content types from a source to a target environment.
type TypeSyncer struct {
	source TypeClient
	target TypeClient
	log    *logger.Logger
}

// NewTypeSyncer creates a syncer. A nil logger discards output.
func NewTypeSyncer(source, target TypeClient, log *logger.Logger) *TypeSyncer {
	if log == nil {
		log = logger.Discard()
	}

	return &TypeSyncer{source: source, target: target, log: log}
}

// Validate checks the selection and both connections.
func (s *TypeSyncer) Validate(ctx context.Context, codenames []string) error {
	var errs []error

	if len(codenames) == 0 {
		errs = append(errs, ErrNoTypesSelected)
	}

	if err := s.source.TestConnection(ctx); err != nil {
		errs = append(errs, fmt.Errorf("cannot connect to source environment: %w", err))
	}

	if err := s.target.TestConnection(ctx); err != nil {
		errs = append(errs, fmt.Errorf("cannot connect to target environment: %w", err))
	}

	return errors.Join(errs...)
}

// Compare plans the sync of the selected types. A type missing from the
// target is created; a type modified in the source after the target copy
// is updated.
func (s *TypeSyncer) Compare(ctx context.Context, codenames []string) (*TypePlan, error) {
	return s.compare(ctx, codenames, nil)
}

func (s *TypeSyncer) compare(ctx context.Context, codenames []string, report func(SyncStep, int, string)) (*TypePlan, error) {
	if report == nil {
		report = func(SyncStep, int, string) {}
	}

	report(StepAnalyzingSource, 20, "Reading source content types")

	sourceTypes, err := s.source.ListContentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source content types: %w", err)
	}

	report(StepAnalyzingTarget, 40, "Reading target content types")

	targetTypes, err := s.target.ListContentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read target content types: %w", err)
	}

	report(StepComparing, 60, "Comparing content types")

	plan := &TypePlan{}

	for _, codename := range codenames {
		src, ok := element.FindContentType(sourceTypes, codename)
		if !ok {
			plan.Conflicts = append(plan.Conflicts, TypeConflict{Codename: codename, Reason: reasonNotInSource})
			continue
		}

		dst, ok := element.FindContentType(targetTypes, codename)

		switch {
		case !ok:
			plan.ToCreate = append(plan.ToCreate, withPortableReferences(*src, sourceTypes))
		case src.LastModified.After(dst.LastModified):
			plan.ToUpdate = append(plan.ToUpdate, withPortableReferences(*src, sourceTypes))
		default:
			plan.UpToDate = append(plan.UpToDate, codename)
		}
	}

	// Types allowed in linked items of other new types are created first.
	ordered, err := orderByReferences(plan.ToCreate)
	if err != nil {
		s.log.WithError(err).Warn("creating content types in selection order")
	}

	plan.ToCreate = ordered

	return plan, nil
}

// withPortableReferences rewrites the allowed content types of linked items
// elements to codenames, since IDs differ between environments. References
// that cannot be resolved against sourceTypes keep their ID.
func withPortableReferences(ct element.ContentType, sourceTypes []element.ContentType) element.ContentType {
	elements := make([]element.Descriptor, len(ct.Elements))
	copy(elements, ct.Elements)

	for i, d := range elements {
		linked, ok := d.Constraints.(element.LinkedItemsConstraints)
		if !ok || len(linked.AllowedContentTypes) == 0 {
			continue
		}

		refs := make([]element.Reference, 0, len(linked.AllowedContentTypes))

		for _, r := range linked.AllowedContentTypes {
			if r.Codename == "" {
				if found, ok := findTypeByID(sourceTypes, r.ID); ok {
					r.Codename = found.Codename
				}
			}

			if r.Codename != "" {
				r = element.Reference{Codename: r.Codename}
			}

			refs = append(refs, r)
		}

		linked.AllowedContentTypes = refs
		elements[i].Constraints = linked
	}

	ct.Elements = elements

	return ct
}

func findTypeByID(types []element.ContentType, id string) (element.ContentType, bool) {
	for _, ct := range types {
		if id != "" && ct.ID == id {
			return ct, true
		}
	}

	return element.ContentType{}, false
}

// Sync validates, compares and copies the selected types. Conflicts abort
// the sync unless it is a dry run. Failures of single types are collected
// in the result.
func (s *TypeSyncer) Sync(
	ctx context.Context,
	codenames []string,
	opts SyncOptions,
	onStatus SyncStatusFunc,
) (*SyncResult, error) {
	report := func(step SyncStep, percent int, message string) {
		s.log.WithFields(logger.Fields{"step": step, "percent": percent}).Debug(message)

		if onStatus != nil {
			onStatus(SyncStatus{Step: step, Percent: percent, Message: message})
		}
	}

	report(StepConnecting, 10, "Testing connections")

	if err := s.Validate(ctx, codenames); err != nil {
		return nil, err
	}

	plan, err := s.compare(ctx, codenames, report)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Plan: *plan, SkippedElements: map[string][]string{}}

	if opts.DryRun {
		report(StepCompleted, 100, "Dry run completed")
		return result, nil
	}

	if len(plan.Conflicts) > 0 {
		return result, fmt.Errorf("%w: %d of %d types", ErrTypeConflicts, len(plan.Conflicts), len(codenames))
	}

	total := len(plan.ToCreate) + len(plan.ToUpdate)
	processed := 0
	step := func(codename string) {
		processed++
		report(StepMigratingTypes, 60+processed*30/total, "Processed "+codename)
	}

	for _, ct := range plan.ToCreate {
		_, skipped, err := s.target.AddContentType(ctx, ct)
		if err != nil {
			result.Errors = append(result.Errors, TypeConflict{Codename: ct.Codename, Reason: err.Error()})
		} else {
			result.Created = append(result.Created, ct.Codename)
			if len(skipped) > 0 {
				result.SkippedElements[ct.Codename] = skipped
			}
		}

		step(ct.Codename)
	}

	targetTypes, err := s.target.ListContentTypes(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read target content types: %w", err)
	}

	for _, ct := range plan.ToUpdate {
		if !opts.OverwriteExisting {
			result.Skipped = append(result.Skipped, ct.Codename)
			s.log.WithField("type", ct.Codename).Info(reasonSkippedUpdate)
			step(ct.Codename)

			continue
		}

		if err := s.update(ctx, ct, targetTypes, result); err != nil {
			result.Errors = append(result.Errors, TypeConflict{Codename: ct.Codename, Reason: err.Error()})
		} else {
			result.Updated = append(result.Updated, ct.Codename)
		}

		step(ct.Codename)
	}

	report(StepValidating, 90, "Verifying target content types")

	if err := s.verify(ctx, result); err != nil {
		return result, err
	}

	report(StepCompleted, 100, "Content type migration completed")

	return result, nil
}

// update appends the source elements the target type does not have yet.
// Existing target elements are never changed or removed.
func (s *TypeSyncer) update(
	ctx context.Context,
	src element.ContentType,
	targetTypes []element.ContentType,
	result *SyncResult,
) error {
	dst, ok := element.FindContentType(targetTypes, src.Codename)
	if !ok {
		return errors.New(reasonMissingAfter)
	}

	var ops []kontent.PatchOperation

	for _, d := range src.Elements {
		if _, exists := dst.Element(d.Codename); exists {
			continue
		}

		if !d.Type.IsValid() {
			result.SkippedElements[src.Codename] = append(result.SkippedElements[src.Codename], d.Codename)
			continue
		}

		ops = append(ops, kontent.AddElement(d))
	}

	if len(ops) == 0 {
		return nil
	}

	_, err := s.target.ModifyContentType(ctx, src.Codename, ops)

	return err
}

func (s *TypeSyncer) verify(ctx context.Context, result *SyncResult) error {
	targetTypes, err := s.target.ListContentTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify target content types: %w", err)
	}

	for _, codename := range slices.Concat(result.Created, result.Updated) {
		if _, ok := element.FindContentType(targetTypes, codename); !ok {
			result.Errors = append(result.Errors, TypeConflict{Codename: codename, Reason: reasonMissingAfter})
		}
	}

	return nil
}

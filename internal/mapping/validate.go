package mapping

import (
	"fmt"
	"sort"
	"strings"

	"kontent-migrator/internal/diagnostic"
	"kontent-migrator/internal/element"
	"kontent-migrator/internal/match"
)

// maxSuggestions caps "did you mean" hints per diagnostic.
const maxSuggestions = 3

// codenameSimilarity is the minimum similarity of normalized codenames for a
// codename to be offered as a suggestion.
const codenameSimilarity = 0.6

// Validate checks a mapping file against the source and target content types.
//
// Errors make the file unusable: wrong content types, unknown element
// codenames, explicitly mapped incompatible pairs. Warnings flag files that
// apply but probably need review: conflicting entries, targets used twice,
// required targets that end up unmapped.
func Validate(mf *MappingFile, source, target *element.ContentType) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if source == nil || target == nil {
		res.AddError("content_type_is_nil", "source and target content types are required", "", "")
		return res
	}

	pair := source.Codename + "->" + target.Codename

	if mf.Source != source.Codename {
		res.AddError("source_type_mismatch",
			fmt.Sprintf("mapping file is for source type %q, not %q", mf.Source, source.Codename), pair, "")
	}

	if mf.Target != target.Codename {
		res.AddError("target_type_mismatch",
			fmt.Sprintf("mapping file is for target type %q, not %q", mf.Target, target.Codename), pair, "")
	}

	explicit := explicitEntries(mf)
	seen := make(map[string]string, len(explicit))
	targetUsers := make(map[string][]string)

	for _, e := range explicit {
		if prev, dup := seen[e.Source]; dup {
			if prev != e.Target {
				res.AddWarning("shadowed_entry",
					fmt.Sprintf("entry %s -> %s is shadowed by an earlier entry mapping it to %s",
						e.Source, displayTarget(e.Target), displayTarget(prev)), pair, e.Source)
			}

			continue
		}

		seen[e.Source] = e.Target

		if validateEntry(res, e, source, target, pair, diagnostic.SeverityError) && !e.IsUnmapped() {
			targetUsers[e.Target] = append(targetUsers[e.Target], e.Source)
		}
	}

	for _, codename := range mf.Ignore {
		if !checkSource(res, codename, source, pair) {
			continue
		}

		if t, dup := seen[codename]; dup {
			res.AddWarning("shadowed_ignore",
				fmt.Sprintf("ignore entry has no effect, element is mapped to %s", displayTarget(t)), pair, codename)
		}
	}

	for _, e := range mf.Auto {
		validateEntry(res, e, source, target, pair, diagnostic.SeverityWarning)
	}

	checkDuplicateTargets(res, targetUsers, pair)

	if res.HasErrors() {
		return res
	}

	checkRequiredTargets(res, build(mf, *source, *target, ""), pair)

	return res
}

// validateEntry checks one entry and reports whether its codenames resolved.
// Incompatible pairs are reported with the given severity.
func validateEntry(
	res *diagnostic.Diagnostics,
	e FieldEntry,
	source, target *element.ContentType,
	pair string,
	incompatible diagnostic.Severity,
) bool {
	if !checkSource(res, e.Source, source, pair) {
		return false
	}

	if e.IsUnmapped() {
		return true
	}

	dst, ok := target.Element(e.Target)
	if !ok {
		res.AddError("unknown_target_element",
			fmt.Sprintf("target type %q has no element %q", target.Codename, e.Target), pair, e.Source)
		res.Suggest(diagnostic.SeverityError, similarCodenames(e.Target, target.Elements)...)

		return false
	}

	src, _ := source.Element(e.Source)

	v := match.Resolve(*src, *dst)
	if v.IsCompatible {
		return true
	}

	msg := fmt.Sprintf("%s cannot be mapped to %s: %s", e.Source, e.Target, strings.Join(v.Warnings, "; "))
	suggestions := match.Suggest(*src, target.Elements).AboveThreshold(match.DefaultSuggestionThreshold)

	if incompatible == diagnostic.SeverityError {
		res.AddError("incompatible_types", msg, pair, e.Source)
	} else {
		res.AddWarning("incompatible_types", msg, pair, e.Source)
	}

	res.Suggest(incompatible, suggestions.Top(maxSuggestions).Codenames()...)

	return true
}

func checkSource(res *diagnostic.Diagnostics, codename string, source *element.ContentType, pair string) bool {
	if _, ok := source.Element(codename); ok {
		return true
	}

	res.AddError("unknown_source_element",
		fmt.Sprintf("source type %q has no element %q", source.Codename, codename), pair, codename)
	res.Suggest(diagnostic.SeverityError, similarCodenames(codename, source.Elements)...)

	return false
}

func checkDuplicateTargets(res *diagnostic.Diagnostics, users map[string][]string, pair string) {
	targets := make([]string, 0, len(users))
	for t := range users {
		targets = append(targets, t)
	}

	sort.Strings(targets)

	for _, t := range targets {
		if len(users[t]) < 2 {
			continue
		}

		res.AddWarning("duplicate_target",
			fmt.Sprintf("target element %q is mapped from %s; the last migrated value wins",
				t, strings.Join(users[t], ", ")), pair, t)
	}
}

func checkRequiredTargets(res *diagnostic.Diagnostics, cfg *MigrationConfig, pair string) {
	covered := make(map[string]bool)

	for _, m := range cfg.ValidMappings() {
		covered[m.TargetField.Codename] = true
	}

	for _, codename := range cfg.TargetContentType.RequiredElements() {
		if covered[codename] {
			continue
		}

		res.AddWarning("required_target_unmapped",
			fmt.Sprintf("required target element %q receives no value", codename), pair, codename)
	}
}

// similarCodenames returns up to maxSuggestions element codenames that look
// like a misspelling of codename, most similar first.
func similarCodenames(codename string, elements []element.Descriptor) []string {
	type scored struct {
		codename string
		score    float64
	}

	want := match.NormalizeCodename(codename)

	var found []scored

	for _, el := range elements {
		score := match.Similarity(want, match.NormalizeCodename(el.Codename))
		if score >= codenameSimilarity {
			found = append(found, scored{el.Codename, score})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].score > found[j].score })

	out := make([]string, 0, min(len(found), maxSuggestions))
	for i := 0; i < len(found) && i < maxSuggestions; i++ {
		out = append(out, found[i].codename)
	}

	return out
}

func displayTarget(codename string) string {
	if codename == "" {
		return "(none)"
	}

	return codename
}

package match

import (
	"sort"
	"strings"

	"kontent-migrator/internal/element"
)

// FuzzyThreshold is the score a fuzzy name match must exceed to be accepted.
const FuzzyThreshold = 0.5

// NameScore computes the word-overlap similarity of two display names.
// A source word counts as common when it is a substring of some target word
// or contains one. The count is divided by the longer word list.
func NameScore(source, target string) float64 {
	sourceWords := TokenizeName(source)
	targetWords := TokenizeName(target)

	longest := max(len(sourceWords), len(targetWords))
	if longest == 0 {
		return 0
	}

	common := 0

	for _, sw := range sourceWords {
		for _, tw := range targetWords {
			if strings.Contains(tw, sw) || strings.Contains(sw, tw) {
				common++
				break
			}
		}
	}

	return float64(common) / float64(longest)
}

// BestNameMatch returns the index of the candidate whose name scores highest
// against source, or -1 when no candidate exceeds FuzzyThreshold.
// On equal scores the earliest candidate wins.
func BestNameMatch(source element.Descriptor, candidates []element.Descriptor) (int, float64) {
	best := -1
	bestScore := 0.0

	for i := range candidates {
		score := NameScore(source.Name, candidates[i].Name)
		if score > bestScore && score > FuzzyThreshold {
			best = i
			bestScore = score
		}
	}

	return best, bestScore
}

// Candidate is a possible target element for an unmapped source element.
type Candidate struct {
	Target *element.Descriptor

	// NameScore is the edit-distance similarity of the normalized codenames (0-1).
	NameScore float64
	// TypeCompatible reports whether the type table allows the pair.
	TypeCompatible bool
	// CombinedScore is used for ranking (higher is better).
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking helpers.
type CandidateList []Candidate

// Suggest ranks every target element as a replacement for source.
// It is used to explain unmapped fields, never to map them automatically.
func Suggest(source element.Descriptor, targets []element.Descriptor) CandidateList {
	candidates := make(CandidateList, 0, len(targets))

	sourceNorm := NormalizeCodename(source.Codename)
	sourceNameNorm := NormalizeCodename(source.Name)

	for i := range targets {
		target := &targets[i]

		nameScore := max(
			Similarity(sourceNorm, NormalizeCodename(target.Codename)),
			Similarity(sourceNameNorm, NormalizeCodename(target.Name)),
		)
		typeOK := IsTypeCompatible(source.Type, target.Type)

		candidates = append(candidates, Candidate{
			Target:         target,
			NameScore:      nameScore,
			TypeCompatible: typeOK,
			CombinedScore:  combinedScore(nameScore, typeOK),
		})
	}

	sort.Stable(candidates)

	return candidates
}

// combinedScore weighs name similarity at 70% and type compatibility at 30%.
func combinedScore(nameScore float64, typeOK bool) float64 {
	const (
		nameWeight = 0.7
		typeWeight = 0.3
	)

	typeScore := 0.0
	if typeOK {
		typeScore = 1.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by codename for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Target.Codename < c[j].Target.Codename
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates with combined score at or above threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Codenames returns the target codenames in ranking order.
func (c CandidateList) Codenames() []string {
	out := make([]string, 0, len(c))
	for _, cand := range c {
		out = append(out, cand.Target.Codename)
	}

	return out
}

// DefaultSuggestionThreshold is the combined score a suggestion must reach
// to be shown to the operator.
const DefaultSuggestionThreshold = 0.6

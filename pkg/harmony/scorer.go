// Package harmony scores how conflict-free a resolved action set is.
package harmony

import "github.com/concordai/concord/pkg/domain"

// ConflictDetector is the slice of the conflict package the scorer needs.
type ConflictDetector interface {
	Detect(actions []domain.DomainAction) []domain.DomainConflict
}

// Scorer computes the normalized harmony of a survivor set.
type Scorer struct {
	detector ConflictDetector
}

// NewScorer builds a scorer around the supplied detector. The scorer re-runs
// detection rather than trusting the resolver, so both sides must share one
// rule-table snapshot within a coordination cycle.
func NewScorer(detector ConflictDetector) *Scorer {
	return &Scorer{detector: detector}
}

// Score returns 1.0 for an empty or single-domain survivor set. Otherwise it
// re-detects conflicts among the survivors and returns
// clamp(1 - conflicts/P, 0, 1) where P = D*(D-1)/2 over D distinct domains.
//
// Survivors of a correct resolution are conflict-free, so any score below 1.0
// signals a detector/resolver mismatch rather than a genuine unresolved
// tension. The re-detection is kept regardless: downstream success thresholds
// depend on this exact computation.
func (s *Scorer) Score(survivors []domain.DomainAction) float64 {
	if len(survivors) == 0 {
		return 1.0
	}

	distinct := make(map[string]struct{}, len(survivors))
	for _, a := range survivors {
		distinct[a.Domain] = struct{}{}
	}

	d := len(distinct)
	pairs := d * (d - 1) / 2
	if pairs == 0 {
		return 1.0
	}

	actual := len(s.detector.Detect(survivors))
	return clampUnit(1.0 - float64(actual)/float64(pairs))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

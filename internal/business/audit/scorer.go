package audit

import (
	"math"

	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/errorutil"
)

// Scoring policy constants. 90/70 are the fixed conclusion buckets; 5 is the
// maximum per-item weight and score on the checklist scale.
const (
	DefaultConformeThreshold = 90
	DefaultReserveThreshold  = 70
	MaxItemWeight            = 5.0
	MaxItemScore             = 5.0
)

// Scorer computes a deterministic conformity score and conclusion from a
// weighted audit checklist plus the recorded findings and gaps. It holds only
// policy thresholds; every computation is a pure function over its inputs.
type Scorer struct {
	// ConformeThreshold is the minimum score for a CONFORME conclusion.
	ConformeThreshold int
	// ReserveThreshold is the minimum score for CONFORME_AVEC_RESERVES.
	ReserveThreshold int
}

// NewScorer creates a scorer with the default 90/70 thresholds.
func NewScorer() *Scorer {
	return &Scorer{
		ConformeThreshold: DefaultConformeThreshold,
		ReserveThreshold:  DefaultReserveThreshold,
	}
}

// AddChecklistItem validates and appends one weighted criterion. Malformed
// weights and scores are rejected here, not silently absorbed into the
// average.
func (s *Scorer) AddChecklistItem(rec *model.AuditRecord, item model.AuditChecklistItem) error {
	if item.Question == "" {
		return errorutil.Validation("checklist question is required")
	}

	if !isFinite(item.Weight) || item.Weight <= 0 || item.Weight > MaxItemWeight {
		return errorutil.Validation("checklist weight must be in (0, %g], got %g", MaxItemWeight, item.Weight)
	}

	if !isFinite(item.Score) || item.Score < 0 || item.Score > MaxItemScore {
		return errorutil.Validation("checklist score must be in [0, %g], got %g", MaxItemScore, item.Score)
	}

	switch item.Answer {
	case model.AnswerConforme, model.AnswerNonConforme, model.AnswerNotApplicable, model.AnswerObservation:
	default:
		return errorutil.Validation("unknown checklist answer: %s", item.Answer)
	}

	rec.Checklist = append(rec.Checklist, item)
	return nil
}

// ComputeScore returns the weighted conformity score in [0, 100]. Items
// answered NOT_APPLICABLE are excluded from numerator and denominator. An
// empty denominator yields 0: with no applicable criteria the audit cannot
// claim conformity.
func (s *Scorer) ComputeScore(checklist []model.AuditChecklistItem) int {
	var numerator, denominator float64
	for _, item := range checklist {
		if item.Answer == model.AnswerNotApplicable {
			continue
		}
		numerator += item.Weight * item.Score
		denominator += item.Weight
	}

	if denominator == 0 {
		return 0
	}

	score := int(math.Round(100 * numerator / (denominator * MaxItemScore)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// DetermineConclusion maps a score plus the recorded findings and gaps to a
// conclusion. A critical finding, or a critical gap still open, vetoes the
// score unconditionally.
func (s *Scorer) DetermineConclusion(score int, findings []model.Finding, gaps []model.Gap) model.ConformityVerdict {
	if hasCriticalVeto(findings, gaps) {
		return model.VerdictNonConforme
	}

	switch {
	case score >= s.ConformeThreshold:
		return model.VerdictConforme
	case score >= s.ReserveThreshold:
		return model.VerdictConformeAvecReserves
	default:
		return model.VerdictNonConforme
	}
}

// Evaluate recomputes the derived outcome of an audit snapshot. Recomputation
// is idempotent: the evaluation is a function of the snapshot alone.
func (s *Scorer) Evaluate(rec *model.AuditRecord) model.AuditEvaluation {
	score := s.ComputeScore(rec.Checklist)
	return model.AuditEvaluation{
		Score:      score,
		Conclusion: s.DetermineConclusion(score, rec.Findings, rec.Gaps),
	}
}

func hasCriticalVeto(findings []model.Finding, gaps []model.Gap) bool {
	for _, f := range findings {
		if f.Severity == model.SeverityCritical {
			return true
		}
	}
	for _, g := range gaps {
		if g.Severity == model.SeverityCritical && g.Status != model.GapClosed {
			return true
		}
	}
	return false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

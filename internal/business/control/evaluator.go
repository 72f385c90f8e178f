package control

import (
	"math"

	"qhse/qcsync/internal/model"
)

// Evaluator derives compliance for a set of measured parameters against
// per-parameter acceptance windows. Unlike the audit scorer's threshold
// buckets, the verdict here is an all/none/partial split: one out-of-spec
// parameter on a production line is never averaged away.
type Evaluator struct{}

// NewEvaluator creates a production control evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes per-parameter conformity flags and the aggregate verdict.
// Bounds are inclusive on both ends. A non-nil ManualOverride takes
// precedence over the numeric comparison, covering parameters without a
// configured acceptance window. The input map is not mutated.
func (e *Evaluator) Evaluate(measurements map[model.ControlParameter]model.Measurement) model.ControlEvaluation {
	evaluated := make(map[model.ControlParameter]model.Measurement, len(measurements))

	compliant := 0
	for param, m := range measurements {
		if m.ManualOverride != nil {
			m.WithinBounds = *m.ManualOverride
		} else {
			m.WithinBounds = m.MinThreshold <= m.Value && m.Value <= m.MaxThreshold
		}

		if m.WithinBounds {
			compliant++
		}
		evaluated[param] = m
	}

	total := len(measurements)

	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(compliant) / float64(total)))
	}

	return model.ControlEvaluation{
		Score:        score,
		Verdict:      verdict(compliant, total),
		Measurements: evaluated,
	}
}

// verdict applies the all/none/partial split. An empty measurement set cannot
// claim conformity and is NON_CONFORME, matching the audit scorer's empty
// denominator policy.
func verdict(compliant, total int) model.ConformityVerdict {
	switch {
	case total == 0:
		return model.VerdictNonConforme
	case compliant == total:
		return model.VerdictConforme
	case compliant == 0:
		return model.VerdictNonConforme
	default:
		return model.VerdictSousReserve
	}
}

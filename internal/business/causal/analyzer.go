package causal

import (
	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/errorutil"
)

// DefaultWhyDepth is the terminal depth of the Five-Whys chain. The step at
// this depth is the root cause; a deeper step is rejected.
const DefaultWhyDepth = 5

// ActionKind selects which CAPA sequence an action is appended to.
type ActionKind string

const (
	ActionCorrective ActionKind = "CORRECTIVE"
	ActionPreventive ActionKind = "PREVENTIVE"
)

// CauseAnalyzer organizes and validates the root-cause analysis of one
// non-conformity record. All operations are append-only: a rejected mutation
// leaves the record untouched, and previously recorded entries are never
// edited in place.
type CauseAnalyzer struct {
	// MaxWhyDepth caps the Five-Whys chain. Policy tunable, defaults to 5.
	MaxWhyDepth int
}

// NewCauseAnalyzer creates an analyzer with the default Five-Whys depth.
func NewCauseAnalyzer() *CauseAnalyzer {
	return &CauseAnalyzer{
		MaxWhyDepth: DefaultWhyDepth,
	}
}

// AddCause appends a contributing cause. The description is mandatory; there
// is no ordering requirement among causes.
func (a *CauseAnalyzer) AddCause(rec *model.NonConformityRecord, cause model.Cause) error {
	if cause.Description == "" {
		return errorutil.Validation("cause description is required")
	}

	rec.Causes = append(rec.Causes, cause)
	return nil
}

// AddWhyStep appends the next level of the Five-Whys chain. Levels must be
// contiguous starting at 1, and the chain is capped at MaxWhyDepth. The
// caller-supplied IsRootCause is overridden: it holds exactly on the terminal
// level.
func (a *CauseAnalyzer) AddWhyStep(rec *model.NonConformityRecord, step model.WhyStep) error {
	if len(rec.FiveWhys) >= a.MaxWhyDepth {
		return errorutil.DepthExceeded("five-whys chain is capped at %d levels", a.MaxWhyDepth)
	}

	next := len(rec.FiveWhys) + 1
	if step.Level != next {
		return errorutil.NonContiguousLevel("expected why level %d, got %d", next, step.Level)
	}

	if step.Answer == "" {
		return errorutil.Validation("why level %d has no answer", step.Level)
	}

	step.IsRootCause = step.Level == a.MaxWhyDepth

	rec.FiveWhys = append(rec.FiveWhys, step)
	return nil
}

// AddIshikawaFactor appends a free-text contributing factor under one of the
// fixed fishbone categories.
func (a *CauseAnalyzer) AddIshikawaFactor(rec *model.NonConformityRecord, category model.IshikawaCategory, text string) error {
	if !knownIshikawaCategory(category) {
		return errorutil.UnknownCategory("unknown ishikawa category: %s", category)
	}

	if text == "" {
		return errorutil.Validation("ishikawa factor text is required")
	}

	if rec.IshikawaFactors == nil {
		rec.IshikawaFactors = make(map[model.IshikawaCategory][]string)
	}

	rec.IshikawaFactors[category] = append(rec.IshikawaFactors[category], text)
	return nil
}

// AddCapaAction appends a corrective or preventive action. Status defaults to
// PLANNED when unset.
func (a *CauseAnalyzer) AddCapaAction(rec *model.NonConformityRecord, action model.CapaAction, kind ActionKind) error {
	if action.Description == "" {
		return errorutil.Validation("capa action description is required")
	}

	if action.Status == "" {
		action.Status = model.CapaStatusPlanned
	}

	switch kind {
	case ActionCorrective:
		rec.CorrectiveActions = append(rec.CorrectiveActions, action)
	case ActionPreventive:
		rec.PreventiveActions = append(rec.PreventiveActions, action)
	default:
		return errorutil.Validation("unknown capa action kind: %s", kind)
	}

	return nil
}

func knownIshikawaCategory(category model.IshikawaCategory) bool {
	for _, c := range model.IshikawaCategories {
		if c == category {
			return true
		}
	}
	return false
}

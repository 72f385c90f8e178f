package causal

import (
	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/errorutil"
)

// AnalysisResult summarizes a validated root-cause analysis.
type AnalysisResult struct {
	RecordID        string                  `json:"record_id"`
	Verdict         model.ConformityVerdict `json:"verdict"`
	RootCause       string                  `json:"root_cause,omitempty"`
	RootCauseFound  bool                    `json:"root_cause_found"`
	CauseCount      int                     `json:"cause_count"`
	WhyDepth        int                     `json:"why_depth"`
	IshikawaFactors int                     `json:"ishikawa_factors"`
	CorrectiveCount int                     `json:"corrective_count"`
	PreventiveCount int                     `json:"preventive_count"`
	// CapaCovered reports whether at least one corrective action exists once
	// the root cause has been identified.
	CapaCovered bool `json:"capa_covered"`
}

// Replay re-validates a fully populated record submitted in one message by
// replaying every collection through the append rules. It returns the rebuilt
// record and its summary; the first rejected entry aborts the replay and the
// submitted record is not accepted.
func (a *CauseAnalyzer) Replay(submitted *model.NonConformityRecord) (*model.NonConformityRecord, *AnalysisResult, error) {
	if err := validateDeclaration(submitted); err != nil {
		return nil, nil, err
	}

	rec := &model.NonConformityRecord{
		ID:           submitted.ID,
		DeclaredAt:   submitted.DeclaredAt,
		Category:     submitted.Category,
		Severity:     submitted.Severity,
		Description:  submitted.Description,
		LotReference: submitted.LotReference,
		SupersedesID: submitted.SupersedesID,
	}

	for _, cause := range submitted.Causes {
		if err := a.AddCause(rec, cause); err != nil {
			return nil, nil, err
		}
	}

	for _, step := range submitted.FiveWhys {
		if err := a.AddWhyStep(rec, step); err != nil {
			return nil, nil, err
		}
	}

	// Categories replayed in diagram order so the rebuilt record does not
	// depend on map iteration.
	for _, category := range model.IshikawaCategories {
		for _, text := range submitted.IshikawaFactors[category] {
			if err := a.AddIshikawaFactor(rec, category, text); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := checkIshikawaKeys(submitted.IshikawaFactors); err != nil {
		return nil, nil, err
	}

	for _, action := range submitted.CorrectiveActions {
		if err := a.AddCapaAction(rec, action, ActionCorrective); err != nil {
			return nil, nil, err
		}
	}
	for _, action := range submitted.PreventiveActions {
		if err := a.AddCapaAction(rec, action, ActionPreventive); err != nil {
			return nil, nil, err
		}
	}

	return rec, a.summarize(rec), nil
}

// summarize derives the analysis summary of a validated record.
func (a *CauseAnalyzer) summarize(rec *model.NonConformityRecord) *AnalysisResult {
	rootCause := rec.RootCause()

	factorCount := 0
	for _, factors := range rec.IshikawaFactors {
		factorCount += len(factors)
	}

	// An analysis stays EN_ATTENTE until its root cause has been reached and
	// at least one corrective action is planned against it.
	verdict := model.VerdictEnAttente
	covered := rootCause != "" && len(rec.CorrectiveActions) > 0
	if covered {
		verdict = model.VerdictNonConforme
	}

	return &AnalysisResult{
		RecordID:        rec.ID,
		Verdict:         verdict,
		RootCause:       rootCause,
		RootCauseFound:  rootCause != "",
		CauseCount:      len(rec.Causes),
		WhyDepth:        len(rec.FiveWhys),
		IshikawaFactors: factorCount,
		CorrectiveCount: len(rec.CorrectiveActions),
		PreventiveCount: len(rec.PreventiveActions),
		CapaCovered:     covered,
	}
}

// validateDeclaration checks the fields that are mandatory at declaration
// time: category, severity and description.
func validateDeclaration(rec *model.NonConformityRecord) error {
	if rec.ID == "" {
		return errorutil.Validation("non-conformity id is required")
	}
	if rec.Category == "" {
		return errorutil.Validation("non-conformity category is required")
	}
	if rec.Severity == "" {
		return errorutil.Validation("non-conformity severity is required")
	}
	if rec.Description == "" {
		return errorutil.Validation("non-conformity description is required")
	}
	return nil
}

// checkIshikawaKeys rejects factor keys outside the fixed category set. The
// replay loop above only visits known categories, so unknown keys would
// otherwise be dropped silently.
func checkIshikawaKeys(factors map[model.IshikawaCategory][]string) error {
	for category := range factors {
		if !knownIshikawaCategory(category) {
			return errorutil.UnknownCategory("unknown ishikawa category: %s", category)
		}
	}
	return nil
}

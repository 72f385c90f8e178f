package audit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/errorutil"
)

func item(weight, score float64, answer model.ChecklistAnswer) model.AuditChecklistItem {
	return model.AuditChecklistItem{
		Question:  "q",
		Criterion: "c",
		Weight:    weight,
		Score:     score,
		Answer:    answer,
	}
}

func TestComputeScoreWeightedAverage(t *testing.T) {
	s := NewScorer()

	// 2*5 + 1*0 = 10 over 3*5 = 15 → 67
	checklist := []model.AuditChecklistItem{
		item(2, 5, model.AnswerConforme),
		item(1, 0, model.AnswerConforme),
	}

	assert.Equal(t, 67, s.ComputeScore(checklist))
}

func TestComputeScoreExcludesNotApplicable(t *testing.T) {
	s := NewScorer()

	base := []model.AuditChecklistItem{
		item(2, 4, model.AnswerConforme),
		item(3, 2, model.AnswerNonConforme),
	}
	withNA := append([]model.AuditChecklistItem{
		item(5, 0, model.AnswerNotApplicable),
	}, base...)

	// An NA item has zero influence regardless of its weight and score.
	assert.Equal(t, s.ComputeScore(base), s.ComputeScore(withNA))
}

func TestComputeScoreEmptyDenominator(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0, s.ComputeScore(nil))
	assert.Equal(t, 0, s.ComputeScore([]model.AuditChecklistItem{
		item(3, 5, model.AnswerNotApplicable),
		item(1, 5, model.AnswerNotApplicable),
	}))
}

func TestComputeScoreMonotonic(t *testing.T) {
	s := NewScorer()

	checklist := []model.AuditChecklistItem{
		item(2, 1, model.AnswerNonConforme),
		item(1, 3, model.AnswerObservation),
		item(4, 2, model.AnswerConforme),
	}

	// Raising any single item's score never decreases the result.
	for i := range checklist {
		prev := s.ComputeScore(checklist)
		for raised := checklist[i].Score + 1; raised <= MaxItemScore; raised++ {
			bumped := make([]model.AuditChecklistItem, len(checklist))
			copy(bumped, checklist)
			bumped[i].Score = raised

			got := s.ComputeScore(bumped)
			assert.GreaterOrEqual(t, got, prev, "item %d score %g", i, raised)
			prev = got
		}
	}
}

func TestDetermineConclusionBuckets(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		score int
		want  model.ConformityVerdict
	}{
		{100, model.VerdictConforme},
		{90, model.VerdictConforme},
		{89, model.VerdictConformeAvecReserves},
		{70, model.VerdictConformeAvecReserves},
		{69, model.VerdictNonConforme},
		{0, model.VerdictNonConforme},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.DetermineConclusion(tt.score, nil, nil), "score %d", tt.score)
	}
}

func TestDetermineConclusionCriticalVeto(t *testing.T) {
	s := NewScorer()

	critical := []model.Finding{{
		Type:     model.FindingNonConformity,
		Severity: model.SeverityCritical,
		Location: "line 2",
	}}

	// A critical finding vetoes any score, including a perfect one.
	assert.Equal(t, model.VerdictNonConforme, s.DetermineConclusion(100, critical, nil))

	openGap := []model.Gap{{
		Description: "missing calibration records",
		Severity:    model.SeverityCritical,
		Status:      model.GapOpen,
	}}
	assert.Equal(t, model.VerdictNonConforme, s.DetermineConclusion(95, nil, openGap))

	// A closed critical gap no longer vetoes.
	closedGap := []model.Gap{{
		Description: "missing calibration records",
		Severity:    model.SeverityCritical,
		Status:      model.GapClosed,
	}}
	assert.Equal(t, model.VerdictConforme, s.DetermineConclusion(95, nil, closedGap))
}

func TestEvaluateIdempotent(t *testing.T) {
	s := NewScorer()

	rec := &model.AuditRecord{
		ID: "AUD-1",
		Checklist: []model.AuditChecklistItem{
			item(2, 5, model.AnswerConforme),
			item(1, 0, model.AnswerConforme),
		},
	}

	first := s.Evaluate(rec)
	assert.Equal(t, 67, first.Score)
	assert.Equal(t, model.VerdictNonConforme, first.Conclusion)

	// Same snapshot, same outcome.
	assert.Equal(t, first, s.Evaluate(rec))
}

func TestEvaluateCustomThresholds(t *testing.T) {
	s := &Scorer{ConformeThreshold: 60, ReserveThreshold: 40}

	assert.Equal(t, model.VerdictConforme, s.DetermineConclusion(67, nil, nil))
	assert.Equal(t, model.VerdictConformeAvecReserves, s.DetermineConclusion(40, nil, nil))
	assert.Equal(t, model.VerdictNonConforme, s.DetermineConclusion(39, nil, nil))
}

func TestAddChecklistItemValidation(t *testing.T) {
	s := NewScorer()
	rec := &model.AuditRecord{ID: "AUD-1"}

	tests := []struct {
		name string
		item model.AuditChecklistItem
	}{
		{"empty question", model.AuditChecklistItem{Weight: 1, Answer: model.AnswerConforme}},
		{"zero weight", item(0, 3, model.AnswerConforme)},
		{"negative weight", item(-2, 3, model.AnswerConforme)},
		{"nan weight", item(math.NaN(), 3, model.AnswerConforme)},
		{"inf weight", item(math.Inf(1), 3, model.AnswerConforme)},
		{"oversized weight", item(6, 3, model.AnswerConforme)},
		{"negative score", item(2, -1, model.AnswerConforme)},
		{"oversized score", item(2, 6, model.AnswerConforme)},
		{"unknown answer", item(2, 3, "MAYBE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddChecklistItem(rec, tt.item)
			require.Error(t, err)
			assert.Equal(t, errorutil.KindValidation, errorutil.KindOf(err))
			assert.Empty(t, rec.Checklist, "rejected item must not be appended")
		})
	}

	require.NoError(t, s.AddChecklistItem(rec, item(5, 5, model.AnswerConforme)))
	assert.Len(t, rec.Checklist, 1)
}

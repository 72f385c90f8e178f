package business

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qhse/qcsync/internal/business/causal"
	"qhse/qcsync/internal/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

// offline service: engines only, no MySQL/Redis/queue.
func newService(policy Policy) *EvaluationService {
	return NewEvaluationService(policy, nil, nil, nil, "", "", nopLogger{})
}

func TestEvaluateControlSuccess(t *testing.T) {
	svc := newService(Policy{})

	cb, err := svc.EvaluateControl(context.Background(), "req-1", &model.ControlEvaluatePayload{
		Control: model.ProductionControlRecord{
			ID:           "CTRL-1",
			ControlledAt: time.Now(),
			MeasuredParameters: map[model.ControlParameter]model.Measurement{
				model.ParameterPH:   {Value: 4.2, MinThreshold: 3.5, MaxThreshold: 4.5},
				model.ParameterBrix: {Value: 12.5, MinThreshold: 10, MaxThreshold: 14},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CallbackStatusSuccess, cb.Status)
	assert.Equal(t, model.VerdictConforme, cb.Verdict)
	assert.Equal(t, "CTRL-1", cb.RecordID)
	assert.Equal(t, model.ActionControlEvaluate, cb.ActionType)

	var eval model.ControlEvaluation
	require.NoError(t, json.Unmarshal(cb.Result, &eval))
	assert.Equal(t, 100, eval.Score)
}

func TestEvaluateControlMissingID(t *testing.T) {
	svc := newService(Policy{})

	cb, err := svc.EvaluateControl(context.Background(), "req-1", &model.ControlEvaluatePayload{})
	require.NoError(t, err)

	assert.Equal(t, model.CallbackStatusFailed, cb.Status)
	assert.Equal(t, model.VerdictEnAttente, cb.Verdict)
	assert.NotEmpty(t, cb.Error)
}

func TestEvaluateAuditScenario(t *testing.T) {
	svc := newService(Policy{})

	cb, err := svc.EvaluateAudit(context.Background(), "req-2", &model.AuditEvaluatePayload{
		Audit: model.AuditRecord{
			ID: "AUD-1",
			Checklist: []model.AuditChecklistItem{
				{Question: "q1", Weight: 2, Score: 5, Answer: model.AnswerConforme},
				{Question: "q2", Weight: 1, Score: 0, Answer: model.AnswerConforme},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CallbackStatusSuccess, cb.Status)
	assert.Equal(t, model.VerdictNonConforme, cb.Verdict)

	var eval model.AuditEvaluation
	require.NoError(t, json.Unmarshal(cb.Result, &eval))
	assert.Equal(t, 67, eval.Score)
}

func TestEvaluateAuditRejectsMalformedWeight(t *testing.T) {
	svc := newService(Policy{})

	cb, err := svc.EvaluateAudit(context.Background(), "req-3", &model.AuditEvaluatePayload{
		Audit: model.AuditRecord{
			ID: "AUD-2",
			Checklist: []model.AuditChecklistItem{
				{Question: "q1", Weight: -1, Score: 5, Answer: model.AnswerConforme},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CallbackStatusFailed, cb.Status)
	assert.Contains(t, cb.Error, "weight")
}

func TestAnalyzeNCSuccess(t *testing.T) {
	svc := newService(Policy{})

	rec := model.NonConformityRecord{
		ID:          "NC-1",
		Category:    model.NCCategoryProcess,
		Severity:    model.SeverityCritical,
		Description: "sterilization cycle interrupted",
	}
	for level := 1; level <= causal.DefaultWhyDepth; level++ {
		rec.FiveWhys = append(rec.FiveWhys, model.WhyStep{
			Level: level, Question: "why?", Answer: "because",
		})
	}
	rec.CorrectiveActions = []model.CapaAction{{Description: "restart cycle", Owner: "prod"}}

	cb, err := svc.AnalyzeNC(context.Background(), "req-4", &model.NCAnalyzePayload{NonConformity: rec})
	require.NoError(t, err)

	assert.Equal(t, model.CallbackStatusSuccess, cb.Status)
	assert.Equal(t, model.VerdictNonConforme, cb.Verdict)

	var result causal.AnalysisResult
	require.NoError(t, json.Unmarshal(cb.Result, &result))
	assert.True(t, result.RootCauseFound)
	assert.True(t, result.CapaCovered)
}

func TestAnalyzeNCRejection(t *testing.T) {
	svc := newService(Policy{})

	rec := model.NonConformityRecord{
		ID:          "NC-2",
		Category:    model.NCCategoryProcess,
		Severity:    model.SeverityMinor,
		Description: "label misprint",
		FiveWhys: []model.WhyStep{
			{Level: 2, Question: "why?", Answer: "because"}, // gap at level 1
		},
	}

	cb, err := svc.AnalyzeNC(context.Background(), "req-5", &model.NCAnalyzePayload{NonConformity: rec})
	require.NoError(t, err)

	assert.Equal(t, model.CallbackStatusFailed, cb.Status)
	assert.Contains(t, cb.Error, "level")
}

func TestPolicyOverrides(t *testing.T) {
	svc := newService(Policy{ConformeThreshold: 60, ReserveThreshold: 40, FiveWhysDepth: 3})

	// 67 is CONFORME under the lowered threshold.
	cb, err := svc.EvaluateAudit(context.Background(), "req-6", &model.AuditEvaluatePayload{
		Audit: model.AuditRecord{
			ID: "AUD-3",
			Checklist: []model.AuditChecklistItem{
				{Question: "q1", Weight: 2, Score: 5, Answer: model.AnswerConforme},
				{Question: "q2", Weight: 1, Score: 0, Answer: model.AnswerConforme},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictConforme, cb.Verdict)

	// A three-level chain reaches the root cause under the shortened depth.
	rec := model.NonConformityRecord{
		ID:          "NC-3",
		Category:    model.NCCategoryEquipment,
		Severity:    model.SeverityModerate,
		Description: "sensor drift",
		FiveWhys: []model.WhyStep{
			{Level: 1, Question: "why?", Answer: "a"},
			{Level: 2, Question: "why?", Answer: "b"},
			{Level: 3, Question: "why?", Answer: "root"},
		},
	}
	cb, err = svc.AnalyzeNC(context.Background(), "req-7", &model.NCAnalyzePayload{NonConformity: rec})
	require.NoError(t, err)

	var result causal.AnalysisResult
	require.NoError(t, json.Unmarshal(cb.Result, &result))
	assert.Equal(t, "root", result.RootCause)
}

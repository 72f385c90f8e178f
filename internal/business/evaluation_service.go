package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qhse/qcsync/internal/business/audit"
	"qhse/qcsync/internal/business/causal"
	"qhse/qcsync/internal/business/control"
	"qhse/qcsync/internal/entity"
	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/errorutil"
	"qhse/qcsync/pkg/infra/mysql"
	"qhse/qcsync/pkg/infra/redis"
	"qhse/qcsync/pkg/lmstfy"
	"qhse/qcsync/pkg/logger"
)

// Policy carries the evaluation tunables. Zero values fall back to the engine
// defaults.
type Policy struct {
	ConformeThreshold int
	ReserveThreshold  int
	FiveWhysDepth     int
}

// EvaluationService runs the decision engines for incoming jobs and owns all
// the I/O the engines themselves are forbidden to do: persisting the derived
// result, announcing completion on Redis and answering on the callback queue.
type EvaluationService struct {
	analyzer  *causal.CauseAnalyzer
	scorer    *audit.Scorer
	evaluator *control.Evaluator

	dao    *mysql.QualityDAO
	pubsub *redis.PubSub
	queue  *lmstfy.Client

	callbackQueue string
	notifyChannel string
	logger        logger.Logger
}

// NewEvaluationService wires the engines with their policy overrides. dao,
// pubsub and queue may each be nil (offline testing); the corresponding step
// is skipped.
func NewEvaluationService(
	policy Policy,
	dao *mysql.QualityDAO,
	pubsub *redis.PubSub,
	queue *lmstfy.Client,
	callbackQueue string,
	notifyChannel string,
	log logger.Logger,
) *EvaluationService {
	analyzer := causal.NewCauseAnalyzer()
	if policy.FiveWhysDepth > 0 {
		analyzer.MaxWhyDepth = policy.FiveWhysDepth
	}

	scorer := audit.NewScorer()
	if policy.ConformeThreshold > 0 {
		scorer.ConformeThreshold = policy.ConformeThreshold
	}
	if policy.ReserveThreshold > 0 {
		scorer.ReserveThreshold = policy.ReserveThreshold
	}

	return &EvaluationService{
		analyzer:      analyzer,
		scorer:        scorer,
		evaluator:     control.NewEvaluator(),
		dao:           dao,
		pubsub:        pubsub,
		queue:         queue,
		callbackQueue: callbackQueue,
		notifyChannel: notifyChannel,
		logger:        log,
	}
}

// AnalyzeNC replays a submitted non-conformity analysis through the cause
// analysis rules and finalizes the outcome. Engine rejections become FAILED
// callbacks, never retries; a non-nil error is returned only for retryable
// infrastructure failures.
func (s *EvaluationService) AnalyzeNC(ctx context.Context, requestID string, payload *model.NCAnalyzePayload) (*model.EvaluationCallback, error) {
	cb := s.newCallback(requestID, payload.NonConformity.ID, model.ActionNCAnalyze)

	_, result, err := s.analyzer.Replay(&payload.NonConformity)
	if err != nil {
		return s.finalizeRejection(ctx, cb, err)
	}

	if err := marshalResult(cb, result, result.Verdict); err != nil {
		return s.finalizeRejection(ctx, cb, err)
	}

	persist := func() error {
		return s.dao.SaveNCAnalysis(ctx, cb.RecordID, cb)
	}
	return s.finalize(ctx, cb, persist)
}

// EvaluateAudit recomputes the score and conclusion for an audit snapshot.
func (s *EvaluationService) EvaluateAudit(ctx context.Context, requestID string, payload *model.AuditEvaluatePayload) (*model.EvaluationCallback, error) {
	cb := s.newCallback(requestID, payload.Audit.ID, model.ActionAuditEvaluate)

	if payload.Audit.ID == "" {
		return s.finalizeRejection(ctx, cb, errorutil.Validation("audit id is required"))
	}

	// The submitted checklist is re-validated item by item; malformed weights
	// never reach the average.
	validated := &model.AuditRecord{
		ID:        payload.Audit.ID,
		Reference: payload.Audit.Reference,
		AuditedAt: payload.Audit.AuditedAt,
		Findings:  payload.Audit.Findings,
		Gaps:      payload.Audit.Gaps,
	}
	for _, item := range payload.Audit.Checklist {
		if err := s.scorer.AddChecklistItem(validated, item); err != nil {
			return s.finalizeRejection(ctx, cb, err)
		}
	}

	eval := s.scorer.Evaluate(validated)
	if err := marshalResult(cb, eval, eval.Conclusion); err != nil {
		return s.finalizeRejection(ctx, cb, err)
	}

	persist := func() error {
		return s.dao.SaveAuditEvaluation(ctx, cb.RecordID, &eval, cb)
	}
	return s.finalize(ctx, cb, persist)
}

// EvaluateControl derives the compliance verdict for a control event.
func (s *EvaluationService) EvaluateControl(ctx context.Context, requestID string, payload *model.ControlEvaluatePayload) (*model.EvaluationCallback, error) {
	cb := s.newCallback(requestID, payload.Control.ID, model.ActionControlEvaluate)

	if payload.Control.ID == "" {
		return s.finalizeRejection(ctx, cb, errorutil.Validation("control id is required"))
	}

	eval := s.evaluator.Evaluate(payload.Control.MeasuredParameters)
	if err := marshalResult(cb, eval, eval.Verdict); err != nil {
		return s.finalizeRejection(ctx, cb, err)
	}

	persist := func() error {
		return s.dao.SaveControlEvaluation(ctx, cb.RecordID, &eval, cb)
	}
	return s.finalize(ctx, cb, persist)
}

func (s *EvaluationService) newCallback(requestID, recordID, actionType string) *model.EvaluationCallback {
	return &model.EvaluationCallback{
		RequestID:   requestID,
		RecordID:    recordID,
		ActionType:  actionType,
		Status:      model.CallbackStatusSuccess,
		ProcessedAt: time.Now().Unix(),
	}
}

// finalize persists the outcome, announces it and sends the callback. Any
// failure here is infrastructure, so it is reported as retryable.
func (s *EvaluationService) finalize(ctx context.Context, cb *model.EvaluationCallback, persist func() error) (*model.EvaluationCallback, error) {
	if s.dao != nil {
		if err := persist(); err != nil {
			return nil, errorutil.RetriableWithDetails("failed to persist evaluation", err.Error())
		}
	}

	if err := s.notify(ctx, cb, entity.StatusEvaluated); err != nil {
		s.logger.Warnf(ctx, "[EvaluationService] notify failed for %s: %v", cb.RecordID, err)
	}

	if err := s.sendCallback(cb); err != nil {
		return nil, errorutil.RetriableWithDetails("failed to publish callback", err.Error())
	}

	return cb, nil
}

// finalizeRejection records a user-correctable rejection. The record row is
// marked FAILED and the rejection is surfaced on the callback queue; the job
// itself is considered handled.
func (s *EvaluationService) finalizeRejection(ctx context.Context, cb *model.EvaluationCallback, cause error) (*model.EvaluationCallback, error) {
	cb.Status = model.CallbackStatusFailed
	cb.Error = cause.Error()
	cb.Verdict = model.VerdictEnAttente

	if s.dao != nil && cb.RecordID != "" {
		if err := s.dao.MarkFailed(ctx, cb.ActionType, cb.RecordID, cb.Error); err != nil {
			s.logger.Warnf(ctx, "[EvaluationService] mark failed errored for %s: %v", cb.RecordID, err)
		}
	}

	if err := s.notify(ctx, cb, entity.StatusFailed); err != nil {
		s.logger.Warnf(ctx, "[EvaluationService] notify failed for %s: %v", cb.RecordID, err)
	}

	if err := s.sendCallback(cb); err != nil {
		return nil, errorutil.RetriableWithDetails("failed to publish callback", err.Error())
	}

	return cb, nil
}

func (s *EvaluationService) notify(ctx context.Context, cb *model.EvaluationCallback, status string) error {
	if s.pubsub == nil {
		return nil
	}

	return s.pubsub.PublishEvaluationComplete(ctx, s.notifyChannel, &redis.EvaluationNotification{
		RecordID:   cb.RecordID,
		ActionType: cb.ActionType,
		Status:     status,
		Verdict:    cb.Verdict,
		Timestamp:  cb.ProcessedAt,
	})
}

func (s *EvaluationService) sendCallback(cb *model.EvaluationCallback) error {
	if s.queue == nil {
		return nil
	}

	callbackJSON, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	// ttl 0: never expires; delay 0: immediately consumable.
	return s.queue.Publish(s.callbackQueue, callbackJSON, 0, 0)
}

func marshalResult(cb *model.EvaluationCallback, result interface{}, verdict model.ConformityVerdict) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errorutil.Validation("failed to marshal result: %v", err)
	}

	cb.Result = data
	cb.Verdict = verdict
	return nil
}

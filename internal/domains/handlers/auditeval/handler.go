package auditeval

import (
	"context"
	"encoding/json"
	"errors"

	"qhse/qcsync/internal/business"
	"qhse/qcsync/internal/domains/handlers"
	"qhse/qcsync/internal/framework"
	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/errorutil"
)

// Handler recomputes the score and conclusion for one audit snapshot.
type Handler struct {
	framework.BaseHandler

	payload  *model.AuditEvaluatePayload
	svc      *business.EvaluationService
	callback *model.EvaluationCallback
}

// NewHandler decodes the audit_evaluate business payload.
func NewHandler(ctx context.Context, base *framework.BaseHandler, svc *business.EvaluationService) (framework.BusinessHandler, error) {
	payloadBytes, err := json.Marshal(base.GetBizPayload())
	if err != nil {
		return nil, err
	}

	var payload model.AuditEvaluatePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, err
	}

	h := &Handler{
		BaseHandler: *base,
		payload:     &payload,
		svc:         svc,
	}
	h.SetResulter(handlers.NewCallbackResulter())

	return h, nil
}

func (h *Handler) Handle(ctx context.Context) ([]byte, error) {
	chain := framework.NewPreProcessor([]framework.ProcessorFunc{
		h.preProcess,
		h.process,
		h.postProcess,
	})

	if err := chain.Run(ctx); err != nil {
		if errorutil.IsRetryable(err) {
			return nil, err
		}
		return h.WrapErrorResponse(ctx, err)
	}

	return h.WrapResponse(ctx, h.GetOutput())
}

func (h *Handler) preProcess(ctx context.Context) error {
	if h.payload.Audit.ID == "" {
		return errors.New("audit.id is required")
	}
	return nil
}

func (h *Handler) process(ctx context.Context) error {
	cb, err := h.svc.EvaluateAudit(ctx, h.GetMeta().RequestID, h.payload)
	if err != nil {
		return err
	}

	h.callback = cb
	return nil
}

func (h *Handler) postProcess(ctx context.Context) error {
	if err := h.GetResulter().Set(ctx, h.callback); err != nil {
		return err
	}

	h.SetOutput(h.GetResulter().Get(ctx))
	return nil
}

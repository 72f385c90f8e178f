package domains

import (
	"context"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"qhse/qcsync/internal/business"
	"qhse/qcsync/internal/framework"
	"qhse/qcsync/pkg/errorutil"
	"qhse/qcsync/pkg/lmstfyx"
	"qhse/qcsync/pkg/logger"
)

// GetProcess returns the processing function injected into the framework
// processor: parse the envelope, dispatch by action type, run the handler and
// translate its outcome into a settlement action.
func GetProcess(log logger.Logger, svc *business.EvaluationService) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		base := &framework.BaseHandler{}
		if err := base.ParseJob(ctx, lmstfyJob.Data); err != nil {
			log.Errorf(ctx, "[GetProcess] parse job failed: %v", err)
			return bury()
		}

		meta := base.GetMeta()
		if meta.RequestID == "" {
			meta.RequestID = uuid.New().String()
		}

		ctx = context.WithValue(ctx, logger.CtxTraceID, meta.RequestID)
		ctx = context.WithValue(ctx, logger.CtxActionType, meta.ActionType)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, id=%s",
			meta.ActionType, meta.RequestID, meta.ID)

		factory, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return bury()
		}

		resp := runHandler(ctx, factory, base, svc, log)

		log.Infof(ctx, "[GetProcess] Processing complete: action=%d, duration=%v",
			resp.Action, time.Since(startTime))

		return resp
	}
}

// runHandler isolates handler execution so a panic settles the job instead of
// killing the worker.
func runHandler(
	ctx context.Context,
	factory HandlerFactory,
	base *framework.BaseHandler,
	svc *business.EvaluationService,
	log logger.Logger,
) (resp *lmstfyx.JobResp) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
			resp = bury()
		}
	}()

	handler, err := factory(ctx, base, svc)
	if err != nil {
		// Malformed payload: undeliverable to any engine.
		log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
		return bury()
	}

	data, err := handler.Handle(ctx)
	if err != nil {
		if errorutil.IsRetryable(err) {
			log.Warnf(ctx, "[GetProcess] transient failure, releasing: %v", err)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
		}
		log.Errorf(ctx, "[GetProcess] handler failed: %v", err)
		return bury()
	}

	return &lmstfyx.JobResp{
		Action: lmstfyx.JobRespStatusSuccess,
		Data:   data,
	}
}

func bury() *lmstfyx.JobResp {
	return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
}

package domains

import (
	"context"

	"qhse/qcsync/internal/business"
	"qhse/qcsync/internal/domains/handlers/auditeval"
	"qhse/qcsync/internal/domains/handlers/controleval"
	"qhse/qcsync/internal/domains/handlers/nc"
	"qhse/qcsync/internal/framework"
	"qhse/qcsync/internal/model"
)

// HandlerFactory builds one business handler for a parsed job.
type HandlerFactory func(
	ctx context.Context,
	base *framework.BaseHandler,
	svc *business.EvaluationService,
) (framework.BusinessHandler, error)

// HandlerMap routes action types to their handlers.
var HandlerMap = map[string]HandlerFactory{
	model.ActionNCAnalyze:       nc.NewHandler,
	model.ActionAuditEvaluate:   auditeval.NewHandler,
	model.ActionControlEvaluate: controleval.NewHandler,
}

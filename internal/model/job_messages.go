package model

import "encoding/json"

// Action types routed through the worker HandlerMap.
const (
	ActionNCAnalyze       = "nc_analyze"
	ActionAuditEvaluate   = "audit_evaluate"
	ActionControlEvaluate = "control_evaluate"
)

// NCAnalyzePayload is the business data of an nc_analyze job: the full
// non-conformity record as captured by the declaring side. The worker replays
// it through the cause analysis rules before accepting it.
type NCAnalyzePayload struct {
	NonConformity NonConformityRecord `json:"non_conformity"`
}

// AuditEvaluatePayload is the business data of an audit_evaluate job.
type AuditEvaluatePayload struct {
	Audit AuditRecord `json:"audit"`
}

// ControlEvaluatePayload is the business data of a control_evaluate job.
type ControlEvaluatePayload struct {
	Control ProductionControlRecord `json:"control"`
}

// EvaluationCallback is the message sent back on the callback queue once an
// evaluation job has been processed.
type EvaluationCallback struct {
	RequestID   string            `json:"request_id"`
	RecordID    string            `json:"record_id"`
	ActionType  string            `json:"action_type"`
	Status      string            `json:"status"`
	Verdict     ConformityVerdict `json:"verdict,omitempty"`
	Result      json.RawMessage   `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	ProcessedAt int64             `json:"processed_at"`
}

// Callback status constants.
const (
	CallbackStatusSuccess = "SUCCESS"
	CallbackStatusFailed  = "FAILED"
)

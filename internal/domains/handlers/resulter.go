package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"qhse/qcsync/internal/model"
)

// Output is the formatted answer every evaluation handler produces.
type Output struct {
	RecordID    string                  `json:"record_id"`
	ActionType  string                  `json:"action_type"`
	Status      string                  `json:"status"`
	Verdict     model.ConformityVerdict `json:"verdict,omitempty"`
	Result      json.RawMessage         `json:"result,omitempty"`
	Error       string                  `json:"error,omitempty"`
	ProcessedAt int64                   `json:"processed_at"`
}

// CallbackResulter formats an evaluation callback into the handler output.
// It implements framework.Resulter.
type CallbackResulter struct {
	srcData interface{}
	dstData interface{}
}

// NewCallbackResulter creates the shared evaluation resulter.
func NewCallbackResulter() *CallbackResulter {
	return &CallbackResulter{}
}

// Set stores the raw callback and derives the output shape.
func (r *CallbackResulter) Set(ctx context.Context, data interface{}) error {
	cb, ok := data.(*model.EvaluationCallback)
	if !ok {
		return fmt.Errorf("unexpected result type %T", data)
	}

	r.srcData = cb
	r.dstData = &Output{
		RecordID:    cb.RecordID,
		ActionType:  cb.ActionType,
		Status:      cb.Status,
		Verdict:     cb.Verdict,
		Result:      cb.Result,
		Error:       cb.Error,
		ProcessedAt: cb.ProcessedAt,
	}

	return nil
}

// Get returns the formatted output.
func (r *CallbackResulter) Get(ctx context.Context) interface{} {
	return r.dstData
}

package framework

import (
	"context"
	"encoding/json"
	"fmt"
)

// Job is the standard envelope carried by every queue message.
type Job struct {
	Payload *JobPayload `json:"payload"`
}

type JobPayload struct {
	Data *JobPayloadData `json:"data"`
}

type JobPayloadData struct {
	RequestID  string      `json:"request_id"`
	ActionType string      `json:"action_type"`
	OrgID      string      `json:"org_id"`
	ID         string      `json:"id"`
	Data       interface{} `json:"data"`
}

// JobMeta is the envelope metadata extracted for dispatch and tracing.
type JobMeta struct {
	RequestID  string
	ActionType string
	OrgID      string
	ID         string
}

// Response is the standard serialized answer for one job.
type Response struct {
	Error     interface{} `json:"error"`
	Result    interface{} `json:"result"`
	Processed bool        `json:"processed"`
	Meta      *JobMeta    `json:"meta,omitempty"`
}

// BaseHandler carries the parsed job state shared by every business handler.
// It owns parsing, response wrapping and the resulter, not the business flow.
type BaseHandler struct {
	meta       *JobMeta
	rawData    []byte
	bizPayload interface{}
	output     interface{}
	resulter   Resulter
}

// ParseJob decodes the standard envelope and stores the metadata and
// business payload.
func (b *BaseHandler) ParseJob(ctx context.Context, rawData []byte) error {
	b.rawData = rawData

	var job Job
	if err := json.Unmarshal(rawData, &job); err != nil {
		return b.WrapError(err, "unmarshal job failed")
	}

	if job.Payload == nil || job.Payload.Data == nil {
		return b.WrapError(nil, "invalid job structure")
	}

	data := job.Payload.Data
	b.meta = &JobMeta{
		RequestID:  data.RequestID,
		ActionType: data.ActionType,
		OrgID:      data.OrgID,
		ID:         data.ID,
	}
	b.bizPayload = data.Data

	return nil
}

// WrapResponse serializes a successful response.
func (b *BaseHandler) WrapResponse(ctx context.Context, output interface{}) ([]byte, error) {
	resp := &Response{
		Result:    output,
		Processed: true,
		Meta:      b.meta,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, b.WrapError(err, "marshal response failed")
	}

	return data, nil
}

// WrapErrorResponse serializes a failure response.
func (b *BaseHandler) WrapErrorResponse(ctx context.Context, err error) ([]byte, error) {
	resp := &Response{
		Error:     err.Error(),
		Processed: false,
		Meta:      b.meta,
	}

	data, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return nil, b.WrapError(marshalErr, "marshal error response failed")
	}

	return data, nil
}

// WrapError annotates an error with a message.
func (b *BaseHandler) WrapError(err error, msg string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func (b *BaseHandler) GetMeta() *JobMeta {
	return b.meta
}

func (b *BaseHandler) GetRawData() []byte {
	return b.rawData
}

func (b *BaseHandler) GetBizPayload() interface{} {
	return b.bizPayload
}

func (b *BaseHandler) SetOutput(output interface{}) {
	b.output = output
}

func (b *BaseHandler) GetOutput() interface{} {
	return b.output
}

func (b *BaseHandler) SetResulter(resulter Resulter) {
	b.resulter = resulter
}

func (b *BaseHandler) GetResulter() Resulter {
	return b.resulter
}

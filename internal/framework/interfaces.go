package framework

import (
	"context"
	"time"
)

// MessageSource abstracts the job queue. The lmstfy adapter implements it;
// tests substitute an in-memory source.
type MessageSource interface {
	// Consume pulls one message, blocking until a message arrives or timeout
	// elapses. A nil message without error means the poll timed out.
	Consume(queue string, timeout time.Duration, ttr time.Duration) (*Message, error)

	// Ack settles a message as done.
	Ack(queue string, jobID string) error

	// Release leaves a message for redelivery after a transient failure.
	Release(queue string, jobID string) error

	// Bury settles a permanently failed message.
	Bury(queue string, jobID string) error
}

// Logger is re-exported here so the framework does not depend on pkg/logger.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}

// ProcessorFunc is one stage of a handler's processing chain.
type ProcessorFunc func(ctx context.Context) error

// BusinessHandler processes one parsed job and returns the serialized
// response.
type BusinessHandler interface {
	Handle(ctx context.Context) ([]byte, error)
}

// Resulter converts raw business results into the handler's output shape.
type Resulter interface {
	Set(ctx context.Context, data interface{}) error
	Get(ctx context.Context) interface{}
}

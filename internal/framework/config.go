package framework

import "time"

// SubscriberConfig tunes the message pull loops.
type SubscriberConfig struct {
	QueueName    string
	Concurrency  int
	Timeout      time.Duration // poll timeout
	TTR          time.Duration // time-to-run before redelivery
	Rate         time.Duration // minimum interval between pulls
	ErrorBackoff time.Duration
}

// ProcessorConfig tunes the message processing loops.
type ProcessorConfig struct {
	Concurrency int
	BufferSize  int           // input channel buffer
	Timeout     time.Duration // per-message processing timeout
}

package lmstfy

import (
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"

	"qhse/qcsync/internal/framework"
)

const publishRetries = 3

// Client wraps the lmstfy client behind the framework's MessageSource
// interface and adds the settlement and publish operations the worker needs.
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient connects to an lmstfy namespace.
func NewClient(host string, port int, namespace string, token string) (*Client, error) {
	cli := client.NewLmstfyClient(host, port, namespace, token)
	return &Client{
		cli:       cli,
		namespace: namespace,
	}, nil
}

// Consume pulls one job, blocking up to timeout. A nil message without error
// means the poll timed out.
func (c *Client) Consume(queue string, timeout time.Duration, ttr time.Duration) (*framework.Message, error) {
	timeoutSec := uint32(timeout.Seconds())
	ttrSec := uint32(ttr.Seconds())

	job, err := c.cli.Consume(queue, ttrSec, timeoutSec)
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}

	if job == nil {
		return nil, nil
	}

	return &framework.Message{
		ID:    job.ID,
		Queue: job.Queue,
		Data:  job.Data,
		Extra: make(map[string]interface{}),
	}, nil
}

// Ack settles a job as done.
func (c *Client) Ack(queue string, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}

// Release leaves a job unacked so it is redelivered once its TTR expires.
// lmstfy exposes no explicit release call; once the job's retries are
// exhausted the server buries it into the dead letter queue on its own.
func (c *Client) Release(queue string, jobID string) error {
	return nil
}

// Bury settles a permanently failed job. The failure has already been
// reported on the callback queue, so the job is acked rather than left to
// burn through its remaining retries.
func (c *Client) Bury(queue string, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy bury failed: %w", err)
	}
	return nil
}

// Publish enqueues data on queue. ttl 0 means the job never expires, delay 0
// means immediately available.
func (c *Client) Publish(queue string, data []byte, ttl, delay uint32) error {
	_, err := c.cli.Publish(queue, data, ttl, publishRetries, delay)
	if err != nil {
		return fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return nil
}

package lmstfyx

import (
	"context"

	"github.com/bitleak/lmstfy/client"
)

// Proc is the business processing function injected into the framework
// processor: it receives one raw lmstfy job and reports how the queue should
// settle it.
type Proc func(ctx context.Context, job *client.Job) *JobResp

// JobRespStatus is the settlement decision for a processed job.
type JobRespStatus int

const (
	// JobRespStatusSuccess the job is done, Ack it.
	JobRespStatusSuccess JobRespStatus = iota
	// JobRespStatusRelease a transient failure, Release for redelivery.
	JobRespStatusRelease
	// JobRespStatusBury a permanent failure, Bury to the dead letter set.
	JobRespStatusBury
)

// JobResp is the outcome of processing one job.
type JobResp struct {
	Action JobRespStatus
	Data   []byte // response payload, for callbacks and logs
}

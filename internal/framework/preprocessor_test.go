package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorRunsInOrder(t *testing.T) {
	var order []int

	chain := NewPreProcessor([]ProcessorFunc{
		func(ctx context.Context) error { order = append(order, 1); return nil },
		func(ctx context.Context) error { order = append(order, 2); return nil },
		func(ctx context.Context) error { order = append(order, 3); return nil },
	})

	require.NoError(t, chain.Run(context.Background()))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestPreProcessorStopsAtFirstFailure(t *testing.T) {
	var order []int
	boom := errors.New("boom")

	chain := NewPreProcessor([]ProcessorFunc{
		func(ctx context.Context) error { order = append(order, 1); return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { order = append(order, 3); return nil },
	})

	err := chain.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1}, order)
}

func TestBaseHandlerParseJob(t *testing.T) {
	raw := []byte(`{"payload":{"data":{"request_id":"r1","action_type":"audit_evaluate","org_id":"0","id":"AUD-1","data":{"k":"v"}}}}`)

	base := &BaseHandler{}
	require.NoError(t, base.ParseJob(context.Background(), raw))

	meta := base.GetMeta()
	assert.Equal(t, "r1", meta.RequestID)
	assert.Equal(t, "audit_evaluate", meta.ActionType)
	assert.Equal(t, "AUD-1", meta.ID)
	assert.Equal(t, raw, base.GetRawData())

	payload, ok := base.GetBizPayload().(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "v", payload["k"])
}

func TestBaseHandlerParseJobInvalid(t *testing.T) {
	base := &BaseHandler{}
	assert.Error(t, base.ParseJob(context.Background(), []byte("not json")))
	assert.Error(t, base.ParseJob(context.Background(), []byte(`{"payload":null}`)))
	assert.Error(t, base.ParseJob(context.Background(), []byte(`{"payload":{"data":null}}`)))
}

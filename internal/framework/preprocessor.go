package framework

import (
	"context"
	"fmt"
)

// PreProcessor runs a handler's processing stages in order, stopping at the
// first failure.
type PreProcessor struct {
	processFuncs []ProcessorFunc
}

// NewPreProcessor builds a stage chain.
func NewPreProcessor(processFuncs []ProcessorFunc) *PreProcessor {
	return &PreProcessor{
		processFuncs: processFuncs,
	}
}

// Run executes the chain. The failing stage's error is returned unwrapped
// enough for errorutil kind inspection.
func (p *PreProcessor) Run(ctx context.Context) error {
	for i, processFunc := range p.processFuncs {
		if err := processFunc(ctx); err != nil {
			return fmt.Errorf("processor[%d] failed: %w", i, err)
		}
	}
	return nil
}

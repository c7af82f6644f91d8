// Package postprocessors turns normalised documents into passages.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// BuildPipeline constructs a pipeline from configuration using the registry.
// An empty processor list falls back to the default configuration.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		cfg = domain.DefaultPipelineConfig()
	}

	p := NewPipeline()
	for _, name := range cfg.Processors {
		processor, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		p.Add(processor)
	}
	return p, nil
}

// Process runs the document through all processors in order.
// The first processor receives nil passages and should create them.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Passage, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var passages []domain.Passage

	for _, processor := range p.processors {
		var err error
		passages, err = processor.Process(ctx, doc, passages)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return passages, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

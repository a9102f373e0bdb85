package pipeline

import (
	"context"
	"errors"
	"fmt"

	table "solution-analytics/internal/table/domain"
)

// ErrNilSource is returned when a pipeline has no source.
var ErrNilSource = errors.New("pipeline: nil source")

// Step is a pure transform over an immutable table.
type Step func(*table.Table) (*table.Table, error)

// Source produces the table a pipeline starts from.
type Source func(ctx context.Context) (*table.Table, error)

// Pipeline pairs a data source with an ordered list of steps.
type Pipeline struct {
	Name   string
	Source Source
	Steps  []Step
}

// Run applies steps in order and stops at the first error.
func Run(t *table.Table, steps ...Step) (*table.Table, error) {
	out := t
	for i, step := range steps {
		if step == nil {
			continue
		}
		next, err := step(out)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = next
	}
	return out, nil
}

// Execute loads the source and runs the steps.
func (p Pipeline) Execute(ctx context.Context) (*table.Table, error) {
	if p.Source == nil {
		return nil, ErrNilSource
	}
	t, err := p.Source(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := Run(t, p.Steps...)
	if err != nil && p.Name != "" {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	return out, err
}

// Then returns a copy of the pipeline with more steps appended.
func (p Pipeline) Then(steps ...Step) Pipeline {
	out := p
	out.Steps = append(append([]Step(nil), p.Steps...), steps...)
	return out
}

// Static is a source returning a fixed table.
func Static(t *table.Table) Source {
	return func(context.Context) (*table.Table, error) { return t, nil }
}

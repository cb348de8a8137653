// abstract.go defines the Abstract interface for image processors.

// Package imageprocessor provides the per-frame pixel transforms.
package imageprocessor

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/edgetracker/matrix"
)

// Abstract is a stateless (across frames) in-place transform of a pixel matrix.
type Abstract interface {
	fmt.Stringer
	Process(context.Context, *matrix.BGR) error
}

// Sequence applies processors one after another on the same matrix.
type Sequence []Abstract

var _ Abstract = (Sequence)(nil)

func (s Sequence) String() string {
	return fmt.Sprintf("Sequence%v", []Abstract(s))
}

func (s Sequence) Process(ctx context.Context, m *matrix.BGR) error {
	for idx, p := range s {
		if err := p.Process(ctx, m); err != nil {
			return fmt.Errorf("processor #%d (%s) failed: %w", idx, p, err)
		}
	}
	return nil
}

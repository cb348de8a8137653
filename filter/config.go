package filter

import (
	"fmt"
	"image"
	"image/color"

	"github.com/xaionaro-go/edgetracker/imageprocessor"
	"github.com/xaionaro-go/edgetracker/tracker"
)

// Config is the initial configuration of a Filter. Enabled and Silent may
// later be changed at any time via SetEnabled/SetSilent.
type Config struct {
	// Enabled activates the processing; a disabled filter forwards buffers as is.
	Enabled bool

	// Silent lowers the verbosity of per-frame diagnostics. It has no other effect.
	Silent bool

	EdgeDetect imageprocessor.EdgeDetectParams

	TrackerKind    tracker.Kind
	TemplateParams tracker.TemplateParams

	// BoxSize is the side of the square the tracker is seeded with.
	BoxSize int

	// InitialBox, if not empty, replaces the centered square.
	InitialBox image.Rectangle

	Highlight color.RGBA
	Thickness int
}

func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		EdgeDetect:     imageprocessor.DefaultEdgeDetectParams(),
		TrackerKind:    tracker.KindTemplate,
		TemplateParams: tracker.DefaultTemplateParams(),
		BoxSize:        tracker.DefaultBoxSize,
		Highlight:      imageprocessor.HighlightColor,
		Thickness:      imageprocessor.DefaultThickness,
	}
}

func (cfg Config) Validate() error {
	if err := cfg.EdgeDetect.Validate(); err != nil {
		return fmt.Errorf("invalid edge detection parameters: %w", err)
	}
	if cfg.TrackerKind <= tracker.KindUndefined || cfg.TrackerKind >= tracker.EndOfKind {
		return fmt.Errorf("invalid tracker kind: %s", cfg.TrackerKind)
	}
	if cfg.BoxSize <= 0 && cfg.InitialBox.Empty() {
		return fmt.Errorf("the box size must be positive, got %d", cfg.BoxSize)
	}
	if cfg.Thickness == 0 {
		return fmt.Errorf("the rectangle thickness must be non-zero")
	}
	return nil
}

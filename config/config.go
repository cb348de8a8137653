// config.go implements loading the filter and demo configuration from YAML.

// Package config provides the YAML configuration of the edgetracker filter
// and of the demo pipeline around it.
package config

import (
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/xaionaro-go/edgetracker/filter"
	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/imageprocessor"
	"github.com/xaionaro-go/edgetracker/tracker"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration file.
type Config struct {
	Enabled    bool                            `yaml:"enabled"`
	Silent     bool                            `yaml:"silent"`
	EdgeDetect imageprocessor.EdgeDetectParams `yaml:"edge_detect"`
	Tracker    TrackerConfig                   `yaml:"tracker"`
	Overlay    OverlayConfig                   `yaml:"overlay"`
	Source     SourceConfig                    `yaml:"source"`
}

// TrackerConfig configures the tracked region and the algorithm.
type TrackerConfig struct {
	Kind       tracker.Kind           `yaml:"kind"`
	Template   tracker.TemplateParams `yaml:"template"`
	BoxSize    int                    `yaml:"box_size"`
	InitialBox *Box                   `yaml:"initial_box"`
}

// Box is a rectangle given by its top-left corner and its size.
type Box struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (b Box) Rectangle() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// OverlayConfig configures the outline of the tracked region.
type OverlayConfig struct {
	Color     HexColor `yaml:"color"`
	Thickness int      `yaml:"thickness"`
}

// SourceConfig configures the synthetic moving-square source of the demo.
type SourceConfig struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	FrameRate  float64       `yaml:"frame_rate"`
	Frames     int           `yaml:"frames"`
	SquareSize int           `yaml:"square_size"`
	Speed      int           `yaml:"speed"`
	Pace       time.Duration `yaml:"pace"`

	// Caps replaces the descriptor the source announces, in the textual
	// form "video/x-raw, format=BGR, width=320, height=240". The frames are
	// still rendered at Width x Height.
	Caps string `yaml:"caps,omitempty"`
}

// Structure is the format descriptor the source announces.
func (cfg SourceConfig) Structure() (format.Structure, error) {
	if cfg.Caps == "" {
		return format.NewVideoStructure(cfg.Width, cfg.Height, format.PixelLayoutBGR), nil
	}
	s, err := format.ParseStructure(cfg.Caps)
	if err != nil {
		return format.Structure{}, fmt.Errorf("unable to parse caps '%s': %w", cfg.Caps, err)
	}
	return s, nil
}

func Default() Config {
	filterCfg := filter.DefaultConfig()
	return Config{
		Enabled:    filterCfg.Enabled,
		Silent:     filterCfg.Silent,
		EdgeDetect: filterCfg.EdgeDetect,
		Tracker: TrackerConfig{
			Kind:     filterCfg.TrackerKind,
			Template: filterCfg.TemplateParams,
			BoxSize:  filterCfg.BoxSize,
		},
		Overlay: OverlayConfig{
			Color:     HexColor(filterCfg.Highlight),
			Thickness: filterCfg.Thickness,
		},
		Source: SourceConfig{
			Width:      320,
			Height:     240,
			FrameRate:  30,
			Frames:     300,
			SquareSize: 20,
			Speed:      2,
		},
	}
}

// Load reads the configuration file; omitted keys keep their defaults.
// Environment variables ($VAR, ${VAR}) are expanded before parsing.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to open the config file '%s': %w", path, err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("unable to load the config file '%s': %w", path, err)
	}
	return cfg, nil
}

func Read(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write serializes the configuration (e.g. to produce a config template).
func (cfg Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("unable to serialize the config: %w", err)
	}
	return enc.Close()
}

func (cfg Config) Validate() error {
	if err := cfg.Filter().Validate(); err != nil {
		return err
	}
	if b := cfg.Tracker.InitialBox; b != nil && (b.Width <= 0 || b.Height <= 0) {
		return fmt.Errorf("the initial box must have a positive size, got %dx%d", b.Width, b.Height)
	}
	if cfg.Source.Width <= 0 || cfg.Source.Height <= 0 {
		return fmt.Errorf("invalid source resolution %dx%d", cfg.Source.Width, cfg.Source.Height)
	}
	if cfg.Source.FrameRate <= 0 {
		return fmt.Errorf("invalid source frame rate %v", cfg.Source.FrameRate)
	}
	if _, err := cfg.Source.Structure(); err != nil {
		return err
	}
	return nil
}

// Filter returns the part of the configuration the filter element consumes.
func (cfg Config) Filter() filter.Config {
	result := filter.Config{
		Enabled:        cfg.Enabled,
		Silent:         cfg.Silent,
		EdgeDetect:     cfg.EdgeDetect,
		TrackerKind:    cfg.Tracker.Kind,
		TemplateParams: cfg.Tracker.Template,
		BoxSize:        cfg.Tracker.BoxSize,
		Highlight:      cfg.Overlay.Color.ToRGBA(),
		Thickness:      cfg.Overlay.Thickness,
	}
	if cfg.Tracker.InitialBox != nil {
		result.InitialBox = cfg.Tracker.InitialBox.Rectangle()
	}
	return result
}

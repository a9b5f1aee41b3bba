package view

import (
	"time"

	"github.com/matzehuels/repostory/pkg/errors"
)

// Defaults for a story view.
const (
	DefaultTickInterval   = 40 * time.Millisecond
	DefaultInitialVisible = 50
	DefaultZoomIn         = 1.08
	DefaultZoomOut        = 0.92
	DefaultMinZoom        = 0.2
	DefaultMaxZoom        = 5.0
	DefaultMargin         = 40.0
	DefaultNodeRadius     = 3.0
	DefaultTagRadius      = 4.2
	DefaultWidth          = 960
	DefaultHeight         = 540
)

// Options configures playback timing, zoom limits and node geometry.
// Lengths are in CSS pixels and are scaled by the device pixel ratio.
// Zero fields are unset and filled in by SetDefaults.
type Options struct {
	TickInterval   time.Duration
	InitialVisible int
	ZoomIn         float64
	ZoomOut        float64
	MinZoom        float64
	MaxZoom        float64
	Margin         float64
	NodeRadius     float64
	TagRadius      float64
}

// DefaultOptions returns the standard view configuration.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.TickInterval == 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.InitialVisible == 0 {
		o.InitialVisible = DefaultInitialVisible
	}
	if o.ZoomIn == 0 {
		o.ZoomIn = DefaultZoomIn
	}
	if o.ZoomOut == 0 {
		o.ZoomOut = DefaultZoomOut
	}
	if o.MinZoom == 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.NodeRadius == 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	if o.TagRadius == 0 {
		o.TagRadius = DefaultTagRadius
	}
}

// Validate checks that the options describe a usable view.
func (o Options) Validate() error {
	switch {
	case o.TickInterval <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "tick interval must be positive, got %s", o.TickInterval)
	case o.InitialVisible < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "initial visible count must be at least 1, got %d", o.InitialVisible)
	case o.ZoomIn <= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "zoom-in factor must be greater than 1, got %g", o.ZoomIn)
	case o.ZoomOut <= 0 || o.ZoomOut >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "zoom-out factor must be in (0, 1), got %g", o.ZoomOut)
	case o.MinZoom <= 0 || o.MinZoom > 1 || o.MaxZoom < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "zoom range [%g, %g] must contain 1", o.MinZoom, o.MaxZoom)
	case o.Margin < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %g", o.Margin)
	case o.NodeRadius <= 0 || o.TagRadius <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "node radii must be positive")
	}
	return nil
}

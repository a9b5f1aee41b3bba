// Package config loads repostory settings from a .repostory.toml file.
//
// Settings resolve in three layers: built-in defaults, then the config
// file, then command-line flags. This package handles the first two;
// the CLI applies flags on top of the returned [Config].
//
// A config file is looked up in the repository root unless a path is given
// explicitly. A missing file at the default location is not an error; a
// missing file that was asked for by path is.
//
// Example file:
//
//	output = "story.html"
//	title  = "My Project"
//	source = "gogit"   # or "exec"
//	lanes  = "reclaim" # or "first-parent"
//
//	[playback]
//	interval_ms     = 40
//	initial_visible = 50
//
//	[view]
//	margin      = 40
//	node_radius = 3.0
//	tag_radius  = 4.2
//	min_zoom    = 0.2
//	max_zoom    = 5.0
//	zoom_in     = 1.08
//	zoom_out    = 0.92
package config

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/render/html"
	"github.com/matzehuels/repostory/pkg/view"
)

// FileName is the config file looked up in the repository root.
const FileName = ".repostory.toml"

// DefaultOutput is the document path, relative to the working directory.
const DefaultOutput = "repo_story_standalone.html"

// Config holds every file-configurable setting.
type Config struct {
	Output   string   `toml:"output"`
	Title    string   `toml:"title"`
	Source   string   `toml:"source"`
	Lanes    string   `toml:"lanes"`
	Playback Playback `toml:"playback"`
	View     View     `toml:"view"`
}

// Playback configures the animation timeline.
type Playback struct {
	IntervalMS     int `toml:"interval_ms"`
	InitialVisible int `toml:"initial_visible"`
}

// View configures geometry and zoom.
type View struct {
	Margin     float64 `toml:"margin"`
	NodeRadius float64 `toml:"node_radius"`
	TagRadius  float64 `toml:"tag_radius"`
	MinZoom    float64 `toml:"min_zoom"`
	MaxZoom    float64 `toml:"max_zoom"`
	ZoomIn     float64 `toml:"zoom_in"`
	ZoomOut    float64 `toml:"zoom_out"`
}

// Default returns the built-in settings.
func Default() Config {
	v := view.DefaultOptions()
	return Config{
		Output: DefaultOutput,
		Title:  html.DefaultTitle,
		Source: string(history.DefaultKind),
		Lanes:  string(layout.DefaultStrategy),
		Playback: Playback{
			IntervalMS:     int(v.TickInterval / time.Millisecond),
			InitialVisible: v.InitialVisible,
		},
		View: View{
			Margin:     v.Margin,
			NodeRadius: v.NodeRadius,
			TagRadius:  v.TagRadius,
			MinZoom:    v.MinZoom,
			MaxZoom:    v.MaxZoom,
			ZoomIn:     v.ZoomIn,
			ZoomOut:    v.ZoomOut,
		},
	}
}

// Load reads the file at path on top of the defaults. A missing file is
// FILE_NOT_FOUND.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := checkUndecoded(md, path); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Discover loads FileName from dir if it exists and returns the defaults
// otherwise. The second result is the path that was loaded, or "".
func Discover(dir string) (Config, string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), "", nil
		}
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat %s", path)
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Decode reads TOML from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md, "config"); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData, name string) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", name, strings.Join(keys, ", "))
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks every setting.
func (c Config) Validate() error {
	if err := errors.ValidateOutputPath(c.Output); err != nil {
		return err
	}
	if _, err := history.ParseKind(c.Source); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source")
	}
	if _, err := layout.ParseStrategy(c.Lanes); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "lanes")
	}
	if c.Playback.IntervalMS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "playback.interval_ms must be positive, got %d", c.Playback.IntervalMS)
	}
	return c.ViewOptions().Validate()
}

// SourceKind returns the parsed source setting.
func (c Config) SourceKind() history.Kind {
	k, err := history.ParseKind(c.Source)
	if err != nil {
		return history.DefaultKind
	}
	return k
}

// Strategy returns the parsed lanes setting.
func (c Config) Strategy() layout.Strategy {
	s, err := layout.ParseStrategy(c.Lanes)
	if err != nil {
		return layout.DefaultStrategy
	}
	return s
}

// ViewOptions converts the playback and view tables to view options.
func (c Config) ViewOptions() view.Options {
	return view.Options{
		TickInterval:   time.Duration(c.Playback.IntervalMS) * time.Millisecond,
		InitialVisible: c.Playback.InitialVisible,
		ZoomIn:         c.View.ZoomIn,
		ZoomOut:        c.View.ZoomOut,
		MinZoom:        c.View.MinZoom,
		MaxZoom:        c.View.MaxZoom,
		Margin:         c.View.Margin,
		NodeRadius:     c.View.NodeRadius,
		TagRadius:      c.View.TagRadius,
	}
}

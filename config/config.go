// Package config loads the viewer and player settings from a YAML file and the command line.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Resolve to fields left empty.
const (
	DefaultTickRate    = 60.0
	DefaultWidth       = 1024
	DefaultHeight      = 768
	DefaultTitle       = "oxy-mdl"
	DefaultVolume      = 1.0
	DefaultSampleRate  = 44100
	DefaultSnapSize    = 512
	DefaultSupersample = 2
)

// Config holds everything the viewer, player and snapshot tools need to start.
type Config struct {
	// Model is the path of the .mdl file to open.
	Model string `yaml:"model"`
	// GameDirs are the roots searched for sound/<token> files, in order.
	GameDirs []string `yaml:"game_dirs"`
	// RecursiveSoundSearch also searches every directory below each root.
	RecursiveSoundSearch bool `yaml:"recursive_sound_search"`

	// Sequence selects the starting sequence by name or index. Empty plays sequence 0.
	Sequence     string  `yaml:"sequence"`
	PlaybackRate float32 `yaml:"playback_rate"`
	TickRate     float64 `yaml:"tick_rate"`
	Workers      int     `yaml:"workers"`
	Profiling    bool    `yaml:"profiling"`

	Sound    SoundConfig    `yaml:"sound"`
	Window   WindowConfig   `yaml:"window"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SoundConfig controls event sound playback.
type SoundConfig struct {
	Mute       bool    `yaml:"mute"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// SnapshotConfig controls offline pose rendering.
type SnapshotConfig struct {
	Output      string  `yaml:"output"`
	Frame       float32 `yaml:"frame"`
	Size        int     `yaml:"size"`
	Supersample int     `yaml:"supersample"`
}

// Flags holds command-line values that override the config file when set.
type Flags struct {
	ConfigFile string
	Model      string
	Sequence   string
	GameDirs   string
	Output     string
	Rate       float64
	TickRate   float64
	Frame      float64
	Workers    int
	Mute       bool
	Profiling  bool
}

// RegisterFlags defines the shared command-line flags on fs.
//
// Parameters:
//   - fs: the flag set to register on
//
// Returns:
//   - *Flags: the destination of the parsed values
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigFile, "config", "", "Path to a YAML config file")
	fs.StringVar(&f.Model, "model", "", "Path to the .mdl file")
	fs.StringVar(&f.Sequence, "sequence", "", "Starting sequence name or index")
	fs.StringVar(&f.GameDirs, "game", "", "Comma-separated game directories searched for sounds")
	fs.StringVar(&f.Output, "output", "", "Snapshot output path")
	fs.Float64Var(&f.Rate, "rate", 0, "Playback rate multiplier (default: 1)")
	fs.Float64Var(&f.TickRate, "tps", 0, "Ticks per second (default: 60)")
	fs.Float64Var(&f.Frame, "frame", -1, "Snapshot frame")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel bone evaluation workers (default: off)")
	fs.BoolVar(&f.Mute, "mute", false, "Disable event sounds")
	fs.BoolVar(&f.Profiling, "profile", false, "Log tick statistics")
	return f
}

// Load reads and parses a YAML config file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the parsed config, unresolved
//   - error: an error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data. Unknown keys are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed config, unresolved
//   - error: an error if the document is malformed or has unknown keys
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// FromFlags loads the config file named by flags, if any, and resolves it against flags.
//
// Parameters:
//   - flags: the parsed command-line flags
//
// Returns:
//   - Config: the resolved config
//   - error: an error if the config file cannot be loaded
func FromFlags(flags *Flags) (Config, error) {
	var cfg Config
	if flags.ConfigFile != "" {
		var err error
		if cfg, err = Load(flags.ConfigFile); err != nil {
			return Config{}, err
		}
	}
	cfg.Resolve(flags)
	return cfg, nil
}

// Resolve applies flag overrides and then fills empty fields with defaults.
// A nil flags applies defaults only.
//
// Parameters:
//   - flags: the command-line overrides, may be nil
func (c *Config) Resolve(flags *Flags) {
	if flags != nil {
		c.Model = common.Coalesce(flags.Model, c.Model)
		c.Sequence = common.Coalesce(flags.Sequence, c.Sequence)
		c.Snapshot.Output = common.Coalesce(flags.Output, c.Snapshot.Output)
		c.PlaybackRate = common.Coalesce(float32(flags.Rate), c.PlaybackRate)
		c.TickRate = common.Coalesce(flags.TickRate, c.TickRate)
		c.Workers = common.Coalesce(flags.Workers, c.Workers)
		c.Sound.Mute = c.Sound.Mute || flags.Mute
		c.Profiling = c.Profiling || flags.Profiling
		if flags.Frame >= 0 {
			c.Snapshot.Frame = float32(flags.Frame)
		}
		if flags.GameDirs != "" {
			c.GameDirs = nil
			for _, dir := range strings.Split(flags.GameDirs, ",") {
				if dir = strings.TrimSpace(dir); dir != "" {
					c.GameDirs = append(c.GameDirs, dir)
				}
			}
		}
	}

	c.PlaybackRate = common.Coalesce(c.PlaybackRate, 1)
	c.TickRate = common.Coalesce(c.TickRate, DefaultTickRate)
	c.Sound.Volume = common.Coalesce(c.Sound.Volume, DefaultVolume)
	c.Sound.SampleRate = common.Coalesce(c.Sound.SampleRate, DefaultSampleRate)
	c.Window.Width = common.Coalesce(c.Window.Width, DefaultWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, DefaultHeight)
	c.Window.Title = common.Coalesce(c.Window.Title, DefaultTitle)
	c.Snapshot.Size = common.Coalesce(c.Snapshot.Size, DefaultSnapSize)
	c.Snapshot.Supersample = common.Coalesce(c.Snapshot.Supersample, DefaultSupersample)
	if c.Snapshot.Output == "" && c.Model != "" {
		c.Snapshot.Output = strings.TrimSuffix(c.Model, ".mdl") + ".webp"
	}
}

// SequenceIndex resolves the configured starting sequence against model, first by exact
// name and then as a decimal index. An empty selection is sequence 0.
//
// Parameters:
//   - model: the loaded model
//
// Returns:
//   - int: the sequence index
//   - error: a *studio.DomainError if the selection names no sequence
func (c *Config) SequenceIndex(model studio.StudioModel) (int, error) {
	if c.Sequence == "" {
		return 0, nil
	}
	if seq := model.SequenceByName(c.Sequence); seq != nil {
		return seq.Index, nil
	}
	index, err := strconv.Atoi(c.Sequence)
	if err != nil {
		return 0, fmt.Errorf("config: no sequence named %q: %w", c.Sequence,
			studio.NewDomainError("sequence", -1, len(model.Sequences())))
	}
	if err := studio.CheckIndex("sequence", index, len(model.Sequences())); err != nil {
		return 0, err
	}
	return index, nil
}

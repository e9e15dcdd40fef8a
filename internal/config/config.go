package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shhac/anchortea/internal/overlay"
	"gopkg.in/yaml.v3"
)

// Overlay kinds used by the demo app.
const (
	KindDropdown = "dropdown"
	KindTooltip  = "tooltip"
	KindSelect   = "select"
	KindSubmenu  = "submenu"
)

// Config holds application configuration.
type Config struct {
	// Collision is "clamp" or "flip" and applies to every overlay.
	Collision          string `json:"collision" toml:"collision" yaml:"collision"`
	FrameIntervalMs    int    `json:"frameIntervalMs" toml:"frame_interval_ms" yaml:"frame_interval_ms"`
	MaxMeasureAttempts int    `json:"maxMeasureAttempts" toml:"max_measure_attempts" yaml:"max_measure_attempts"`

	Dropdown OverlaySettings `json:"dropdown" toml:"dropdown" yaml:"dropdown"`
	Tooltip  OverlaySettings `json:"tooltip" toml:"tooltip" yaml:"tooltip"`
	Select   OverlaySettings `json:"select" toml:"select" yaml:"select"`
	Submenu  OverlaySettings `json:"submenu" toml:"submenu" yaml:"submenu"`
}

// OverlaySettings configures one kind of overlay. Sizes are terminal cells.
type OverlaySettings struct {
	Placement           string `json:"placement" toml:"placement" yaml:"placement"`
	Alignment           string `json:"alignment" toml:"alignment" yaml:"alignment"`
	Offset              int    `json:"offset" toml:"offset" yaml:"offset"`
	Padding             int    `json:"padding" toml:"padding" yaml:"padding"`
	AnimationMs         int    `json:"animationMs" toml:"animation_ms" yaml:"animation_ms"`
	CloseOnOutsideClick bool   `json:"closeOnOutsideClick" toml:"close_on_outside_click" yaml:"close_on_outside_click"`
	CloseOnNavigation   bool   `json:"closeOnNavigation" toml:"close_on_navigation" yaml:"close_on_navigation"`
	MatchTriggerWidth   bool   `json:"matchTriggerWidth" toml:"match_trigger_width" yaml:"match_trigger_width"`
}

// Defaults
const (
	DefaultCollision          = "clamp"
	DefaultFrameIntervalMs    = 16
	DefaultMaxMeasureAttempts = overlay.DefaultMaxMeasureAttempts
	DefaultAnimationMs        = 100
	DefaultTooltipAnimationMs = 200
	DefaultPadding            = 1

	jsonName = "config.json"
	tomlName = "config.toml"
	yamlName = "config.yaml"
)

// DefaultConfigDir returns the platform-appropriate config directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "anchortea")
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, ".config", "anchortea")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "anchortea")
		}
		return filepath.Join(home, ".config", "anchortea")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "anchortea")
		}
		return filepath.Join(home, ".config", "anchortea")
	}
}

// DefaultPath returns the config file Load reads when no path is given:
// config.toml or config.yaml if one exists, config.json otherwise.
func DefaultPath() string {
	dir := DefaultConfigDir()
	for _, name := range []string{tomlName, yamlName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, jsonName)
}

// DefaultLogPath returns where the app writes its log.
func DefaultLogPath() string {
	return filepath.Join(DefaultConfigDir(), "anchortea.log")
}

// Load reads the config file at path, or DefaultPath when path is empty.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch formatOf(path) {
	case formatTOML:
		err = toml.Unmarshal(data, cfg)
	case formatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save writes the config to path, or DefaultPath when path is empty. The
// format follows the file extension.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshal(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename config: %w", err)
	}

	return nil
}

func marshal(cfg *Config, path string) ([]byte, error) {
	switch formatOf(path) {
	case formatTOML:
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	case formatYAML:
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatTOML
	formatYAML
)

// formatOf picks the file format from the extension. Unknown extensions
// are read as JSON.
func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

// FrameInterval returns the configured frame interval as a time.Duration.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// Settings returns the settings for kind.
func (c *Config) Settings(kind string) (*OverlaySettings, error) {
	switch kind {
	case KindDropdown:
		return &c.Dropdown, nil
	case KindTooltip:
		return &c.Tooltip, nil
	case KindSelect:
		return &c.Select, nil
	case KindSubmenu:
		return &c.Submenu, nil
	}
	return nil, fmt.Errorf("unknown overlay kind %q", kind)
}

// OverlayConfig converts the settings for kind into an engine config.
func (c *Config) OverlayConfig(kind string) (overlay.Config, error) {
	s, err := c.Settings(kind)
	if err != nil {
		return overlay.Config{}, err
	}
	placement, err := overlay.ParsePlacement(s.Placement)
	if err != nil {
		return overlay.Config{}, fmt.Errorf("%s: %w", kind, err)
	}
	align, err := overlay.ParseAlignment(s.Alignment)
	if err != nil {
		return overlay.Config{}, fmt.Errorf("%s: %w", kind, err)
	}
	collision, err := overlay.ParseCollisionPolicy(c.Collision)
	if err != nil {
		return overlay.Config{}, fmt.Errorf("%s: %w", kind, err)
	}
	cfg := overlay.Config{
		Placement:             placement,
		Alignment:             align,
		Offset:                s.Offset,
		Padding:               s.Padding,
		AnimationDuration:     time.Duration(s.AnimationMs) * time.Millisecond,
		CloseOnOutsideClick:   s.CloseOnOutsideClick,
		CloseOnHostNavigation: s.CloseOnNavigation,
		Collision:             collision,
		MaxMeasureAttempts:    c.MaxMeasureAttempts,
		MatchTriggerWidth:     s.MatchTriggerWidth,
	}
	if err := cfg.Validate(); err != nil {
		return overlay.Config{}, fmt.Errorf("%s: %w", kind, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Collision:          DefaultCollision,
		FrameIntervalMs:    DefaultFrameIntervalMs,
		MaxMeasureAttempts: DefaultMaxMeasureAttempts,
		Dropdown: OverlaySettings{
			Placement:           "bottom",
			Alignment:           "start",
			Padding:             DefaultPadding,
			AnimationMs:         DefaultAnimationMs,
			CloseOnOutsideClick: true,
			CloseOnNavigation:   true,
			MatchTriggerWidth:   true,
		},
		Tooltip: OverlaySettings{
			Placement:         "top",
			Alignment:         "center",
			Padding:           DefaultPadding,
			AnimationMs:       DefaultTooltipAnimationMs,
			CloseOnNavigation: true,
		},
		Select: OverlaySettings{
			Placement:           "bottom",
			Alignment:           "center",
			Padding:             DefaultPadding,
			AnimationMs:         DefaultAnimationMs,
			CloseOnOutsideClick: true,
			CloseOnNavigation:   true,
			MatchTriggerWidth:   true,
		},
		Submenu: OverlaySettings{
			Placement:           "right",
			Alignment:           "start",
			Padding:             DefaultPadding,
			AnimationMs:         DefaultAnimationMs,
			CloseOnOutsideClick: true,
			CloseOnNavigation:   true,
		},
	}
}

// applyDefaults replaces values the engine would reject. Explicit zeros for
// offset, padding and animation are valid and kept.
func applyDefaults(cfg *Config) {
	def := defaults()
	if cfg.Collision == "" {
		cfg.Collision = def.Collision
	}
	if cfg.FrameIntervalMs <= 0 {
		cfg.FrameIntervalMs = def.FrameIntervalMs
	}
	if cfg.MaxMeasureAttempts <= 0 {
		cfg.MaxMeasureAttempts = def.MaxMeasureAttempts
	}
	fill := func(s, d *OverlaySettings) {
		if s.Placement == "" {
			s.Placement = d.Placement
		}
		if s.Alignment == "" {
			s.Alignment = d.Alignment
		}
		if s.Offset < 0 {
			s.Offset = d.Offset
		}
		if s.Padding < 0 {
			s.Padding = d.Padding
		}
		if s.AnimationMs < 0 {
			s.AnimationMs = d.AnimationMs
		}
	}
	fill(&cfg.Dropdown, &def.Dropdown)
	fill(&cfg.Tooltip, &def.Tooltip)
	fill(&cfg.Select, &def.Select)
	fill(&cfg.Submenu, &def.Submenu)
}

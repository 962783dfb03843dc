package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/inamate/inamate/editor-go/internal/tool"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	SettingsFile   string `envconfig:"SETTINGS_FILE"`

	// Select tool defaults. Distances are in screen pixels.
	SnapAngle              float64       `envconfig:"SNAP_ANGLE" default:"45"`
	RotationHandleDistance float64       `envconfig:"ROTATION_HANDLE_DISTANCE" default:"10"`
	HitTolerance           float64       `envconfig:"HIT_TOLERANCE" default:"8"`
	DoubleClickThreshold   time.Duration `envconfig:"DOUBLE_CLICK_THRESHOLD" default:"250ms"`
	GuideColor             string        `envconfig:"GUIDE_COLOR" default:"#9257f7"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// SelectOptions returns the select tool options from the environment.
func (c *Config) SelectOptions() tool.SelectOptions {
	opts := tool.DefaultSelectOptions()
	opts.SnapAngle = c.SnapAngle
	opts.RotationHandleDistance = c.RotationHandleDistance
	opts.HitTolerance = c.HitTolerance
	opts.DoubleClickThreshold = c.DoubleClickThreshold
	if c.GuideColor != "" {
		opts.GuideColor = c.GuideColor
	}
	return opts
}

// Settings are user preferences persisted as TOML:
//
//	[keybinds]
//	"ctrl-a" = ["select.selectAll"]
//
//	[tools.select]
//	snapAngle = 15
//	detail = true
type Settings struct {
	Keybinds map[string][]string `toml:"keybinds,omitempty"`
	Tools    ToolSettings        `toml:"tools"`
}

type ToolSettings struct {
	Select SelectSettings `toml:"select"`
}

// SelectSettings mirror tool.SelectOptions by field name. Zero values mean
// "not set".
type SelectSettings struct {
	SnapAngle              float64 `toml:"snapAngle,omitempty"`
	HitTolerance           float64 `toml:"hitTolerance,omitempty"`
	RotationHandleDistance float64 `toml:"rotationHandleDistance,omitempty"`
	GuideColor             string  `toml:"guideColor,omitempty"`
	Detail                 bool    `toml:"detail,omitempty"`
	DoubleClickMillis      int64   `toml:"doubleClickMillis,omitempty"`
}

// ParseSettings decodes TOML settings.
func ParseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// LoadSettings reads the settings file. A missing file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return &Settings{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Info("settings file not found, using defaults", "path", path)
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return ParseSettings(data)
}

// Marshal encodes the settings as TOML.
func (s *Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}

// Apply overlays the non-zero select settings onto base.
func (s *Settings) Apply(base tool.SelectOptions) (tool.SelectOptions, error) {
	out := base
	if err := copier.CopyWithOption(&out, &s.Tools.Select, copier.Option{IgnoreEmpty: true}); err != nil {
		return base, fmt.Errorf("failed to apply select settings: %w", err)
	}
	if ms := s.Tools.Select.DoubleClickMillis; ms > 0 {
		out.DoubleClickThreshold = time.Duration(ms) * time.Millisecond
	}
	return out, nil
}

// Package config loads the host-level TOML configuration file: ROM/
// save directories, display and audio preferences, and key bindings.
// It has no dependency on the emulator core itself — only cmd/ hosts
// read it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// KeyBindings maps each physical button to a keyboard scancode name,
// stored as plain strings so the TOML file stays editable by hand and
// the host resolves them against its input library at load time.
type KeyBindings struct {
	Right  string `toml:"right"`
	Left   string `toml:"left"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	A      string `toml:"a"`
	B      string `toml:"b"`
	Select string `toml:"select"`
	Start  string `toml:"start"`
}

// Config is the full set of host-configurable options.
type Config struct {
	LastROMPath  string  `toml:"last_rom_path"`
	LastROMDir   string  `toml:"last_rom_dir"`
	SaveDir      string  `toml:"save_dir"`
	Palette      string  `toml:"palette"`
	FrameLimit   bool    `toml:"frame_limit"`
	TargetFPS    float64 `toml:"target_fps"`
	AudioEnabled bool    `toml:"audio_enabled"`
	AudioVolume  float64 `toml:"audio_volume"`
	WindowScale  int     `toml:"window_scale"`

	Keys KeyBindings `toml:"keys"`
}

// Default returns the configuration a fresh install starts with.
func Default() Config {
	return Config{
		Palette:      "dmg-green",
		FrameLimit:   true,
		TargetFPS:    59.7275,
		AudioEnabled: true,
		AudioVolume:  0.8,
		WindowScale:  3,
		Keys: KeyBindings{
			Right: "Right", Left: "Left", Up: "Up", Down: "Down",
			A: "Z", B: "X", Select: "RightShift", Start: "Return",
		},
	}
}

// Path returns the default config file location under the user's
// config directory, or "" if that directory can't be determined.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "dmgcore", "config.toml")
}

// Load reads and validates the config file at path. A missing file is
// not an error: it returns Default(). A malformed file, conversely,
// returns the error rather than silently falling back, so a host can
// surface it instead of clobbering a user's edits on next save.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories as
// needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.TargetFPS <= 0 {
		c.TargetFPS = 59.7275
	}
	if c.WindowScale <= 0 {
		c.WindowScale = 3
	}
	if c.AudioVolume < 0 {
		c.AudioVolume = 0
	}
	if c.AudioVolume > 1 {
		c.AudioVolume = 1
	}
	switch c.Palette {
	case "dmg-green", "grayscale":
	default:
		c.Palette = "dmg-green"
	}
}

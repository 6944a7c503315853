package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultMode               = "osu"
	DefaultSingletapThreshold = 125.0
	DefaultBeatmapSource      = SourceLibrary

	SourceLibrary = "library"
	SourceOsuAPI  = "osuapi"
)

// FileConfig mirrors the TOML file, absent keys stay nil
type FileConfig struct {
	Rating   RatingConfig   `toml:"rating"`
	Beatmaps BeatmapsConfig `toml:"beatmaps"`
	OsuAPI   OsuAPIConfig   `toml:"osuapi"`
	Database DatabaseConfig `toml:"database"`
}

type RatingConfig struct {
	Mode               *string  `toml:"mode"`
	SingletapThreshold *float64 `toml:"singletap-threshold"`
	Workers            *int     `toml:"workers"`
	OldStatistics      *bool    `toml:"old-statistics"`
}

type BeatmapsConfig struct {
	// Source is either "library" or "osuapi"
	Source *string `toml:"source"`
	Dir    *string `toml:"dir"`
}

type OsuAPIConfig struct {
	ClientID     *string `toml:"client-id"`
	ClientSecret *string `toml:"client-secret"`
	BaseURL      *string `toml:"base-url"`
}

type DatabaseConfig struct {
	Path *string `toml:"path"`
}

// Settings is the resolved configuration with defaults applied
type Settings struct {
	Mode               string
	SingletapThreshold float64
	Workers            int
	OldStatistics      bool

	BeatmapSource string
	BeatmapDir    string

	OsuClientID     string
	OsuClientSecret string
	OsuBaseURL      string

	DatabasePath string
}

// XDGConfigHome returns the XDG config home or a default fallback
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}

	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}

	return filepath.Join(home, ".local", "share")
}

func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "starpp", "config.toml")
}

func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "starpp", "starpp.db")
}

func DefaultBeatmapDir() string {
	return filepath.Join(XDGDataHome(), "starpp", "beatmaps")
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}

		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

func pick[T any](v *T, def T) T {
	if v == nil {
		return def
	}

	return *v
}

// Resolve applies defaults to every absent key
func (cfg FileConfig) Resolve() (Settings, error) {
	s := Settings{
		Mode:               pick(cfg.Rating.Mode, DefaultMode),
		SingletapThreshold: pick(cfg.Rating.SingletapThreshold, DefaultSingletapThreshold),
		Workers:            pick(cfg.Rating.Workers, 0),
		OldStatistics:      pick(cfg.Rating.OldStatistics, false),
		BeatmapSource:      pick(cfg.Beatmaps.Source, DefaultBeatmapSource),
		BeatmapDir:         pick(cfg.Beatmaps.Dir, DefaultBeatmapDir()),
		OsuClientID:        pick(cfg.OsuAPI.ClientID, ""),
		OsuClientSecret:    pick(cfg.OsuAPI.ClientSecret, ""),
		OsuBaseURL:         pick(cfg.OsuAPI.BaseURL, ""),
		DatabasePath:       pick(cfg.Database.Path, DefaultDBPath()),
	}

	if s.BeatmapSource != SourceLibrary && s.BeatmapSource != SourceOsuAPI {
		return Settings{}, fmt.Errorf("unknown beatmap source %q", s.BeatmapSource)
	}

	if s.SingletapThreshold <= 0 {
		s.SingletapThreshold = DefaultSingletapThreshold
	}

	return s, nil
}

// Load reads and resolves the config at path
func Load(path string) (Settings, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return Settings{}, err
	}

	return cfg.Resolve()
}

package engineconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EngineConfigPath is the default preferences file, relative to the process working directory.
const EngineConfigPath = "config/engine.json"

// EnvPrefix prefixes environment overrides, e.g. CONFIGURATOR_TARGET_FPS=30.
const EnvPrefix = "CONFIGURATOR"

// EnginePrefs holds application preferences (window, overlays, asset locations, camera feel,
// AI model). Persisted across runs. Configurations built by the user are never saved.
type EnginePrefs struct {
	ShowFPS      bool `json:"show_fps" mapstructure:"show_fps"`
	ShowMemAlloc bool `json:"show_memalloc" mapstructure:"show_memalloc"`
	ShowCamera   bool `json:"show_camera" mapstructure:"show_camera"`

	WindowWidth  int  `json:"window_width" mapstructure:"window_width"`
	WindowHeight int  `json:"window_height" mapstructure:"window_height"`
	Fullscreen   bool `json:"fullscreen" mapstructure:"fullscreen"`
	TargetFPS    int  `json:"target_fps" mapstructure:"target_fps"`

	AssetDir    string `json:"asset_dir" mapstructure:"asset_dir"`
	CacheDir    string `json:"cache_dir" mapstructure:"cache_dir"`
	CatalogPath string `json:"catalog_path,omitempty" mapstructure:"catalog_path"`

	CameraSmoothing  float32 `json:"camera_smoothing" mapstructure:"camera_smoothing"`
	FrameIndependent bool    `json:"frame_independent" mapstructure:"frame_independent"`
	SettleMS         int     `json:"settle_ms" mapstructure:"settle_ms"`

	UIFont string `json:"ui_font,omitempty" mapstructure:"ui_font"`

	AIModel   string `json:"ai_model,omitempty" mapstructure:"ai_model"`
	AIBaseURL string `json:"ai_base_url,omitempty" mapstructure:"ai_base_url"`
}

// Default returns default preferences (overlays off, 1280x720 at 60 FPS).
func Default() EnginePrefs {
	return EnginePrefs{
		WindowWidth:     1280,
		WindowHeight:    720,
		TargetFPS:       60,
		AssetDir:        "assets/models",
		CacheDir:        "cache/models",
		CameraSmoothing: 0.04,
		SettleMS:        500,
		AIModel:         "gpt-4o-mini",
	}
}

// LoadFile layers defaults, the JSON file at path and CONFIGURATOR_* environment variables.
// A missing file is not an error. An unreadable or invalid file is reported, and the
// defaults (with environment overrides) are returned alongside the error.
func LoadFile(path string) (EnginePrefs, error) {
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return Default(), err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			readErr = fmt.Errorf("engineconfig: %s: %w", path, err)
		}
	}

	var p EnginePrefs
	if err := v.Unmarshal(&p); err != nil {
		return Default(), fmt.Errorf("engineconfig: %w", err)
	}
	return p.Sanitize(), readErr
}

// setDefaults registers every field of d so viper knows the keys env overrides may target.
func setDefaults(v *viper.Viper, d EnginePrefs) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, val := range m {
		v.SetDefault(k, val)
	}
	// omitempty fields still need a key.
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("ai_base_url", d.AIBaseURL)
	v.SetDefault("ui_font", d.UIFont)
	return nil
}

// Sanitize replaces out-of-range values with defaults.
func (p EnginePrefs) Sanitize() EnginePrefs {
	d := Default()
	if p.WindowWidth < 320 || p.WindowHeight < 240 {
		p.WindowWidth, p.WindowHeight = d.WindowWidth, d.WindowHeight
	}
	if p.TargetFPS <= 0 {
		p.TargetFPS = d.TargetFPS
	}
	if !(p.CameraSmoothing > 0 && p.CameraSmoothing < 1) {
		p.CameraSmoothing = d.CameraSmoothing
	}
	if p.SettleMS < 0 {
		p.SettleMS = d.SettleMS
	}
	if p.AssetDir == "" {
		p.AssetDir = d.AssetDir
	}
	if p.CacheDir == "" {
		p.CacheDir = d.CacheDir
	}
	return p
}

// SaveFile writes preferences to path as indented JSON.
func SaveFile(path string, p EnginePrefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// AssetsConfig holds asset location settings.
type AssetsConfig struct {
	// Root is the directory asset URIs are resolved against.
	Root string `yaml:"root"`
	// Model is the descriptor opened when none is given on the command line.
	Model string `yaml:"model"`
}

// ViewerConfig holds interactive viewer settings.
type ViewerConfig struct {
	OrbitSpeed float32    `yaml:"orbit_speed"`
	ZoomSpeed  float32    `yaml:"zoom_speed"`
	ShowBounds bool       `yaml:"show_bounds"`
	ClearColor [3]float32 `yaml:"clear_color"`
	// Animation is the clip auto-played once a model loads; empty plays nothing.
	Animation string `yaml:"animation"`
	LoopClips bool   `yaml:"loop_clips"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Assets: AssetsConfig{
			Root: ".",
		},
		Viewer: ViewerConfig{
			OrbitSpeed: 0.01,
			ZoomSpeed:  0.1,
			ShowBounds: false,
			ClearColor: [3]float32{0.1, 0.1, 0.12},
			LoopClips:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

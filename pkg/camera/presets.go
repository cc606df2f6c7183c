package camera

import "sort"

// Preset names for common capture resolutions
const (
	PresetQVGA   = "qvga"
	PresetVGA    = "vga"
	Preset720p   = "720p"
	PresetNative = "native"
)

// Presets returns all available capture presets.
func Presets() map[string]Config {
	return map[string]Config{
		PresetQVGA:   withSize(DefaultConfig(), 320, 240, 30),
		PresetVGA:    withSize(DefaultConfig(), 640, 480, 30),
		Preset720p:   withSize(DefaultConfig(), 1280, 720, 30),
		PresetNative: DefaultConfig(),
	}
}

// PresetNames returns the sorted list of preset names.
func PresetNames() []string {
	names := make([]string, 0, 4)
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a preset by name, or nil if not found.
func GetPreset(name string) *Config {
	if cfg, ok := Presets()[name]; ok {
		return &cfg
	}
	return nil
}

// ApplyPreset copies the capture size of a preset onto cfg, keeping the
// source selection. It reports whether the preset exists.
func ApplyPreset(cfg *Config, name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	cfg.Width, cfg.Height, cfg.Framerate = p.Width, p.Height, p.Framerate
	return true
}

func withSize(cfg Config, w, h, fps int) Config {
	cfg.Width = w
	cfg.Height = h
	cfg.Framerate = fps
	return cfg
}

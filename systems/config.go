package systems

import "github.com/pthm-cable/touchfield/config"

// LayoutFromConfig extracts the grid layout from cfg.
func LayoutFromConfig(cfg *config.Config) Layout {
	f := cfg.Field
	return Layout{
		Spacing: f.Spacing,
		MinSize: f.MinSize,
		MaxSize: f.MaxSize,
		Palette: cfg.Derived.Palette,
	}
}

// TuningFromConfig extracts the per-frame force constants from cfg.
func TuningFromConfig(cfg *config.Config) Tuning {
	f := cfg.Field
	return Tuning{
		MaxDistance: f.MaxDistance,
		Strength:    f.Strength,
		Spring:      f.Spring,
		Friction:    f.Friction,
		Epsilon:     f.Epsilon,
	}
}

// Package ui provides a descriptor-driven UI system for the particle field.
// Instead of hard-coding field names and layouts, UI elements are defined
// through metadata that can be updated alongside the underlying systems.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string             // Unique identifier for the field
	Label       string             // Display label
	Widget      WidgetType         // How to render
	Format      string             // Printf format for text (e.g., "%.2f")
	Range       FieldRange         // Value range for bars
	Color       rl.Color           // Optional color override
	Visible     func(any) bool     // Optional visibility check (nil = always visible)
	Getter      func(any) float32  // Value extractor (for numeric fields)
	TextGetter  func(any) string   // Value extractor (for text fields)
	ColorGetter func(any) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 17, G: 24, B: 39, A: 235},
		PanelBorder:    rl.Color{R: 55, G: 65, B: 81, A: 255},
		SectionHeader:  rl.Color{R: 6, G: 182, B: 212, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 59, G: 130, B: 246, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

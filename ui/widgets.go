package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for value within rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	ratio := normalize(value, rng)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	// Label
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	// Background
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	// Fill
	fillWidth := int32(float32(barWidth) * ratio)
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, r.Theme.BarFill)

	// Value text
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// normalize maps value into [0, 1] over rng.
func normalize(value float32, rng FieldRange) float32 {
	span := rng.Max - rng.Min
	if span <= 0 {
		return 0
	}
	n := (value - rng.Min) / span
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	swatchSize := int32(12)

	// Label
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	// Swatch
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, color)

	return y + r.Theme.LineHeight
}

// DrawSlider draws a labelled raygui slider and returns the new value and Y position.
func (r *Renderer) DrawSlider(x, y int32, label string, value float32, rng FieldRange, width int32) (float32, int32) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width - 60), Height: 16}
	v := gui.SliderBar(bounds, "", "", value, rng.Min, rng.Max)
	rl.DrawText(fmt.Sprintf("%.3g", v), x+width-52, y+2, r.Theme.FontSize, r.Theme.ValueColor)

	return v, y + 22
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(data)
		} else if fd.Getter != nil {
			text = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar:
		value := float32(0)
		if fd.Getter != nil {
			value = fd.Getter(data)
		}
		return r.DrawBar(x, y, fd.Label, value, fd.Range, width)

	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}

	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}

	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}

	return y + 4 // Small gap after section
}

// SectionHeight returns the height DrawSection would use for data.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	var h int32
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		switch fd.Widget {
		case WidgetBar:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h + 4
}

package vterm

import "image/color"

// ColorKind distinguishes how a Color's value should be interpreted.
type ColorKind uint8

const (
	// ColorDefault means "use the terminal's default foreground/background".
	ColorDefault ColorKind = iota
	// ColorNamed addresses one of the 16 standard ANSI colors via Index.
	// The semantic NamedColor* values below do not fit in Index.
	ColorNamed
	// ColorIndexed addresses the 256-color palette via Index.
	ColorIndexed
	// ColorRGB carries an explicit 24-bit color in RGB.
	ColorRGB
)

// Color is a small value type (no pointers, no interface boxing) so that a
// Cell — which a Grid allocates by the million across scrollback — stays a
// plain, copyable struct. It resolves to a concrete color.RGBA only at
// render/snapshot time via ResolveColor.
type Color struct {
	Kind  ColorKind
	Index uint8 // valid when Kind is ColorNamed or ColorIndexed
	RGB   [3]uint8
}

// RGBColor constructs a 24-bit truecolor Color.
func RGBColor(r, g, b uint8) Color { return Color{Kind: ColorRGB, RGB: [3]uint8{r, g, b}} }

// IndexedColorOf constructs a 256-palette Color.
func IndexedColorOf(index uint8) Color { return Color{Kind: ColorIndexed, Index: index} }

// NamedColorOf constructs a Color referencing one of the 16 ANSI slots.
func NamedColorOf(index uint8) Color { return Color{Kind: ColorNamed, Index: index} }

// Named color indices for semantic colors. They start at 256, above the
// uint8 range of Color.Index, so no Color carries them and ResolveColor
// never resolves them.
const (
	NamedColorForeground       = 256 // Default foreground text color
	NamedColorBackground       = 257 // Default background color
	NamedColorCursor           = 258 // Cursor color
	NamedColorDimBlack         = 259
	NamedColorDimRed           = 260
	NamedColorDimGreen         = 261
	NamedColorDimYellow        = 262
	NamedColorDimBlue          = 263
	NamedColorDimMagenta       = 264
	NamedColorDimCyan          = 265
	NamedColorDimWhite         = 266
	NamedColorBrightForeground = 267
	NamedColorDimForeground    = 268
)

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// a 216 color cube (16-231), and 24 grayscale steps (232-255).
var DefaultPalette = [256]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},

	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
}

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{R: 229, G: 229, B: 229, A: 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{A: 255}

// DefaultCursorColor is the default cursor rendering color.
var DefaultCursorColor = color.RGBA{R: 229, G: 229, B: 229, A: 255}

// ResolveColor turns a Color into a concrete RGBA using DefaultPalette. fg
// selects which default (foreground/background) a ColorDefault resolves to.
func ResolveColor(c Color, fg bool) color.RGBA {
	switch c.Kind {
	case ColorRGB:
		return color.RGBA{R: c.RGB[0], G: c.RGB[1], B: c.RGB[2], A: 255}
	case ColorIndexed:
		return DefaultPalette[c.Index]
	case ColorNamed:
		return resolveNamedColor(int(c.Index), fg)
	default:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
}

func resolveNamedColor(name int, fg bool) color.RGBA {
	switch {
	case name >= 0 && name < 16:
		return DefaultPalette[name]
	case name == NamedColorForeground:
		return DefaultForeground
	case name == NamedColorBackground:
		return DefaultBackground
	case name == NamedColorCursor:
		return DefaultCursorColor
	case name >= NamedColorDimBlack && name <= NamedColorDimWhite:
		base := DefaultPalette[name-NamedColorDimBlack]
		return dim(base)
	case name == NamedColorBrightForeground:
		return DefaultPalette[15]
	case name == NamedColorDimForeground:
		return dim(DefaultForeground)
	default:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.66),
		G: uint8(float64(c.G) * 0.66),
		B: uint8(float64(c.B) * 0.66),
		A: 255,
	}
}

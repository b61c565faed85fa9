package host

// Color is a packed 24-bit RGB value. The negative sentinel ColorDefault
// leaves the backend's default color in place.
type Color int32

// ColorDefault keeps whatever color the backend would render anyway.
const ColorDefault Color = -1

// ColorFromRGB packs the channels into a Color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b))
}

// RGB unpacks the channels. Only valid for non-default colors.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Style is the visual treatment of an annotation.
type Style struct {
	Foreground Color
	Background Color
	Bold       bool
	Italic     bool
	Reverse    bool
	Dim        bool
}

// DefaultStyle returns a style that changes nothing.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// WithForeground returns a copy with the foreground replaced.
func (s Style) WithForeground(c Color) Style {
	s.Foreground = c
	return s
}

// WithBackground returns a copy with the background replaced.
func (s Style) WithBackground(c Color) Style {
	s.Background = c
	return s
}

// ContentKind says how annotation content relates to the underlying text.
type ContentKind uint8

const (
	// ContentStyleOnly restyles the covered text without changing it.
	ContentStyleOnly ContentKind = iota

	// ContentReplace substitutes the covered text with Text.
	ContentReplace

	// ContentAppend decorates the covered position with Text drawn on top.
	ContentAppend
)

// Content is what an annotation displays.
type Content struct {
	Kind ContentKind
	Text string
}

// StyleOnly returns content that only restyles.
func StyleOnly() Content {
	return Content{Kind: ContentStyleOnly}
}

// Replace returns content that substitutes the covered text.
func Replace(text string) Content {
	return Content{Kind: ContentReplace, Text: text}
}

// Append returns content drawn on top of the covered position.
func Append(text string) Content {
	return Content{Kind: ContentAppend, Text: text}
}

// Package text measures and wraps text for leaf components, backed by a
// golang.org/x/image/font face.
package text

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/nextcore/tessera/pkg/geometry"
)

// Line is a single laid-out line of text.
type Line struct {
	Text  string
	Width float64
}

// Layout contains the measured metrics of a block of text.
type Layout struct {
	Text       string
	Size       geometry.Size
	Ascent     float64
	Descent    float64
	LineHeight float64
	Lines      []Line
}

// Measurer measures text against a font face. The zero value is not
// usable; construct one with NewMeasurer or Default.
type Measurer struct {
	face font.Face
}

// NewMeasurer wraps a font face.
func NewMeasurer(face font.Face) *Measurer {
	return &Measurer{face: face}
}

// Default returns a measurer over the bundled bitmap face. It needs no
// font files, which keeps measurement deterministic across platforms.
func Default() *Measurer {
	return &Measurer{face: basicfont.Face7x13}
}

// StringWidth measures a single string in logical pixels.
func (m *Measurer) StringWidth(s string) float64 {
	return fixedToFloat(font.MeasureString(m.face, s))
}

// Layout measures and wraps text within maxWidth. A maxWidth of zero
// disables wrapping; explicit newlines always break.
func (m *Measurer) Layout(text string, maxWidth float64) *Layout {
	metrics := m.face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)
	lineHeight := fixedToFloat(metrics.Height)
	if lineHeight == 0 {
		lineHeight = ascent + descent
	}

	lines := m.layoutLines(text, maxWidth)
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, line.Width)
	}
	return &Layout{
		Text:       text,
		Size:       geometry.Size{Width: widest, Height: lineHeight * float64(len(lines))},
		Ascent:     ascent,
		Descent:    descent,
		LineHeight: lineHeight,
		Lines:      lines,
	}
}

func (m *Measurer) layoutLines(text string, maxWidth float64) []Line {
	if maxWidth < 0 || math.IsInf(maxWidth, 0) {
		maxWidth = 0
	}
	paragraphs := strings.Split(text, "\n")
	lines := make([]Line, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		if paragraph == "" {
			lines = append(lines, Line{})
			continue
		}
		if maxWidth == 0 {
			lines = append(lines, Line{Text: paragraph, Width: m.StringWidth(paragraph)})
			continue
		}
		for _, line := range m.wrap(paragraph, maxWidth) {
			lines = append(lines, Line{Text: line, Width: m.StringWidth(line)})
		}
	}
	if len(lines) == 0 {
		lines = []Line{{}}
	}
	return lines
}

// wrap breaks one paragraph at the last whitespace that still fits, or
// mid-word when a single word exceeds the width.
func (m *Measurer) wrap(text string, maxWidth float64) []string {
	var lines []string
	start := 0
	for start < len(text) {
		lastBreak := -1
		lastFit := -1
		for i := start; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			next := i + size
			if m.StringWidth(text[start:next]) > maxWidth {
				break
			}
			lastFit = next
			if unicode.IsSpace(r) {
				lastBreak = next
			}
			i = next
		}
		if lastFit == -1 {
			_, size := utf8.DecodeRuneInString(text[start:])
			lastFit = start + size
		}
		cut := lastFit
		if lastFit < len(text) && lastBreak > start && lastBreak < lastFit {
			cut = lastBreak
		}
		lines = append(lines, strings.TrimRightFunc(text[start:cut], unicode.IsSpace))
		start = cut
		for start < len(text) {
			r, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

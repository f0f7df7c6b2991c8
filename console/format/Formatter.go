// Package format renders shell output. A Formatter bound to a terminal emits
// ANSI styles; an unbound one emits the same text without any escapes, so
// handlers never need to know where their output ends up.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// ColorMode selects when styled output is produced
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode parses "auto", "always" or "never"
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode: %q", s)
}

// Formatter converts Text into printable strings.
// The zero value and a nil *Formatter both produce plain text.
type Formatter struct {
	renderer *lipgloss.Renderer
}

// Plain returns a Formatter that never emits escape sequences
func Plain() *Formatter {
	return &Formatter{}
}

// ForTerminal returns a Formatter that styles output for w using profile.
// termenv.Ascii yields plain text.
func ForTerminal(w io.Writer, profile termenv.Profile) *Formatter {
	if profile == termenv.Ascii {
		return Plain()
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	// the renderer re-detects the profile from the environment unless it is set explicitly
	r.SetColorProfile(profile)
	return &Formatter{renderer: r}
}

// Styled reports whether the formatter emits escape sequences
func (f *Formatter) Styled() bool {
	return f != nil && f.renderer != nil
}

// Render converts t into a string, styled when bound to a terminal
func (f *Formatter) Render(t *Text) string {
	if t == nil {
		return ""
	}
	if !f.Styled() {
		return t.String()
	}
	var sb strings.Builder
	for _, seg := range t.segments {
		sb.WriteString(f.Color(seg.text, seg.style))
	}
	return sb.String()
}

// Color applies style to s. Without a terminal s is returned unchanged.
func (f *Formatter) Color(s string, style Style) string {
	if !f.Styled() || style.IsZero() || s == "" {
		return s
	}
	ls := f.renderer.NewStyle().Bold(style.Bold)
	if style.Foreground != "" {
		ls = ls.Foreground(lipgloss.Color(style.Foreground))
	}
	return ls.Render(s)
}

// RightPad renders t and pads it with spaces up to size visible cells
func (f *Formatter) RightPad(t *Text, size int) string {
	return PadRight(f.Render(t), size)
}

// LeftPad renders t and pads it on the left up to size visible cells
func (f *Formatter) LeftPad(t *Text, size int) string {
	return PadLeft(f.Render(t), size)
}

// Center renders t centered within size visible cells.
// A non-positive size yields an empty string.
func (f *Formatter) Center(t *Text, size int) string {
	if size <= 0 {
		return ""
	}
	return Center(f.Render(t), size)
}

// Error wraps msg as a bold red message surrounded by blank lines
func (f *Formatter) Error(msg string) []string {
	return []string{"", f.Color(msg, ErrorStyle), ""}
}

// Errorf is Error with formatting
func (f *Formatter) Errorf(format string, a ...any) []string {
	return f.Error(fmt.Sprintf(format, a...))
}

// Success wraps msg as a green message surrounded by blank lines
func (f *Formatter) Success(msg string) []string {
	return []string{"", f.Color(msg, SuccessStyle), ""}
}

// Successf is Success with formatting
func (f *Formatter) Successf(format string, a ...any) []string {
	return f.Success(fmt.Sprintf(format, a...))
}

// Width returns the number of visible cells of s, ignoring escape sequences
func Width(s string) int {
	return ansi.StringWidth(s)
}

// PadRight pads s with spaces up to size visible cells
func PadRight(s string, size int) string {
	pads := size - Width(s)
	if pads <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pads)
}

// PadLeft pads s on the left with spaces up to size visible cells
func PadLeft(s string, size int) string {
	pads := size - Width(s)
	if pads <= 0 {
		return s
	}
	return strings.Repeat(" ", pads) + s
}

// Center centers s within size visible cells; an odd remainder goes to the right
func Center(s string, size int) string {
	pads := size - Width(s)
	if pads <= 0 {
		return s
	}
	left := pads / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pads-left)
}

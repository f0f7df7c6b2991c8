package format

import "strings"

// Style describes how a segment of text is highlighted.
// Foreground is an ANSI color index such as "1" for red.
type Style struct {
	Foreground string
	Bold       bool
}

// IsZero reports whether the style leaves text unchanged
func (s Style) IsZero() bool {
	return s.Foreground == "" && !s.Bold
}

var (
	// ErrorStyle is used for failure messages
	ErrorStyle = Style{Foreground: "1", Bold: true}
	// SuccessStyle is used for success messages
	SuccessStyle = Style{Foreground: "2"}

	Cyan   = Style{Foreground: "6"}
	Yellow = Style{Foreground: "3"}
	Blue   = Style{Foreground: "4"}
	Bold   = Style{Bold: true}
)

type segment struct {
	text  string
	style Style
}

// Text accumulates styled segments
type Text struct {
	segments []segment
}

// NewText creates a Text holding s without any style
func NewText(s string) *Text {
	return new(Text).Append(s)
}

// Styled creates a Text holding s with style
func Styled(s string, style Style) *Text {
	return new(Text).AppendStyled(s, style)
}

// Append adds an unstyled segment
func (t *Text) Append(s string) *Text {
	return t.AppendStyled(s, Style{})
}

// AppendStyled adds a segment highlighted with style
func (t *Text) AppendStyled(s string, style Style) *Text {
	if s != "" {
		t.segments = append(t.segments, segment{text: s, style: style})
	}
	return t
}

// AppendText adds every segment of other
func (t *Text) AppendText(other *Text) *Text {
	if other != nil {
		t.segments = append(t.segments, other.segments...)
	}
	return t
}

// Len returns the number of characters without styles
func (t *Text) Len() int {
	return Width(t.String())
}

// String returns the text without any styles
func (t *Text) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	for _, seg := range t.segments {
		sb.WriteString(seg.text)
	}
	return sb.String()
}

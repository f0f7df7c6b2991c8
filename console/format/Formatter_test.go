package format

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styledFormatter() *Formatter {
	return ForTerminal(&bytes.Buffer{}, termenv.ANSI)
}

func TestRenderPlainWithoutTerminal(t *testing.T) {
	text := NewText("exit ").AppendStyled("[", Yellow).AppendStyled("quit", Blue).AppendStyled("]", Yellow)

	var nilFormatter *Formatter
	for _, f := range []*Formatter{nilFormatter, Plain(), ForTerminal(&bytes.Buffer{}, termenv.Ascii)} {
		assert.False(t, f.Styled())
		assert.Equal(t, "exit [quit]", f.Render(text))
	}
}

func TestRenderStyled(t *testing.T) {
	f := styledFormatter()
	require.True(t, f.Styled())

	text := NewText("name: ").AppendStyled("help", Cyan)
	out := f.Render(text)

	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, "name: help", ansi.Strip(out))
	assert.Equal(t, 10, Width(out))
}

func TestErrorAndSuccess(t *testing.T) {
	tests := []struct {
		name string
		f    *Formatter
		call func(f *Formatter) []string
		msg  string
	}{
		{name: "plain error", f: Plain(), call: func(f *Formatter) []string { return f.Error("bad value") }, msg: "bad value"},
		{name: "plain success", f: Plain(), call: func(f *Formatter) []string { return f.Successf("set to %d", 10) }, msg: "set to 10"},
		{name: "styled error", f: styledFormatter(), call: func(f *Formatter) []string { return f.Errorf("bad %s", "value") }, msg: "bad value"},
		{name: "styled success", f: styledFormatter(), call: func(f *Formatter) []string { return f.Success("done") }, msg: "done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := tt.call(tt.f)
			require.Len(t, lines, 3)
			assert.Empty(t, lines[0])
			assert.Empty(t, lines[2])
			assert.Equal(t, tt.msg, ansi.Strip(lines[1]))
			assert.Equal(t, tt.f.Styled(), lines[1] != tt.msg)
		})
	}
}

func TestPaddingIgnoresEscapes(t *testing.T) {
	f := styledFormatter()
	text := Styled("abc", ErrorStyle)

	right := f.RightPad(text, 6)
	left := f.LeftPad(text, 6)
	center := f.Center(text, 8)

	assert.Equal(t, "abc   ", ansi.Strip(right))
	assert.Equal(t, "   abc", ansi.Strip(left))
	assert.Equal(t, "  abc   ", ansi.Strip(center))
	assert.Equal(t, 6, Width(right))
	assert.Empty(t, f.Center(text, 0))
}

func TestPadHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "right", got: PadRight("ab", 4), want: "ab  "},
		{name: "right overflow", got: PadRight("abcdef", 4), want: "abcdef"},
		{name: "left", got: PadLeft("ab", 4), want: "  ab"},
		{name: "center even", got: Center("ab", 6), want: "  ab  "},
		{name: "center odd", got: Center("ab", 5), want: " ab  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{input: "", want: ColorAuto},
		{input: "auto", want: ColorAuto},
		{input: "Always", want: ColorAlways},
		{input: "never", want: ColorNever},
		{input: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextString(t *testing.T) {
	var nilText *Text
	assert.Equal(t, "", nilText.String())

	text := NewText("a").AppendText(Styled("b", Bold)).AppendText(nil).Append("")
	assert.Equal(t, "ab", text.String())
	assert.Equal(t, 2, text.Len())
}

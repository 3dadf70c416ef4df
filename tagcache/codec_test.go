package tagcache

import (
	"testing"

	"github.com/arloliu/go-tagwire/codes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeText(t *testing.T) {
	tests := []struct {
		width codes.Width
		text  string
		words []uint16
	}{
		{codes.WidthBit, "1", []uint16{1}},
		{codes.WidthBit, "false", []uint16{0}},
		{codes.WidthBit, " true ", []uint16{1}},
		{codes.WidthInt8, "-1", []uint16{0x00FF}},
		{codes.WidthInt8, "127", []uint16{0x007F}},
		{codes.WidthInt16, "-1", []uint16{0xFFFF}},
		{codes.WidthInt16, "0x10", []uint16{0x0010}},
		{codes.WidthInt32, "100000", []uint16{0x0001, 0x86A0}},
		{codes.WidthInt32, "-2", []uint16{0xFFFF, 0xFFFE}},
		{codes.WidthFloat32, "81.5", []uint16{0x42A3, 0x0000}},
		{codes.WidthFloat64, "1.5", []uint16{0x3FF8, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.width.String()+"/"+tt.text, func(t *testing.T) {
			words, err := EncodeText(tt.width, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.words, words)
		})
	}
}

func TestEncodeText_Errors(t *testing.T) {
	tests := []struct {
		width codes.Width
		text  string
		want  error
	}{
		{codes.WidthBit, "maybe", ErrBadValue},
		{codes.WidthInt8, "128", ErrBadValue},
		{codes.WidthInt16, "70000", ErrBadValue},
		{codes.WidthInt32, "1.5", ErrBadValue},
		{codes.WidthFloat32, "abc", ErrBadValue},
		{codes.WidthFloat64, "", ErrBadValue},
		{codes.WidthUnknown, "1", ErrUnknownWidth},
	}

	for _, tt := range tests {
		_, err := EncodeText(tt.width, tt.text)
		require.ErrorIs(t, err, tt.want, "%s %q", tt.width, tt.text)
	}
}

func TestDecodeWords(t *testing.T) {
	tests := []struct {
		width codes.Width
		words []uint16
		text  string
	}{
		{codes.WidthBit, []uint16{0}, "0"},
		{codes.WidthBit, []uint16{7}, "1"},
		{codes.WidthInt8, []uint16{0x00FF}, "-1"},
		{codes.WidthInt16, []uint16{0x8000}, "-32768"},
		{codes.WidthInt32, []uint16{0x0001, 0x86A0}, "100000"},
		{codes.WidthInt32, []uint16{0xFFFF, 0xFFFE}, "-2"},
		{codes.WidthFloat32, []uint16{0x42A3, 0x0000}, "81.5"},
		{codes.WidthFloat64, []uint16{0x3FF8, 0, 0, 0}, "1.5"},
	}

	for _, tt := range tests {
		text, err := DecodeWords(tt.width, tt.words)
		require.NoError(t, err)
		assert.Equal(t, tt.text, text, tt.width.String())
	}
}

func TestDecodeWords_WordCount(t *testing.T) {
	_, err := DecodeWords(codes.WidthInt32, []uint16{1})
	require.ErrorIs(t, err, ErrWordCount)

	_, err = DecodeWords(codes.WidthUnknown, []uint16{1})
	require.ErrorIs(t, err, ErrUnknownWidth)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	values := map[codes.Width][]string{
		codes.WidthInt8:    {"-128", "0", "127"},
		codes.WidthInt16:   {"-32768", "12345", "32767"},
		codes.WidthInt32:   {"-2147483648", "0", "2147483647"},
		codes.WidthFloat32: {"-0.25", "3.5", "1e+10"},
		codes.WidthFloat64: {"3.141592653589793", "-1e-300"},
	}

	for w, texts := range values {
		for _, text := range texts {
			words, err := EncodeText(w, text)
			require.NoError(t, err)
			got, err := DecodeWords(w, words)
			require.NoError(t, err)
			assert.Equal(t, text, got, w.String())
		}
	}
}

func TestFormatWords(t *testing.T) {
	text, err := FormatWords(codes.WidthInt32, []uint16{0x0001, 0x86A0}, FormatHex)
	require.NoError(t, err)
	assert.Equal(t, "0x000186A0", text)

	text, err = FormatWords(codes.WidthInt16, []uint16{0x00FF}, FormatDefault)
	require.NoError(t, err)
	assert.Equal(t, "255", text)

	_, err = FormatWords(codes.WidthInt16, []uint16{1}, "octal")
	require.ErrorIs(t, err, ErrBadFormat)

	_, err = FormatWords(codes.WidthInt16, []uint16{1, 2}, FormatHex)
	require.ErrorIs(t, err, ErrWordCount)
}

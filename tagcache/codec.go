package tagcache

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/go-tagwire/codes"
)

// EncodeText converts the textual value of a tag of width w into cache words.
// 32 and 64-bit values are stored high word first; floats use their IEEE-754 bits.
func EncodeText(w codes.Width, text string) ([]uint16, error) {
	text = strings.TrimSpace(text)

	switch w {
	case codes.WidthBit:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return nil, badValue(w, text, err)
		}
		if v {
			return []uint16{1}, nil
		}

		return []uint16{0}, nil

	case codes.WidthInt8:
		v, err := strconv.ParseInt(text, 0, 8)
		if err != nil {
			return nil, badValue(w, text, err)
		}

		return []uint16{uint16(uint8(v))}, nil //nolint:gosec // range checked by ParseInt

	case codes.WidthInt16:
		v, err := strconv.ParseInt(text, 0, 16)
		if err != nil {
			return nil, badValue(w, text, err)
		}

		return []uint16{uint16(v)}, nil //nolint:gosec // range checked by ParseInt

	case codes.WidthInt32:
		v, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return nil, badValue(w, text, err)
		}

		return splitUint32(uint32(v)), nil //nolint:gosec // range checked by ParseInt

	case codes.WidthFloat32:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, badValue(w, text, err)
		}

		return splitUint32(math.Float32bits(float32(v))), nil

	case codes.WidthFloat64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, badValue(w, text, err)
		}
		bits := math.Float64bits(v)

		return append(splitUint32(uint32(bits>>32)), splitUint32(uint32(bits))...), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownWidth, w)
	}
}

// DecodeWords renders cache words of width w as text in the default format.
func DecodeWords(w codes.Width, words []uint16) (string, error) {
	if err := checkWords(w, words); err != nil {
		return "", err
	}

	switch w {
	case codes.WidthBit:
		if words[0] != 0 {
			return "1", nil
		}

		return "0", nil

	case codes.WidthInt8:
		return strconv.Itoa(int(int8(uint8(words[0])))), nil //nolint:gosec // two's complement reinterpretation

	case codes.WidthInt16:
		return strconv.Itoa(int(int16(words[0]))), nil //nolint:gosec // two's complement reinterpretation

	case codes.WidthInt32:
		return strconv.FormatInt(int64(int32(joinUint32(words))), 10), nil //nolint:gosec // two's complement reinterpretation

	case codes.WidthFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(joinUint32(words))), 'g', -1, 32), nil

	default: // codes.WidthFloat64, checked by checkWords
		bits := uint64(joinUint32(words[:2]))<<32 | uint64(joinUint32(words[2:]))

		return strconv.FormatFloat(math.Float64frombits(bits), 'g', -1, 64), nil
	}
}

// FormatWords renders cache words of width w in the requested format.
func FormatWords(w codes.Width, words []uint16, format string) (string, error) {
	switch format {
	case FormatDefault:
		return DecodeWords(w, words)

	case FormatHex:
		if err := checkWords(w, words); err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("0x")
		for _, word := range words {
			fmt.Fprintf(&sb, "%04X", word)
		}

		return sb.String(), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrBadFormat, format)
	}
}

func checkWords(w codes.Width, words []uint16) error {
	want := w.WordCount()
	if want == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownWidth, w)
	}
	if len(words) != want {
		return fmt.Errorf("%w: %s needs %d words, got %d", ErrWordCount, w, want, len(words))
	}

	return nil
}

func splitUint32(v uint32) []uint16 {
	return []uint16{uint16(v >> 16), uint16(v)} //nolint:gosec // intentional truncation
}

func joinUint32(words []uint16) uint32 {
	return uint32(words[0])<<16 | uint32(words[1])
}

func badValue(w codes.Width, text string, err error) error {
	return fmt.Errorf("%w: %q is not a valid %s: %w", ErrBadValue, text, w, err)
}

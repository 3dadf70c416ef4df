package frame

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Field widths.
const (
	LengthLen    = 1
	VersionLen   = 1
	FunctionLen  = 1
	ExceptionLen = 1
	TagNameLen   = 64
	TagValueLen  = 128
)

// HeaderSize is the size of the fixed fields preceding the tag name.
const HeaderSize = LengthLen + VersionLen + FunctionLen + ExceptionLen

// Size is the capacity of a frame buffer.
const Size = HeaderSize + TagNameLen + TagValueLen

// Field offsets.
const (
	offLength    = 0
	offVersion   = offLength + LengthLen
	offFunction  = offVersion + VersionLen
	offException = offFunction + FunctionLen
	offTagName   = offException + ExceptionLen
	offTagValue  = offTagName + TagNameLen
)

// GetTagRequestSize is the on-wire size of a get-tag request.
const GetTagRequestSize = HeaderSize + TagNameLen

// Version is the only protocol version this package speaks.
const Version byte = 1

// Frame is a fixed-size frame buffer. The zero value is an empty frame.
//
// A Frame is reused across requests on one connection and is not safe for
// concurrent use.
type Frame struct {
	buf [Size]byte
}

// Bytes returns the whole buffer, Size bytes long. Writes through the slice
// modify the frame.
func (f *Frame) Bytes() []byte {
	return f.buf[:]
}

// Data returns the valid part of the buffer as declared by the length byte,
// clamped to the buffer capacity.
func (f *Frame) Data() []byte {
	n := int(f.buf[offLength])
	if n > Size {
		n = Size
	}

	return f.buf[:n]
}

// Reset zeroes the buffer.
func (f *Frame) Reset() {
	f.buf = [Size]byte{}
}

// Length returns the declared on-wire size.
func (f *Frame) Length() byte {
	return f.buf[offLength]
}

// SetLength sets the declared on-wire size. It is not validated here; the
// transport rejects out-of-range values before sending.
func (f *Frame) SetLength(n byte) {
	f.buf[offLength] = n
}

// Version returns the protocol version byte.
func (f *Frame) Version() byte {
	return f.buf[offVersion]
}

// SetVersion sets the protocol version byte.
func (f *Frame) SetVersion(v byte) {
	f.buf[offVersion] = v
}

// Function returns the function identifier.
func (f *Frame) Function() FunctionID {
	return FunctionID(f.buf[offFunction])
}

// SetFunction sets the function identifier.
func (f *Frame) SetFunction(fn FunctionID) {
	f.buf[offFunction] = byte(fn)
}

// Exception returns the exception code.
func (f *Frame) Exception() ExceptionCode {
	return ExceptionCode(f.buf[offException])
}

// SetException sets the exception code.
func (f *Frame) SetException(code ExceptionCode) {
	f.buf[offException] = byte(code)
}

// TagName returns the tag name with trailing NUL and space padding removed.
func (f *Frame) TagName() string {
	return getText(f.buf[offTagName : offTagName+TagNameLen])
}

// SetTagName writes name into the tag name field, truncating it to TagNameLen
// bytes and NUL padding the rest. It reports whether name was truncated.
func (f *Frame) SetTagName(name string) bool {
	return putText(f.buf[offTagName:offTagName+TagNameLen], name)
}

// TagValue returns the tag value text with trailing NUL and space padding removed.
func (f *Frame) TagValue() string {
	return getText(f.buf[offTagValue : offTagValue+TagValueLen])
}

// SetTagValue writes value into the tag value field, truncating it to TagValueLen
// bytes and NUL padding the rest. It reports whether value was truncated.
func (f *Frame) SetTagValue(value string) bool {
	return putText(f.buf[offTagValue:offTagValue+TagValueLen], value)
}

func putText(field []byte, s string) bool {
	n := copy(field, s)
	clear(field[n:])

	return n < len(s)
}

func getText(field []byte) string {
	return strings.TrimRight(string(field), "\x00 ")
}

// PrepareGetTag resets the frame and fills in a get-tag request for name.
func (f *Frame) PrepareGetTag(name string) {
	f.Reset()
	f.SetVersion(Version)
	f.SetFunction(FuncGetTag)
	f.SetTagName(name)
	f.SetLength(GetTagRequestSize)
}

// PrepareSetTag resets the frame and fills in a set-tag request.
func (f *Frame) PrepareSetTag(name, value string) {
	f.Reset()
	f.SetVersion(Version)
	f.SetFunction(FuncSetTag)
	f.SetTagName(name)
	f.SetTagValue(value)
	f.SetLength(Size)
}

// PrepareReply turns the request held in f into a full-size reply, keeping
// the function identifier and tag name.
func (f *Frame) PrepareReply(code ExceptionCode, value string) {
	f.SetVersion(Version)
	f.SetException(code)
	f.SetTagValue(value)
	f.SetLength(Size)
}

// CheckLength validates a declared length against the buffer layout.
func CheckLength(n byte) error {
	if int(n) < HeaderSize || int(n) > Size {
		return fmt.Errorf("%w: length %d outside [%d, %d]", ErrFraming, n, HeaderSize, Size)
	}

	return nil
}

// Validate checks the frame header in wire order: length, version and then the
// function identifier. Remaining fields are only meaningful when it returns nil.
func (f *Frame) Validate() error {
	if err := CheckLength(f.Length()); err != nil {
		return err
	}

	if v := f.Version(); v != Version {
		return fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, v, Version)
	}

	fn := f.Function()
	if !fn.IsKnown() {
		return fmt.Errorf("%w: %d", ErrUnknownFunction, byte(fn))
	}

	if fn == FuncGetTag && int(f.Length()) < GetTagRequestSize {
		return fmt.Errorf("%w: get-tag frame of %d bytes has no tag name", ErrFraming, f.Length())
	}
	if fn == FuncSetTag && int(f.Length()) < Size {
		return fmt.Errorf("%w: set-tag frame of %d bytes has no tag value", ErrFraming, f.Length())
	}

	return nil
}

// HexString returns the valid bytes of the frame as space separated hex,
// for trace logging.
func (f *Frame) HexString() string {
	data := f.Data()
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)
	for i := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString(data[i : i+1]))
	}

	return sb.String()
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame{len=%d ver=%d fn=%s exc=%s tag=%q value=%q}",
		f.Length(), f.Version(), f.Function(), f.Exception(), f.TagName(), f.TagValue())
}

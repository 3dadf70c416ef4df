package frame

import (
	"errors"
	"fmt"
	"strings"
)

// ExceptionCode is the status byte of a frame: a base Status in the low nibble
// combined with the error flags in the high nibble. Zero means success.
//
// Flags are orthogonal; a code can carry several at once, so it must always be
// inspected with Has and never compared against a single flag value.
type ExceptionCode byte

// Exception flags.
const (
	ExReadError        ExceptionCode = 0x10
	ExWriteError       ExceptionCode = 0x20
	ExApplicationError ExceptionCode = 0x40
	ExFunctionError    ExceptionCode = 0x80
)

const (
	statusMask ExceptionCode = 0x0F
	flagsMask  ExceptionCode = 0xF0
)

// Status is the base (non-network) status reported by the tag cache.
type Status byte

const (
	StatusOK                 Status = 0
	StatusNotConnected       Status = 1
	StatusNoSuchTag          Status = 2
	StatusBadValue           Status = 3
	StatusBadFormat          Status = 4
	StatusCacheFault         Status = 5
	// StatusUnsupportedVersion is reserved for peers that answer a frame of an
	// unknown version. The tag server closes the connection instead.
	StatusUnsupportedVersion Status = 6
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotConnected:
		return "not connected"
	case StatusNoSuchTag:
		return "no such tag"
	case StatusBadValue:
		return "bad value"
	case StatusBadFormat:
		return "bad format"
	case StatusCacheFault:
		return "cache fault"
	case StatusUnsupportedVersion:
		return "unsupported version"
	default:
		return fmt.Sprintf("status(%d)", byte(s))
	}
}

// NewExceptionCode combines flags with a base status.
func NewExceptionCode(flags ExceptionCode, status Status) ExceptionCode {
	return flags&flagsMask | ExceptionCode(status)&statusMask
}

// Status returns the base status in the low nibble.
func (c ExceptionCode) Status() Status {
	return Status(c & statusMask)
}

// Flags returns the error flags in the high nibble.
func (c ExceptionCode) Flags() ExceptionCode {
	return c & flagsMask
}

// Has reports whether every bit of flag is set in c.
func (c ExceptionCode) Has(flag ExceptionCode) bool {
	return flag != 0 && c&flag == flag
}

// IsSuccess reports whether c is zero.
func (c ExceptionCode) IsSuccess() bool {
	return c == 0
}

var exceptionFlags = []struct {
	flag ExceptionCode
	name string
	err  error
}{
	{ExReadError, "read error", ErrReadError},
	{ExWriteError, "write error", ErrWriteError},
	{ExApplicationError, "application error", ErrApplicationError},
	{ExFunctionError, "function error", ErrFunctionError},
}

// String lists every set flag independently, followed by the base status.
func (c ExceptionCode) String() string {
	if c.IsSuccess() {
		return "success"
	}

	parts := make([]string, 0, len(exceptionFlags)+1)
	for _, f := range exceptionFlags {
		if c.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if st := c.Status(); st != StatusOK {
		parts = append(parts, st.String())
	}

	return strings.Join(parts, ", ")
}

// Err returns nil for a successful code and an *ExceptionError otherwise.
func (c ExceptionCode) Err() error {
	if c.IsSuccess() {
		return nil
	}

	return &ExceptionError{Code: c}
}

// ExceptionError carries a non-zero exception code returned by a peer.
//
// errors.Is matches the sentinel of every flag set in Code, so a single error
// can match both ErrWriteError and ErrApplicationError.
type ExceptionError struct {
	Code ExceptionCode
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("frame: exception 0x%02X (%s)", byte(e.Code), e.Code)
}

// Unwrap returns the sentinel errors of the flags set in the code.
func (e *ExceptionError) Unwrap() []error {
	errs := make([]error, 0, len(exceptionFlags))
	for _, f := range exceptionFlags {
		if e.Code.Has(f.flag) {
			errs = append(errs, f.err)
		}
	}

	return errs
}

// StatusOf extracts the base status from err when it wraps an *ExceptionError.
func StatusOf(err error) (Status, bool) {
	var exc *ExceptionError
	if errors.As(err, &exc) {
		return exc.Code.Status(), true
	}

	return StatusOK, false
}

package frame

import "errors"

var (
	// ErrFraming indicates a length byte that is out of range for the buffer layout
	// or too short for the function it carries.
	ErrFraming = errors.New("frame: framing error")

	// ErrUnsupportedVersion indicates a frame whose version byte is not Version.
	ErrUnsupportedVersion = errors.New("frame: unsupported version")

	// ErrUnknownFunction indicates a function identifier outside the known set.
	ErrUnknownFunction = errors.New("frame: unknown function")
)

// Errors matched by an *ExceptionError, one per exception flag.
var (
	ErrReadError        = errors.New("frame: read error")
	ErrWriteError       = errors.New("frame: write error")
	ErrApplicationError = errors.New("frame: application error")
	ErrFunctionError    = errors.New("frame: function error")
)

package transport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/go-tagwire/frame"
)

// Transfer error kinds. Every *TransferError matches exactly one of them.
var (
	// ErrTimeout indicates a readiness wait that exceeded its bound.
	ErrTimeout = errors.New("transport: timeout")

	// ErrIO indicates a fault reported by the underlying stream, including a
	// stream closed locally or a cancelled context.
	ErrIO = errors.New("transport: i/o error")

	// ErrShortTransfer indicates that the peer ended the stream before the
	// requested number of bytes was moved.
	ErrShortTransfer = errors.New("transport: short transfer")

	// ErrFraming is frame.ErrFraming: a length byte outside the buffer layout.
	ErrFraming = frame.ErrFraming
)

// Stage names the step of a transfer at which it failed.
type Stage uint8

const (
	StageIdle Stage = iota
	StageAwaitingLength
	StageAwaitingBody
	StageAwaitingWritable
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingLength:
		return "awaiting-length"
	case StageAwaitingBody:
		return "awaiting-body"
	case StageAwaitingWritable:
		return "awaiting-writable"
	default:
		return "unknown"
	}
}

const (
	opReceive = "receive"
	opSend    = "send"
)

// TransferError describes a failed Receive or Send.
type TransferError struct {
	// Op is "receive" or "send".
	Op string
	// Stage is the step that failed.
	Stage Stage
	// Count is the number of bytes actually moved before the failure.
	Count int
	// Want is the number of bytes the step tried to move.
	Want int
	// Kind is one of ErrTimeout, ErrIO, ErrShortTransfer or ErrFraming.
	Kind error
	// Cause is the underlying error, if any.
	Cause error
}

func (e *TransferError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s at %s (%d/%d bytes)", e.Op, e.Kind, e.Stage, e.Count, e.Want)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is and errors.As.
func (e *TransferError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// ByteCount returns the number of bytes moved before err, or -1 when err is not
// a *TransferError.
func ByteCount(err error) int {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Count
	}

	return -1
}

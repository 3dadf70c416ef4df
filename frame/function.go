package frame

import "strconv"

// FunctionID selects the operation a frame requests.
type FunctionID byte

const (
	FuncGetTag FunctionID = 1
	FuncSetTag FunctionID = 2
)

// IsKnown reports whether fn is a function this package can dispatch.
func (fn FunctionID) IsKnown() bool {
	return fn == FuncGetTag || fn == FuncSetTag
}

func (fn FunctionID) String() string {
	switch fn {
	case FuncGetTag:
		return "get-tag"
	case FuncSetTag:
		return "set-tag"
	default:
		return "function(" + strconv.Itoa(int(fn)) + ")"
	}
}

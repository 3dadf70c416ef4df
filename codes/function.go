package codes

// OpCode is an operation code of the tag cache. It is distinct from the
// function identifier carried in a wire frame.
type OpCode uint8

const (
	OpReadBit    OpCode = 0x01
	OpReadByte   OpCode = 0x02
	OpReadWord   OpCode = 0x03
	OpReadLong   OpCode = 0x04
	OpReadFloat  OpCode = 0x05
	OpReadDouble OpCode = 0x06

	OpWriteBit    OpCode = 0x11
	OpWriteByte   OpCode = 0x12
	OpWriteWord   OpCode = 0x13
	OpWriteLong   OpCode = 0x14
	OpWriteFloat  OpCode = 0x15
	OpWriteDouble OpCode = 0x16

	OpReadWriteBit    OpCode = 0x21
	OpReadWriteByte   OpCode = 0x22
	OpReadWriteWord   OpCode = 0x23
	OpReadWriteLong   OpCode = 0x24
	OpReadWriteFloat  OpCode = 0x25
	OpReadWriteDouble OpCode = 0x26

	OpStatus     OpCode = 0x30
	OpDiagnostic OpCode = 0x31
)

// op codes are grouped by category in the high nibble and by width in the low nibble.
const (
	opGroupRead      = 0x00
	opGroupWrite     = 0x10
	opGroupReadWrite = 0x20
)

// Category classifies an operation code.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryRead
	CategoryWrite
	CategoryReadWrite
	CategoryStatus
	CategoryDiagnostic
)

func (c Category) String() string {
	switch c {
	case CategoryRead:
		return "read"
	case CategoryWrite:
		return "write"
	case CategoryReadWrite:
		return "read-write"
	case CategoryStatus:
		return "status"
	case CategoryDiagnostic:
		return "diagnostic"
	default:
		return "unknown"
	}
}

// CanRead reports whether operations of this category return a value.
func (c Category) CanRead() bool {
	return c == CategoryRead || c == CategoryReadWrite
}

// CanWrite reports whether operations of this category modify a value.
func (c Category) CanWrite() bool {
	return c == CategoryWrite || c == CategoryReadWrite
}

// Width is the native data width of a cache value.
type Width uint8

const (
	WidthUnknown Width = iota
	WidthBit
	WidthInt8
	WidthInt16
	WidthInt32
	WidthFloat32
	WidthFloat64
)

func (w Width) String() string {
	switch w {
	case WidthBit:
		return "bit"
	case WidthInt8:
		return "int8"
	case WidthInt16:
		return "int16"
	case WidthInt32:
		return "int32"
	case WidthFloat32:
		return "float32"
	case WidthFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// WordCount returns the number of 16-bit cache words a value of this width occupies,
// or 0 for WidthUnknown.
func (w Width) WordCount() int {
	switch w {
	case WidthBit, WidthInt8, WidthInt16:
		return 1
	case WidthInt32, WidthFloat32:
		return 2
	case WidthFloat64:
		return 4
	default:
		return 0
	}
}

// FunctionCategory returns the category of op, or CategoryUnknown.
func FunctionCategory(op OpCode) Category {
	switch op {
	case OpStatus:
		return CategoryStatus
	case OpDiagnostic:
		return CategoryDiagnostic
	}

	if widthOf(op) == WidthUnknown {
		return CategoryUnknown
	}

	switch op & 0xF0 {
	case opGroupRead:
		return CategoryRead
	case opGroupWrite:
		return CategoryWrite
	case opGroupReadWrite:
		return CategoryReadWrite
	default:
		return CategoryUnknown
	}
}

// NativeWidth returns the data width implied by op, or WidthUnknown.
// Status and diagnostic codes carry no width.
func NativeWidth(op OpCode) Width {
	switch op & 0xF0 {
	case opGroupRead, opGroupWrite, opGroupReadWrite:
		return widthOf(op)
	default:
		return WidthUnknown
	}
}

func widthOf(op OpCode) Width {
	switch op & 0x0F {
	case 0x01:
		return WidthBit
	case 0x02:
		return WidthInt8
	case 0x03:
		return WidthInt16
	case 0x04:
		return WidthInt32
	case 0x05:
		return WidthFloat32
	case 0x06:
		return WidthFloat64
	default:
		return WidthUnknown
	}
}

func (op OpCode) String() string {
	if name, ok := opNames.NameOf(int(op)); ok {
		return name
	}

	return "unknown"
}

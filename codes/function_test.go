package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionCategoryAndWidth(t *testing.T) {
	tests := []struct {
		op       OpCode
		category Category
		width    Width
	}{
		{OpReadBit, CategoryRead, WidthBit},
		{OpReadByte, CategoryRead, WidthInt8},
		{OpReadWord, CategoryRead, WidthInt16},
		{OpReadLong, CategoryRead, WidthInt32},
		{OpReadFloat, CategoryRead, WidthFloat32},
		{OpReadDouble, CategoryRead, WidthFloat64},
		{OpWriteBit, CategoryWrite, WidthBit},
		{OpWriteByte, CategoryWrite, WidthInt8},
		{OpWriteWord, CategoryWrite, WidthInt16},
		{OpWriteLong, CategoryWrite, WidthInt32},
		{OpWriteFloat, CategoryWrite, WidthFloat32},
		{OpWriteDouble, CategoryWrite, WidthFloat64},
		{OpReadWriteBit, CategoryReadWrite, WidthBit},
		{OpReadWriteByte, CategoryReadWrite, WidthInt8},
		{OpReadWriteWord, CategoryReadWrite, WidthInt16},
		{OpReadWriteLong, CategoryReadWrite, WidthInt32},
		{OpReadWriteFloat, CategoryReadWrite, WidthFloat32},
		{OpReadWriteDouble, CategoryReadWrite, WidthFloat64},
		{OpStatus, CategoryStatus, WidthUnknown},
		{OpDiagnostic, CategoryDiagnostic, WidthUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.category, FunctionCategory(tt.op))
			assert.Equal(t, tt.width, NativeWidth(tt.op))
		})
	}
}

func TestFunctionCategory_UnknownCodes(t *testing.T) {
	known := map[OpCode]bool{}
	for _, e := range opNames.Entries() {
		known[OpCode(e.Code)] = true
	}

	for i := 0; i <= 255; i++ {
		op := OpCode(i)
		if known[op] {
			continue
		}
		assert.Equal(t, CategoryUnknown, FunctionCategory(op), "op=0x%02X", i)
		assert.Equal(t, WidthUnknown, NativeWidth(op), "op=0x%02X", i)
		assert.Equal(t, "unknown", op.String(), "op=0x%02X", i)
	}

	assert.Equal(t, CategoryUnknown, FunctionCategory(0))
	assert.Equal(t, CategoryUnknown, FunctionCategory(255))
	assert.Equal(t, WidthUnknown, NativeWidth(0))
	assert.Equal(t, WidthUnknown, NativeWidth(255))
}

func TestCategory_ReadWriteHelpers(t *testing.T) {
	assert.True(t, CategoryRead.CanRead())
	assert.False(t, CategoryRead.CanWrite())
	assert.True(t, CategoryWrite.CanWrite())
	assert.False(t, CategoryWrite.CanRead())
	assert.True(t, CategoryReadWrite.CanRead())
	assert.True(t, CategoryReadWrite.CanWrite())
	assert.False(t, CategoryStatus.CanRead())
	assert.False(t, CategoryUnknown.CanWrite())
}

func TestWidth_WordCount(t *testing.T) {
	assert.Equal(t, 0, WidthUnknown.WordCount())
	assert.Equal(t, 1, WidthBit.WordCount())
	assert.Equal(t, 1, WidthInt8.WordCount())
	assert.Equal(t, 1, WidthInt16.WordCount())
	assert.Equal(t, 2, WidthInt32.WordCount())
	assert.Equal(t, 2, WidthFloat32.WordCount())
	assert.Equal(t, 4, WidthFloat64.WordCount())
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "read-write", CategoryReadWrite.String())
	assert.Equal(t, "unknown", Category(99).String())
	assert.Equal(t, "float64", WidthFloat64.String())
	assert.Equal(t, "unknown", Width(42).String())
	assert.Equal(t, "read-word", OpReadWord.String())
	assert.Equal(t, "diagnostic", OpDiagnostic.String())
}

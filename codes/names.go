package codes

var opNames = MustTable(
	Entry{"read-bit", int(OpReadBit)},
	Entry{"read-byte", int(OpReadByte)},
	Entry{"read-word", int(OpReadWord)},
	Entry{"read-long", int(OpReadLong)},
	Entry{"read-float", int(OpReadFloat)},
	Entry{"read-double", int(OpReadDouble)},
	Entry{"write-bit", int(OpWriteBit)},
	Entry{"write-byte", int(OpWriteByte)},
	Entry{"write-word", int(OpWriteWord)},
	Entry{"write-long", int(OpWriteLong)},
	Entry{"write-float", int(OpWriteFloat)},
	Entry{"write-double", int(OpWriteDouble)},
	Entry{"read-write-bit", int(OpReadWriteBit)},
	Entry{"read-write-byte", int(OpReadWriteByte)},
	Entry{"read-write-word", int(OpReadWriteWord)},
	Entry{"read-write-long", int(OpReadWriteLong)},
	Entry{"read-write-float", int(OpReadWriteFloat)},
	Entry{"read-write-double", int(OpReadWriteDouble)},
	Entry{"status", int(OpStatus)},
	Entry{"diagnostic", int(OpDiagnostic)},
)

var widthNames = MustTable(
	Entry{"bit", int(WidthBit)},
	Entry{"bool", int(WidthBit)},
	Entry{"int8", int(WidthInt8)},
	Entry{"byte", int(WidthInt8)},
	Entry{"int16", int(WidthInt16)},
	Entry{"word", int(WidthInt16)},
	Entry{"int32", int(WidthInt32)},
	Entry{"long", int(WidthInt32)},
	Entry{"float32", int(WidthFloat32)},
	Entry{"float", int(WidthFloat32)},
	Entry{"float64", int(WidthFloat64)},
	Entry{"double", int(WidthFloat64)},
)

var linkNames = MustTable(
	Entry{"modbus-tcp", int(LinkModbusTCP)},
	Entry{"ethernet-ip", int(LinkEtherNetIP)},
	Entry{"s7-tcp", int(LinkS7TCP)},
	Entry{"modbus-rtu", int(LinkModbusRTU)},
	Entry{"modbus-ascii", int(LinkModbusASCII)},
	Entry{"df1", int(LinkDF1)},
	Entry{"modbus-rtu-over-tcp", int(LinkModbusRTUOverTCP)},
	Entry{"modbus-ascii-over-tcp", int(LinkModbusASCIIOverTCP)},
	Entry{"df1-over-tcp", int(LinkDF1OverTCP)},
)

// ParseOpCode resolves a symbolic operation name such as "read-word".
func ParseOpCode(name string) (OpCode, bool) {
	code, ok := opNames.LookupFold(name)
	return OpCode(code), ok
}

// ParseWidth resolves a width name such as "int16" or its alias "word".
func ParseWidth(name string) (Width, bool) {
	code, ok := widthNames.LookupFold(name)
	return Width(code), ok
}

// ParseLink resolves a link name such as "modbus-rtu-over-tcp".
func ParseLink(name string) (LinkID, bool) {
	code, ok := linkNames.LookupFold(name)
	return LinkID(code), ok
}

// Package checksum provides the frame integrity primitives used by serial-linked
// transports of the tag cache: an 8-bit longitudinal redundancy check (LRC) and the
// reflected 16-bit cyclic redundancy check with polynomial 0xA001.
//
// All functions are pure and safe for concurrent use.
package checksum

// crc16Poly is the reflected form of polynomial 0x8005.
const crc16Poly uint16 = 0xA001

// crc16Init is the initial register value.
const crc16Init uint16 = 0xFFFF

// LRC8 returns the two's-complement negation of the 8-bit wraparound sum of data.
// An empty input yields 0.
//
// Appending the result to data makes the 8-bit sum of all bytes zero.
func LRC8(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return -sum
}

// VerifyLRC8 reports whether the last byte of frame is the LRC8 of the bytes before it.
// Frames shorter than two bytes never verify.
func VerifyLRC8(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}

	var sum byte
	for _, b := range frame {
		sum += b
	}

	return sum == 0
}

// CRC16 computes the reflected CRC-16 of data.
//
// The register starts at 0xFFFF. Each byte is XORed into the low byte of the
// register, followed by eight rounds of: take bit 0, shift right by one, and XOR
// with 0xA001 when the taken bit was set. The shift-then-XOR order is what field
// devices expect; a table-driven variant must reproduce it exactly.
func CRC16(data []byte) uint16 {
	crc := crc16Init
	for _, b := range data {
		crc ^= uint16(b)
		for range 8 {
			lsb := crc & 0x0001
			crc >>= 1
			if lsb != 0 {
				crc ^= crc16Poly
			}
		}
	}

	return crc
}

// AppendCRC16 appends the CRC16 of data to dst, low byte first as it travels
// on serial links, and returns the extended slice.
func AppendCRC16(dst []byte, data []byte) []byte {
	crc := CRC16(data)

	return append(dst, byte(crc), byte(crc>>8))
}

// VerifyCRC16 reports whether the trailing two bytes of frame (low byte first)
// hold the CRC16 of the preceding bytes.
func VerifyCRC16(frame []byte) bool {
	if len(frame) < 3 {
		return false
	}

	n := len(frame) - 2
	got := uint16(frame[n]) | uint16(frame[n+1])<<8

	return got == CRC16(frame[:n])
}

package fstruct

import (
	"encoding/binary"
	"math"
)

// Little-endian primitive helpers for Pack and Unpack implementations.
// Append* extend dst; *At read from b at byte offset off.

func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func AppendInt8(dst []byte, v int8) []byte   { return append(dst, byte(v)) }
func AppendUint8(dst []byte, v uint8) []byte { return append(dst, v) }

func AppendInt16(dst []byte, v int16) []byte {
	return binary.LittleEndian.AppendUint16(dst, uint16(v))
}

func AppendUint16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func AppendInt32(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

func AppendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func AppendInt64(dst []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(v))
}

func AppendUint64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func AppendFloat32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

func AppendFloat64(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
}

// AppendChars writes s as a char[n] field: truncated to n bytes, NUL padded.
func AppendChars(dst []byte, s string, n int) []byte {
	if len(s) > n {
		s = s[:n]
	}
	dst = append(dst, s...)
	for i := len(s); i < n; i++ {
		dst = append(dst, 0)
	}
	return dst
}

func BoolAt(b []byte, off int) bool     { return b[off] != 0 }
func Int8At(b []byte, off int) int8     { return int8(b[off]) }
func Uint8At(b []byte, off int) uint8   { return b[off] }
func Int16At(b []byte, off int) int16   { return int16(binary.LittleEndian.Uint16(b[off:])) }
func Uint16At(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }
func Int32At(b []byte, off int) int32   { return int32(binary.LittleEndian.Uint32(b[off:])) }
func Uint32At(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
func Int64At(b []byte, off int) int64   { return int64(binary.LittleEndian.Uint64(b[off:])) }
func Uint64At(b []byte, off int) uint64 { return binary.LittleEndian.Uint64(b[off:]) }

func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func Float64At(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

// CharsAt reads a char[n] field, dropping trailing NUL padding.
func CharsAt(b []byte, off, n int) string {
	return trimNUL(b[off : off+n])
}

func trimNUL(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

package common

import (
	"encoding/binary"
	"math"
	"reflect"
)

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// FixedSize returns the byte width for fixed-size primitive kinds.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}

// Get decodes one little-endian primitive of kind k from the front of b.
// b must hold at least FixedSize(k) bytes.
func Get(b []byte, k reflect.Kind) any {
	switch k {
	case reflect.Bool:
		return b[0] != 0
	case reflect.Int8:
		return int8(b[0])
	case reflect.Uint8:
		return b[0]
	case reflect.Int16:
		return int16(binary.LittleEndian.Uint16(b))
	case reflect.Uint16:
		return binary.LittleEndian.Uint16(b)
	case reflect.Int32:
		return int32(binary.LittleEndian.Uint32(b))
	case reflect.Uint32:
		return binary.LittleEndian.Uint32(b)
	case reflect.Int64:
		return int64(binary.LittleEndian.Uint64(b))
	case reflect.Uint64:
		return binary.LittleEndian.Uint64(b)
	case reflect.Float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case reflect.Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return nil
}

// GetSlice decodes n consecutive primitives of kind k into a typed slice
// ([]int16, []float32, ...).
func GetSlice(b []byte, k reflect.Kind, n int) any {
	sz := FixedSize(k)
	out := reflect.MakeSlice(reflect.SliceOf(kindType(k)), n, n)
	for i := 0; i < n; i++ {
		out.Index(i).Set(reflect.ValueOf(Get(b[i*sz:], k)))
	}
	return out.Interface()
}

// Put encodes v into the front of b as a little-endian primitive of kind k.
// It reports false when v's dynamic type is not exactly the Go type of k.
func Put(b []byte, k reflect.Kind, v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != k {
		return false
	}
	switch k {
	case reflect.Bool:
		if rv.Bool() {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case reflect.Int8:
		b[0] = byte(rv.Int())
	case reflect.Uint8:
		b[0] = byte(rv.Uint())
	case reflect.Int16:
		binary.LittleEndian.PutUint16(b, uint16(rv.Int()))
	case reflect.Uint16:
		binary.LittleEndian.PutUint16(b, uint16(rv.Uint()))
	case reflect.Int32:
		binary.LittleEndian.PutUint32(b, uint32(rv.Int()))
	case reflect.Uint32:
		binary.LittleEndian.PutUint32(b, uint32(rv.Uint()))
	case reflect.Int64:
		binary.LittleEndian.PutUint64(b, uint64(rv.Int()))
	case reflect.Uint64:
		binary.LittleEndian.PutUint64(b, rv.Uint())
	case reflect.Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(rv.Float())))
	case reflect.Float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(rv.Float()))
	default:
		return false
	}
	return true
}

// PutSlice encodes a typed slice whose element kind is k and whose length is
// exactly n into b.
func PutSlice(b []byte, k reflect.Kind, n int, v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Len() != n || rv.Type().Elem().Kind() != k {
		return false
	}
	sz := FixedSize(k)
	for i := 0; i < n; i++ {
		if !Put(b[i*sz:], k, rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

func kindType(k reflect.Kind) reflect.Type {
	switch k {
	case reflect.Bool:
		return reflect.TypeOf(false)
	case reflect.Int8:
		return reflect.TypeOf(int8(0))
	case reflect.Uint8:
		return reflect.TypeOf(uint8(0))
	case reflect.Int16:
		return reflect.TypeOf(int16(0))
	case reflect.Uint16:
		return reflect.TypeOf(uint16(0))
	case reflect.Int32:
		return reflect.TypeOf(int32(0))
	case reflect.Uint32:
		return reflect.TypeOf(uint32(0))
	case reflect.Int64:
		return reflect.TypeOf(int64(0))
	case reflect.Uint64:
		return reflect.TypeOf(uint64(0))
	case reflect.Float32:
		return reflect.TypeOf(float32(0))
	case reflect.Float64:
		return reflect.TypeOf(float64(0))
	}
	return nil
}

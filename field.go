package fstruct

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/fstruct/internal/common"
)

// Kind is a primitive schema type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindChar
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindChar:    "char",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

// keywords maps schema type keywords, aliases included, to kinds.
var keywords = map[string]Kind{
	"bool":    KindBool,
	"char":    KindChar,
	"int8":    KindInt8,
	"int16":   KindInt16,
	"int32":   KindInt32,
	"int64":   KindInt64,
	"uint8":   KindUint8,
	"uint16":  KindUint16,
	"uint32":  KindUint32,
	"uint64":  KindUint64,
	"float32": KindFloat32,
	"float":   KindFloat32,
	"float64": KindFloat64,
	"double":  KindFloat64,
}

// KindOf returns the kind named by a schema keyword.
func KindOf(keyword string) (Kind, bool) {
	k, ok := keywords[keyword]
	return k, ok
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// reflectKind maps k onto the Go kind used to encode it. char is stored as a
// byte.
func (k Kind) reflectKind() reflect.Kind {
	switch k {
	case KindBool:
		return reflect.Bool
	case KindChar, KindUint8:
		return reflect.Uint8
	case KindInt8:
		return reflect.Int8
	case KindInt16:
		return reflect.Int16
	case KindInt32:
		return reflect.Int32
	case KindInt64:
		return reflect.Int64
	case KindUint16:
		return reflect.Uint16
	case KindUint32:
		return reflect.Uint32
	case KindUint64:
		return reflect.Uint64
	case KindFloat32:
		return reflect.Float32
	case KindFloat64:
		return reflect.Float64
	}
	return reflect.Invalid
}

// Size is the base width of one element in bytes, 0 for KindInvalid.
func (k Kind) Size() int {
	rk := k.reflectKind()
	if !common.IsFixedKind(rk) {
		return 0
	}
	return common.FixedSize(rk)
}

// IsInteger reports whether enum specs may annotate k.
func (k Kind) IsInteger() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}

// EnumValue is one name=value pair of an enum spec.
type EnumValue struct {
	Name  string
	Value int64
}

// FieldType is a primitive kind repeated Count times.
type FieldType struct {
	Kind  Kind
	Count int
	Enum  []EnumValue // nil unless the declaration carried an enum spec
}

// Size is the total width of the field: base size times count.
func (t FieldType) Size() int { return t.Kind.Size() * t.Count }

func (t FieldType) String() string {
	if t.Count == 1 {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s[%d]", t.Kind, t.Count)
}

// FieldEntry is one primitive field of a resolved layout. Fields of nested
// structures carry the enclosing field names as a dotted prefix.
type FieldEntry struct {
	Path   string
	Offset int
	Type   FieldType
}

// Layout is the flattened, offset-addressed form of a structure's schema.
// Fields are in declaration order.
type Layout struct {
	TypeName string
	Size     int
	Fields   []FieldEntry
	index    map[string]int
}

func newLayout(typeName string, size int, fields []FieldEntry) *Layout {
	l := &Layout{TypeName: typeName, Size: size, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		l.index[f.Path] = i
	}
	return l
}

// Field looks up a field by dotted path.
func (l *Layout) Field(path string) (FieldEntry, bool) {
	i, ok := l.index[path]
	if !ok {
		return FieldEntry{}, false
	}
	return l.Fields[i], true
}

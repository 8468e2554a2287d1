// Package fstruct describes fixed-size binary structures and packs them to
// and from raw bytes.
//
// A structure type publishes a Descriptor (type name, byte size and a lazily
// evaluated schema string) into a process-wide Registry. The schema text
// lists the fields in declaration order:
//
//	float32 x;float32 y;float32 z;
//
// and may reference other registered structures by type name. The Registry
// resolves a schema into a flat list of offset-addressed fields, which backs
// DynamicView for access to records whose Go type is not known at compile time.
package fstruct

import "fmt"

// Descriptor identifies one structure type: its name, its fixed size in bytes
// and the schema describing its layout. Descriptors are immutable; once
// registered they stay valid for the life of the process.
type Descriptor struct {
	schema   func() string
	typeName string
	size     int
}

// NewDescriptor builds a Descriptor. schema is evaluated lazily since a
// structure's schema may name types that are registered after it.
func NewDescriptor(typeName string, size int, schema func() string) *Descriptor {
	if schema == nil {
		schema = StaticSchema("")
	}
	return &Descriptor{schema: schema, typeName: typeName, size: size}
}

// StaticSchema wraps a constant schema string as a schema provider.
func StaticSchema(s string) func() string {
	return func() string { return s }
}

// DescriptorOf assembles the Descriptor of T from its Structure methods.
func DescriptorOf[T Structure]() *Descriptor {
	var zero T
	return &Descriptor{
		schema:   zero.Schema,
		typeName: zero.TypeName(),
		size:     zero.Size(),
	}
}

// TypeName is the unique, process-global key of the structure.
func (d *Descriptor) TypeName() string { return d.typeName }

// Size is the packed size of one value in bytes.
func (d *Descriptor) Size() int { return d.size }

// Schema evaluates the schema provider.
func (d *Descriptor) Schema() string { return d.schema() }

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%d bytes)", d.typeName, d.size)
}

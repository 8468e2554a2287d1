package fstruct

import (
	"fmt"
	"sync"

	"github.com/rawbytedev/fstruct/internal/common"
)

// DynamicView gives field access by dotted path to one packed record whose Go
// type is unknown at compile time. The layout is resolved once, when the view
// is built.
type DynamicView struct {
	desc   *Descriptor
	layout *Layout

	mu  sync.RWMutex
	buf []byte
}

// NewDynamicView builds a view over buf using r to resolve nested
// structures. buf must be exactly desc.Size() bytes; the view takes ownership
// of it.
func (r *Registry) NewDynamicView(desc *Descriptor, buf []byte) (*DynamicView, error) {
	if len(buf) != desc.Size() {
		return nil, sizeErr(desc.TypeName()+" buffer", len(buf), desc.Size())
	}
	layout, err := r.Resolve(desc)
	if err != nil {
		return nil, err
	}
	return &DynamicView{desc: desc, layout: layout, buf: buf}, nil
}

// NewDynamicView builds a view resolved against Default.
func NewDynamicView(desc *Descriptor, buf []byte) (*DynamicView, error) {
	return Default.NewDynamicView(desc, buf)
}

func (v *DynamicView) Description() *Descriptor { return v.desc }
func (v *DynamicView) Layout() *Layout          { return v.layout }

// Field returns the offset and type of the field at path.
func (v *DynamicView) Field(path string) (FieldEntry, bool) {
	return v.layout.Field(path)
}

// Replace overwrites the whole record with buf, which must have the same
// length as the current buffer. Readers never see a half-replaced record.
func (v *DynamicView) Replace(buf []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(buf) != len(v.buf) {
		return sizeErr(v.desc.TypeName()+" replacement buffer", len(buf), len(v.buf))
	}
	copy(v.buf, buf)
	return nil
}

// Snapshot returns a copy of the current record bytes.
func (v *DynamicView) Snapshot() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]byte, len(v.buf))
	copy(out, v.buf)
	return out
}

// Get decodes the field at path. Scalars come back as their Go type (int16,
// float32, ...), arrays as slices, and char fields as a string with trailing
// NULs removed.
func (v *DynamicView) Get(path string) (any, error) {
	f, ok := v.layout.Field(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, v.desc.TypeName(), path)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	b := v.buf[f.Offset : f.Offset+f.Type.Size()]
	k := f.Type.Kind
	switch {
	case k == KindChar:
		return trimNUL(b), nil
	case f.Type.Count == 1:
		return common.Get(b, k.reflectKind()), nil
	default:
		return common.GetSlice(b, k.reflectKind(), f.Type.Count), nil
	}
}

// Set encodes val into the field at path. val must be of the same Go kind Get
// would return for the field; char fields take a string no longer than the
// field.
func (v *DynamicView) Set(path string, val any) error {
	f, ok := v.layout.Field(path)
	if !ok {
		return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, v.desc.TypeName(), path)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	b := v.buf[f.Offset : f.Offset+f.Type.Size()]
	k := f.Type.Kind
	switch {
	case k == KindChar:
		s, ok := val.(string)
		if !ok || len(s) > f.Type.Count {
			break
		}
		copy(b, AppendChars(nil, s, f.Type.Count))
		return nil
	case f.Type.Count == 1:
		if common.Put(b, k.reflectKind(), val) {
			return nil
		}
	default:
		if common.PutSlice(b, k.reflectKind(), f.Type.Count, val) {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot store %T in %s field %q", ErrTypeMismatch, val, f.Type, path)
}

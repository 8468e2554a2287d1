package fstruct

import "fmt"

// Batch is count packed values of one structure type laid back to back.
type Batch struct {
	desc  *Descriptor
	count int
	data  []byte
}

// NewBatch wraps already packed bytes. len(data) must equal
// desc.Size()*count. The batch keeps data without copying it.
func NewBatch(desc *Descriptor, count int, data []byte) (*Batch, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrSizeMismatch, count)
	}
	if want := desc.Size() * count; len(data) != want {
		return nil, sizeErr(fmt.Sprintf("batch of %d %s", count, desc.TypeName()), len(data), want)
	}
	return &Batch{desc: desc, count: count, data: data}, nil
}

// PackBatch packs values into a single Batch.
func PackBatch[T Structure](values []T) (*Batch, error) {
	desc := DescriptorOf[T]()
	if live, ok := Default.Lookup(desc.TypeName()); ok {
		desc = live
	}
	data := make([]byte, 0, desc.Size()*len(values))
	var err error
	for _, v := range values {
		if data, err = Pack(v, data); err != nil {
			return nil, err
		}
	}
	return NewBatch(desc, len(values), data)
}

// UnpackBatch decodes every element of b as a T.
func UnpackBatch[T any, P Unpacker[T]](b *Batch) ([]T, error) {
	var zero T
	p := P(&zero)
	if p.TypeName() != b.desc.TypeName() {
		return nil, fmt.Errorf("%w: batch holds %s, not %s", ErrTypeMismatch, b.desc.TypeName(), p.TypeName())
	}
	out := make([]T, 0, b.count)
	c := NewCursor(b.data)
	for i := 0; i < b.count; i++ {
		v, err := UnpackFrom[T, P](c)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *Batch) Descriptor() *Descriptor { return b.desc }
func (b *Batch) Count() int              { return b.count }

// Bytes returns the packed data. It must not be modified.
func (b *Batch) Bytes() []byte { return b.data }

// Element returns the packed bytes of the i-th value.
func (b *Batch) Element(i int) []byte {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("fstruct: batch index %d out of range [0,%d)", i, b.count))
	}
	sz := b.desc.Size()
	return b.data[i*sz : (i+1)*sz : (i+1)*sz]
}

package fstruct

// Structure is the contract a fixed-size record type satisfies, normally
// through generated code. Schema, TypeName and Size must be constant for the
// type and callable on the zero value.
//
// Pack appends exactly Size() bytes to dst and returns the extended slice.
type Structure interface {
	Schema() string
	TypeName() string
	Size() int
	Pack(dst []byte) []byte
}

// Unpacker is satisfied by *T when T is a Structure that can decode itself.
// Unpack must consume exactly Size() bytes from c. Short input is reported
// as an error wrapping ErrTruncated (Cursor.Take does this), never a panic.
type Unpacker[T any] interface {
	*T
	Structure
	Unpack(c *Cursor) error
}

// Pack appends v to dst and checks that the codec wrote exactly Size() bytes.
func Pack[T Structure](v T, dst []byte) ([]byte, error) {
	start := len(dst)
	out := v.Pack(dst)
	if n := len(out) - start; n != v.Size() {
		return dst, sizeErr(v.TypeName()+" packed output", n, v.Size())
	}
	return out, nil
}

// UnpackFrom decodes one T from the cursor position.
func UnpackFrom[T any, P Unpacker[T]](c *Cursor) (T, error) {
	var v T
	p := P(&v)
	if c.Remaining() < p.Size() {
		return v, truncated(p.TypeName(), c.Remaining(), p.Size())
	}
	start := c.Offset()
	if err := p.Unpack(c); err != nil {
		return v, err
	}
	if n := c.Offset() - start; n != p.Size() {
		return v, sizeErr(p.TypeName()+" unpack consumed", n, p.Size())
	}
	return v, nil
}

// Unpack decodes one T from the front of b.
func Unpack[T any, P Unpacker[T]](b []byte) (T, error) {
	return UnpackFrom[T, P](NewCursor(b))
}

package fstruct

import "fmt"

// Cursor walks a byte slice for Unpack implementations.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Take consumes and returns the next n bytes. The returned slice aliases the
// cursor's buffer. Fewer than n remaining bytes is ErrTruncated and leaves the
// cursor where it was.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, truncated("cursor", c.Remaining(), n)
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

func truncated(what string, have, want int) error {
	return fmt.Errorf("%w: %s has %d bytes, need %d", ErrTruncated, what, have, want)
}

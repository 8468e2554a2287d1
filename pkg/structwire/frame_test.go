package structwire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/fstruct"
)

type sample struct {
	Seq   uint32
	Value float64
}

func (sample) Schema() string   { return "uint32 seq;double value;" }
func (sample) TypeName() string { return "sample" }
func (sample) Size() int        { return 12 }

func (s sample) Pack(dst []byte) []byte {
	dst = fstruct.AppendUint32(dst, s.Seq)
	return fstruct.AppendFloat64(dst, s.Value)
}

func (s *sample) Unpack(c *fstruct.Cursor) error {
	b, err := c.Take(12)
	if err != nil {
		return err
	}
	s.Seq = fstruct.Uint32At(b, 0)
	s.Value = fstruct.Float64At(b, 4)
	return nil
}

func newRegistry(t *testing.T) *fstruct.Registry {
	t.Helper()
	r := fstruct.NewRegistry(fstruct.Options{})
	_, err := r.RegisterValidated(fstruct.DescriptorOf[sample]())
	require.NoError(t, err)
	return r
}

func samples(n int) []sample {
	out := make([]sample, n)
	for i := range out {
		out[i] = sample{Seq: uint32(i), Value: float64(i) / 4}
	}
	return out
}

func TestFrameRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		r := newRegistry(t)
		batch, err := fstruct.PackBatch(samples(64))
		require.NoError(t, err)

		enc, err := NewEncoder(Options{Compress: compress})
		require.NoError(t, err)
		defer enc.Close()
		frame, err := enc.EncodeBatch(batch)
		require.NoError(t, err)
		assert.Equal(t, compress, frame[3]&FlagCompressed != 0)
		if compress {
			assert.Less(t, len(frame), len(batch.Bytes()))
		}

		dec, err := NewDecoder(Options{Registry: r})
		require.NoError(t, err)
		defer dec.Close()
		got, err := dec.DecodeBatch(frame)
		require.NoError(t, err)

		live, _ := r.Lookup("sample")
		assert.Same(t, live, got.Descriptor())
		assert.Equal(t, 64, got.Count())
		assert.Equal(t, batch.Bytes(), got.Bytes())

		values, err := fstruct.UnpackBatch[sample](got)
		require.NoError(t, err)
		assert.Equal(t, samples(64), values)
	}
}

func TestFrameLayout(t *testing.T) {
	batch, err := fstruct.NewBatch(fstruct.DescriptorOf[sample](), 1, sample{Seq: 7}.Pack(nil))
	require.NoError(t, err)
	enc, err := NewEncoder(Options{})
	require.NoError(t, err)
	frame, err := enc.EncodeBatch(batch)
	require.NoError(t, err)

	assert.Equal(t, []byte{'F', 'S', Version, 0}, frame[:4])
	assert.Equal(t, uint16(6), binary.LittleEndian.Uint16(frame[4:]))
	assert.Equal(t, "sample", string(frame[6:12]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(frame[12:]))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(frame[16:]))
	assert.Equal(t, batch.Bytes(), frame[20:32])
	assert.Len(t, frame, 36)
}

func TestDecodeRejectsDamage(t *testing.T) {
	r := newRegistry(t)
	batch, err := fstruct.PackBatch(samples(3))
	require.NoError(t, err)
	enc, err := NewEncoder(Options{})
	require.NoError(t, err)
	frame, err := enc.EncodeBatch(batch)
	require.NoError(t, err)
	dec, err := NewDecoder(Options{Registry: r})
	require.NoError(t, err)
	defer dec.Close()

	_, err = dec.DecodeBatch(frame[:5])
	assert.ErrorIs(t, err, ErrNotFrame)

	bad := append([]byte(nil), frame...)
	bad[0] = 'X'
	_, err = dec.DecodeBatch(bad)
	assert.ErrorIs(t, err, ErrNotFrame)

	bad = append([]byte(nil), frame...)
	bad[2] = 9
	_, err = dec.DecodeBatch(bad)
	assert.ErrorIs(t, err, ErrVersion)

	bad = append([]byte(nil), frame...)
	bad[len(bad)-6] ^= 0x01
	_, err = dec.DecodeBatch(bad)
	assert.ErrorIs(t, err, ErrCRC)

	_, err = dec.DecodeBatch(frame[:len(frame)-1])
	assert.Error(t, err)
}

func TestDecodeChecksSizes(t *testing.T) {
	r := newRegistry(t)
	dec, err := NewDecoder(Options{Registry: r})
	require.NoError(t, err)
	defer dec.Close()

	// count says 2 but only one element follows
	frame := buildFrame("sample", 0, 2, make([]byte, 12))
	_, err = dec.DecodeBatch(frame)
	assert.ErrorIs(t, err, fstruct.ErrSizeMismatch)

	frame = buildFrame("unknown", 0, 1, make([]byte, 12))
	_, err = dec.DecodeBatch(frame)
	assert.ErrorIs(t, err, fstruct.ErrUnknownType)

	small, err := NewDecoder(Options{Registry: r, MaxPayload: 16})
	require.NoError(t, err)
	defer small.Close()
	frame = buildFrame("sample", 0, 2, make([]byte, 24))
	_, err = small.DecodeBatch(frame)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func buildFrame(name string, flags byte, count uint32, payload []byte) []byte {
	out := []byte{Magic0, Magic1, Version, flags}
	out = binary.LittleEndian.AppendUint16(out, uint16(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, count)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	return binary.LittleEndian.AppendUint32(out, crcOf(out))
}

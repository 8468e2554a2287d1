package structwire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/rawbytedev/fstruct"
)

// Encoder builds frames. It reuses its zstd state and is not safe for
// concurrent use.
type Encoder struct {
	opts Options
	zenc *zstd.Encoder
	buf  []byte // reused for the compressed payload
}

func NewEncoder(opts Options) (*Encoder, error) {
	e := &Encoder{opts: opts.withDefaults()}
	if e.opts.Compress {
		zenc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, err
		}
		e.zenc = zenc
	}
	return e, nil
}

// EncodeBatch serializes b into a new frame.
func (e *Encoder) EncodeBatch(b *fstruct.Batch) ([]byte, error) {
	name := b.Descriptor().TypeName()
	if len(name) > math.MaxUint16 {
		return nil, fmt.Errorf("type name of %d bytes does not fit a frame", len(name))
	}
	payload := b.Bytes()
	var flags byte
	if e.zenc != nil {
		e.buf = e.zenc.EncodeAll(payload, e.buf[:0])
		payload = e.buf
		flags |= FlagCompressed
	}
	if uint64(len(payload)) > math.MaxUint32 || uint64(b.Count()) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	out := make([]byte, 0, headerSize+len(name)+countsSize+len(payload)+trailerSize)
	out = append(out, Magic0, Magic1, Version, flags)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, uint32(b.Count()))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	out = binary.LittleEndian.AppendUint32(out, crcOf(out))

	e.opts.Logger.Debug("batch framed",
		zap.String("type", name),
		zap.Int("count", b.Count()),
		zap.Int("raw", len(b.Bytes())),
		zap.Int("frame", len(out)))
	return out, nil
}

func (e *Encoder) Close() error {
	if e.zenc != nil {
		return e.zenc.Close()
	}
	return nil
}

package structwire

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/rawbytedev/fstruct"
)

// Decoder parses frames back into batches. It is not safe for concurrent use.
type Decoder struct {
	opts Options
	zdec *zstd.Decoder
}

func NewDecoder(opts Options) (*Decoder, error) {
	d := &Decoder{opts: opts.withDefaults()}
	zdec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(d.opts.MaxPayload)))
	if err != nil {
		return nil, err
	}
	d.zdec = zdec
	return d, nil
}

// DecodeBatch verifies frame and returns its batch. The element type must be
// registered in the decoder's registry. The batch does not alias frame when
// the payload was compressed; otherwise it does.
func (d *Decoder) DecodeBatch(frame []byte) (*fstruct.Batch, error) {
	if len(frame) < headerSize+countsSize+trailerSize || frame[0] != Magic0 || frame[1] != Magic1 {
		return nil, ErrNotFrame
	}
	if frame[2] != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, frame[2])
	}
	flags := frame[3]

	body := frame[:len(frame)-trailerSize]
	want := binary.LittleEndian.Uint32(frame[len(frame)-trailerSize:])
	if crcOf(body) != want {
		return nil, ErrCRC
	}

	pos := headerSize
	nameLen := int(binary.LittleEndian.Uint16(frame[4:]))
	if len(body) < pos+nameLen+countsSize {
		return nil, ErrLength
	}
	name := string(body[pos : pos+nameLen])
	pos += nameLen
	count := int(binary.LittleEndian.Uint32(body[pos:]))
	payloadLen := int(binary.LittleEndian.Uint32(body[pos+4:]))
	pos += countsSize
	if len(body)-pos != payloadLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrLength, len(body)-pos, payloadLen)
	}
	payload := body[pos:]

	desc, ok := d.opts.Registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", fstruct.ErrUnknownType, name)
	}
	rawLen := desc.Size() * count
	if rawLen > d.opts.MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, rawLen)
	}

	if flags&FlagCompressed != 0 {
		raw, err := d.zdec.DecodeAll(payload, make([]byte, 0, rawLen))
		if err != nil {
			return nil, fmt.Errorf("decompress %s payload: %w", name, err)
		}
		payload = raw
	}
	d.opts.Logger.Debug("batch decoded",
		zap.String("type", name),
		zap.Int("count", count),
		zap.Bool("compressed", flags&FlagCompressed != 0))
	return fstruct.NewBatch(desc, count, payload)
}

func (d *Decoder) Close() {
	d.zdec.Close()
}

// Package structwire frames fstruct batches for transmission: a small
// header naming the structure type and element count, the packed payload
// (optionally zstd compressed) and a CRC32 trailer.
//
// Layout (little-endian):
//
//	magic "FS" | version:1 | flags:1 | nameLen:2 | name | count:4 | payloadLen:4 | payload | crc32:4
//
// The CRC covers every byte after the magic.
package structwire

import (
	"errors"
	"hash/crc32"

	"go.uber.org/zap"

	"github.com/rawbytedev/fstruct"
)

const (
	Magic0  = 'F'
	Magic1  = 'S'
	Version = 1

	FlagCompressed byte = 0x01

	// fixed bytes around name and payload
	headerSize  = 2 + 1 + 1 + 2
	countsSize  = 4 + 4
	trailerSize = 4

	DefaultMaxPayload = 64 << 20
)

var (
	ErrNotFrame = errors.New("not a structure frame")
	ErrVersion  = errors.New("unsupported frame version")
	ErrLength   = errors.New("frame length mismatch")
	ErrCRC      = errors.New("crc mismatch")
	ErrTooLarge = errors.New("frame payload too large")
)

type Options struct {
	// Compress zstd-compresses payloads on encode.
	Compress bool
	// Registry resolves type names on decode; nil means fstruct.Default.
	Registry *fstruct.Registry
	// MaxPayload bounds the decoded payload size; 0 means DefaultMaxPayload.
	MaxPayload int
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = fstruct.Default
	}
	if o.MaxPayload <= 0 {
		o.MaxPayload = DefaultMaxPayload
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// crcOf checksums a frame body, skipping the magic.
func crcOf(body []byte) uint32 {
	return crc32.ChecksumIEEE(body[2:])
}

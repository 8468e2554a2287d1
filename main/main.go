package main

import (
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/rawbytedev/fstruct"
	"github.com/rawbytedev/fstruct/pkg/structwire"
)

type reading struct {
	Channel uint8
	Value   float64
	Stamp   int64
}

func (reading) Schema() string   { return "uint8 channel;double value;int64 stamp;" }
func (reading) TypeName() string { return "reading" }
func (reading) Size() int        { return 17 }

func (r reading) Pack(dst []byte) []byte {
	dst = fstruct.AppendUint8(dst, r.Channel)
	dst = fstruct.AppendFloat64(dst, r.Value)
	return fstruct.AppendInt64(dst, r.Stamp)
}

func (r *reading) Unpack(c *fstruct.Cursor) error {
	b, err := c.Take(17)
	if err != nil {
		return err
	}
	r.Channel = fstruct.Uint8At(b, 0)
	r.Value = fstruct.Float64At(b, 1)
	r.Stamp = fstruct.Int64At(b, 9)
	return nil
}

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()
	fstruct.SetLogger(log)

	go func() {
		log.Info("pprof", zap.Error(http.ListenAndServe("localhost:6060", nil)))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal("create profile", zap.Error(err))
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	fstruct.MustRegister[reading]()
	if err := fstruct.Default.Verify(); err != nil {
		log.Fatal("registry", zap.Error(err))
	}

	values := make([]reading, 256)
	for i := range values {
		values[i] = reading{Channel: uint8(i % 8), Value: float64(i) * 0.5, Stamp: int64(i) * 1000}
	}
	enc, err := structwire.NewEncoder(structwire.Options{Compress: true})
	if err != nil {
		log.Fatal("encoder", zap.Error(err))
	}
	defer enc.Close()
	dec, err := structwire.NewDecoder(structwire.Options{})
	if err != nil {
		log.Fatal("decoder", zap.Error(err))
	}
	defer dec.Close()

	var frame []byte
	for i := 0; i < 10000; i++ {
		batch, err := fstruct.PackBatch(values)
		if err != nil {
			log.Fatal("pack", zap.Error(err))
		}
		if frame, err = enc.EncodeBatch(batch); err != nil {
			log.Fatal("encode", zap.Error(err))
		}
		got, err := dec.DecodeBatch(frame)
		if err != nil {
			log.Fatal("decode", zap.Error(err))
		}
		if _, err := fstruct.UnpackBatch[reading](got); err != nil {
			log.Fatal("unpack", zap.Error(err))
		}
	}
	log.Info("done", zap.Int("frame_bytes", len(frame)), zap.Int("raw_bytes", len(values)*reading{}.Size()))
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Error("write profile", zap.Error(err))
	}
}

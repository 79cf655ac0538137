package hoststore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeVector packs a []float32 into the raw little-endian byte layout
// sqlite-vec's float[] columns store, so pcst_nodes.embedding can be bound
// and read back as an ordinary BLOB without going through the extension's
// own (de)serialization.
func encodeVector(v []float32) ([]byte, error) {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf, nil
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("hoststore: embedding blob length %d not a multiple of 4", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

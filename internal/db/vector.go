package db

import (
	"encoding/binary"
	"math"
)

// VectorToBytes serializes a []float32 into the binary blob format stored in
// hash vector fields and passed to FT.SEARCH PARAMS.
func VectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// BytesToVector deserializes the binary blob back to []float32.
func BytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) < 4 {
		return nil
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec
}

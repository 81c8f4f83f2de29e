package serializer

import (
	"fmt"
	"github.com/golang/snappy"
)

const (
	// CompressionThreshold is the smallest payload that is compressed.
	CompressionThreshold = 2000

	flagSerializerMask uint32 = 0xff
	flagCompressed     uint32 = 1 << 8
)

// Encode serializes v with the serializer id and snappy-compresses the result
// when compress is set and the payload reaches CompressionThreshold. The
// returned flags must be passed to Decode.
func Encode(v any, id ID, compress bool) ([]byte, uint32, error) {
	s, ok := ByID(id)
	if !ok {
		return nil, 0, fmt.Errorf("unknown serializer %d", id)
	}
	payload, err := s.Serialize(v)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to serialize %T: %w", v, err)
	}

	flags := uint32(id) & flagSerializerMask
	if compress && len(payload) >= CompressionThreshold {
		payload = snappy.Encode(nil, payload)
		flags |= flagCompressed
	}
	return payload, flags, nil
}

// Decode reverses Encode.
func Decode(payload []byte, flags uint32) (any, error) {
	if flags&flagCompressed != 0 {
		raw, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress payload: %w", err)
		}
		payload = raw
	}

	id := ID(flags & flagSerializerMask)
	s, ok := ByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown serializer %d", id)
	}
	v, err := s.Deserialize(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize payload: %w", err)
	}
	return v, nil
}

// Compressed reports whether flags mark a compressed payload.
func Compressed(flags uint32) bool {
	return flags&flagCompressed != 0
}

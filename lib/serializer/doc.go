// Package serializer converts cached values to payload bytes and back.
//
// Key Components:
//
//   - ISerializer: interface implemented by every serializer.
//
//   - gobSerializerImpl (IDGob): Go's gob encoding. Values keep their exact Go
//     type, an int comes back as int and a []string as []string. Custom struct
//     types must be made known with Register first.
//
//   - jsonSerializerImpl (IDJSON): JSON encoding. Objects decode as
//     map[string]any, arrays as []any, integral numbers as int64 and other
//     numbers as float64.
//
//   - Encode / Decode: pick the serializer by id and apply snappy compression
//     to payloads of at least CompressionThreshold bytes. The serializer id
//     and the compression bit are stored in the entry flags.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use.
package serializer

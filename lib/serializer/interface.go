package serializer

// ID identifies a serializer. The numbering follows the memcached
// SERIALIZER_* constants so the serializer option accepts the same values.
type ID int

const (
	IDGob  ID = 1 // Go gob encoding (default, exact type round-trip)
	IDJSON ID = 3 // JSON encoding
)

// ISerializer converts cache values to bytes and back.
type ISerializer interface {
	// Serialize encodes a value. It returns an error if the value cannot be encoded.
	Serialize(v any) ([]byte, error)
	// Deserialize decodes bytes produced by Serialize of the same implementation.
	Deserialize(b []byte) (any, error)
}

// ByID returns the serializer registered for id.
func ByID(id ID) (ISerializer, bool) {
	switch id {
	case IDGob:
		return NewGOBSerializer(), true
	case IDJSON:
		return NewJSONSerializer(), true
	}
	return nil, false
}

// Known reports whether id names a serializer.
func Known(id int) bool {
	_, ok := ByID(ID(id))
	return ok
}

// ParseName maps a serializer name ("gob", "json") to its id.
func ParseName(name string) (ID, bool) {
	switch name {
	case "gob":
		return IDGob, true
	case "json":
		return IDJSON, true
	}
	return 0, false
}

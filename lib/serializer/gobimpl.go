package serializer

import (
	"bytes"
	"encoding/gob"
	"reflect"
)

func init() {
	// composite types that commonly appear inside interface values
	Register([]any{})
	Register(map[string]any{})
	Register(map[string]string{})
	Register(map[string]int{})
	Register(map[string]int64{})
	Register(map[string]float64{})
}

// Register makes a concrete type known to the gob serializer. Serialize
// registers the types it encounters itself, Register is only needed to fix
// the registered form of a type up front (e.g. *T instead of T).
func Register(value any) {
	gob.Register(value)
}

// register is Register for types seen at runtime. gob panics when the type
// or its name was registered in another form, that registration is kept.
func register(value any) {
	defer func() { _ = recover() }()
	gob.Register(value)
}

// registerAll registers the dynamic type of v and of every value held in
// interface typed elements below it.
func registerAll(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.CanInterface() {
		register(v.Interface())
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() != reflect.Interface {
			return
		}
		for i := 0; i < v.Len(); i++ {
			registerAll(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Elem().Kind() != reflect.Interface {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			registerAll(iter.Value())
		}
	}
}

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() ISerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the ISerializer interface using gob encoding
type gobSerializerImpl struct {
}

// shape records what gob cannot tell apart on its own.
type shape uint8

const (
	shapeAsIs  shape = iota
	shapeEmpty       // non-nil slice of length 0, gob decodes it as nil
	shapeNil         // nil map, gob decodes it as an empty map
)

// gobEnvelope carries the value as interface so gob records its concrete type.
type gobEnvelope struct {
	V     any
	Shape shape
}

func shapeOf(v any) shape {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if !rv.IsNil() && rv.Len() == 0 {
			return shapeEmpty
		}
	case reflect.Map:
		if rv.IsNil() {
			return shapeNil
		}
	}
	return shapeAsIs
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(v any) ([]byte, error) {
	registerAll(reflect.ValueOf(v))

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(gobEnvelope{V: v, Shape: shapeOf(v)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte) (any, error) {
	var env gobEnvelope
	dec := gob.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&env); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(env.V)
	switch {
	case env.Shape == shapeEmpty && rv.Kind() == reflect.Slice:
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface(), nil
	case env.Shape == shapeNil && rv.Kind() == reflect.Map:
		return reflect.Zero(rv.Type()).Interface(), nil
	}
	return env.V, nil
}

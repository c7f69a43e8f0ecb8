package binn

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
	"unicode/utf8"
)

// UserValue is the native form of user-defined values. Bits holds the payload
// of fixed-width storage classes, Data the payload of text and blob ones.
type UserValue struct {
	Type Type
	Bits uint64
	Data []byte
}

var (
	valueType       = reflect.TypeFor[Value]()
	listType        = reflect.TypeFor[List]()
	mapType         = reflect.TypeFor[Map]()
	objectType      = reflect.TypeFor[Object]()
	userValueType   = reflect.TypeFor[UserValue]()
	timeType        = reflect.TypeFor[time.Time]()
	jsonNumberType  = reflect.TypeFor[json.Number]()
	errUnsupportedT = fmt.Errorf("%w: unsupported Go type", ErrInvalidType)
)

// Native converts v into plain Go data: nil, bool, sized integers and floats,
// string for all text kinds, []byte for blobs, []any for lists,
// map[int32]any for maps, map[string]any for objects and UserValue for user
// kinds. When a map or object has duplicate keys, the first one wins.
// Returned byte slices are copies.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindTrue:
		return true
	case KindFalse:
		return false
	case KindUint8:
		return uint8(v.bits)
	case KindInt8:
		return int8(uint8(v.bits))
	case KindUint16:
		return uint16(v.bits)
	case KindInt16:
		return int16(uint16(v.bits))
	case KindUint32:
		return uint32(v.bits)
	case KindInt32:
		return int32(uint32(v.bits))
	case KindFloat32:
		return math.Float32frombits(uint32(v.bits))
	case KindUint64:
		return v.bits
	case KindInt64:
		return int64(v.bits)
	case KindFloat64:
		return math.Float64frombits(v.bits)
	case KindText, KindDateTime, KindDate, KindTime, KindDecimalStr:
		return string(v.data)
	case KindBlob:
		return bytes.Clone(v.data)
	case KindList:
		out := make([]any, 0, v.c.Count())
		for e := range v.c.Values() {
			out = append(out, e.Native())
		}
		return out
	case KindMap:
		out := make(map[int32]any, v.c.Count())
		for k, e := range v.c.All() {
			if _, dup := out[k.num]; !dup {
				out[k.num] = e.Native()
			}
		}
		return out
	case KindObject:
		out := make(map[string]any, v.c.Count())
		for k, e := range v.c.All() {
			if _, dup := out[k.str]; !dup {
				out[k.str] = e.Native()
			}
		}
		return out
	default:
		return UserValue{Type: v.Type(), Bits: v.bits, Data: bytes.Clone(v.data)}
	}
}

// Build writes Go data into buf as a binn value and returns it. Slices and
// arrays become lists, string-keyed maps become objects, integer-keyed maps
// become maps, map[any]any picks by its keys. Map keys are written in sorted
// order. time.Time becomes an RFC 3339 DateTime, []byte a Blob, and scalars
// the matching sized kind. Value, List, Map, Object and UserValue are
// written as is.
//
// If buf is too small, the returned *SmallBufferError reports the deficit of
// the append that failed; a retry may need more.
func Build(buf []byte, x any) (Value, error) {
	rv := indirect(reflect.ValueOf(x))
	kk, ok, err := containerKeys(rv)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		v, err := scalarOf(rv)
		if err != nil {
			return Value{}, err
		}
		n, err := v.Encode(buf)
		if err != nil {
			return Value{}, err
		}
		return Deserialize(buf[:n])
	}
	c, err := NewContainer(buf, kk)
	if err != nil {
		return Value{}, err
	}
	if err := fill(c, rv); err != nil {
		return Value{}, err
	}
	return c.Value(), nil
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// containerKeys reports whether rv should be written as a container, and
// with which keys.
func containerKeys(rv reflect.Value) (KeyKind, bool, error) {
	if !rv.IsValid() {
		return 0, false, nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return 0, false, nil
		}
		return KeyNone, true, nil
	case reflect.Map:
		switch kt := rv.Type().Key(); {
		case kt.Kind() == reflect.String:
			return KeyString, true, nil
		case isIntKind(kt.Kind()):
			return KeyInt, true, nil
		case kt.Kind() == reflect.Interface:
			return inspectKeys(rv)
		default:
			return 0, false, fmt.Errorf("%w: map key %v", errUnsupportedT, kt)
		}
	default:
		return 0, false, nil
	}
}

// inspectKeys decides between object and map for interface-keyed maps.
// Empty maps become objects.
func inspectKeys(rv reflect.Value) (KeyKind, bool, error) {
	kk := KeyString
	for i, k := range rv.MapKeys() {
		var cur KeyKind
		switch k = indirect(k); {
		case k.IsValid() && k.Kind() == reflect.String:
			cur = KeyString
		case k.IsValid() && isIntKind(k.Kind()):
			cur = KeyInt
		default:
			return 0, false, fmt.Errorf("%w: map key %v", errUnsupportedT, k)
		}
		if i == 0 {
			kk = cur
		} else if cur != kk {
			return 0, false, fmt.Errorf("%w: map mixes string and integer keys", errUnsupportedT)
		}
	}
	return kk, true, nil
}

func isIntKind(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Int64) || (k >= reflect.Uint && k <= reflect.Uintptr)
}

func fill(c Container, rv reflect.Value) error {
	if rv.Kind() != reflect.Map {
		for i := range rv.Len() {
			if err := addNative(c, NoKey(), rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}

	type entry struct {
		key Key
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := indirect(iter.Key())
		var key Key
		if c.keys == KeyString {
			key = StringKey(k.String())
			if len(key.str) > MaxKeyLen {
				return ErrLongKey
			}
			if !utf8.ValidString(key.str) {
				return fmt.Errorf("%w: invalid UTF-8 key", ErrInvalidData)
			}
		} else {
			n, err := intKey(k)
			if err != nil {
				return err
			}
			key = IntKey(n)
		}
		entries = append(entries, entry{key, iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.key.num, b.key.num); c != 0 {
			return c
		}
		return cmp.Compare(a.key.str, b.key.str)
	})
	for _, e := range entries {
		if err := addNative(c, e.key, e.val); err != nil {
			return err
		}
	}
	return nil
}

func intKey(k reflect.Value) (int32, error) {
	if k.CanInt() {
		n := k.Int()
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, &OutOfRangeError{Min: math.MinInt32, Max: math.MaxInt32, Value: n}
		}
		return int32(n), nil
	}
	n := k.Uint()
	if n > math.MaxInt32 {
		return 0, &OutOfRangeError{Min: math.MinInt32, Max: math.MaxInt32, Value: int64(min(n, math.MaxInt64))}
	}
	return int32(n), nil
}

func addNative(c Container, key Key, rv reflect.Value) error {
	rv = indirect(rv)
	kk, ok, err := containerKeys(rv)
	if err != nil {
		return err
	}
	if ok {
		v, err := c.Add(key, EmptyContainer(kk).Value())
		if err != nil {
			return err
		}
		return fill(v.c, rv)
	}
	v, err := scalarOf(rv)
	if err != nil {
		return err
	}
	_, err = c.Add(key, v)
	return err
}

func scalarOf(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}
	switch rv.Type() {
	case valueType:
		return rv.Interface().(Value), nil
	case listType:
		return rv.Interface().(List).Value(), nil
	case mapType:
		return rv.Interface().(Map).Value(), nil
	case objectType:
		return rv.Interface().(Object).Value(), nil
	case userValueType:
		u := rv.Interface().(UserValue)
		return User(u.Type, u.Bits, u.Data)
	case timeType:
		return DateTime(rv.Interface().(time.Time).Format(time.RFC3339Nano)), nil
	case jsonNumberType:
		num := rv.Interface().(json.Number)
		if n, err := num.Int64(); err == nil {
			return Int64(n), nil
		}
		f, err := num.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return Float64(f), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int8:
		return Int8(int8(rv.Int())), nil
	case reflect.Int16:
		return Int16(int16(rv.Int())), nil
	case reflect.Int32:
		return Int32(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return Int64(rv.Int()), nil
	case reflect.Uint8:
		return Uint8(uint8(rv.Uint())), nil
	case reflect.Uint16:
		return Uint16(uint16(rv.Uint())), nil
	case reflect.Uint32:
		return Uint32(uint32(rv.Uint())), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return Uint64(rv.Uint()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	case reflect.String:
		s := rv.String()
		if !utf8.ValidString(s) {
			return Value{}, fmt.Errorf("%w: invalid UTF-8 text", ErrInvalidData)
		}
		return Text(s), nil
	case reflect.Slice:
		return Blob(rv.Bytes()), nil
	case reflect.Array:
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return Blob(b), nil
	default:
		return Value{}, fmt.Errorf("%w: %v", errUnsupportedT, rv.Type())
	}
}

package binn

import (
	"errors"
	"testing"
	"time"
)

func TestBuild_WorkedExample(t *testing.T) {
	buf := make([]byte, 17)
	v, err := Build(buf, map[string]any{"key2": uint16(6262), "key1": false})
	ok(t, err)
	eq(t, v.Kind(), KindObject)
	hexEq(t, buf, workedExample)
}

func TestBuild_SmallBuffer(t *testing.T) {
	_, err := Build(make([]byte, 10), map[string]any{"key1": false, "key2": uint16(6262)})
	requiredExtra(t, err, 7)

	_, err = Build(make([]byte, 1), "hi")
	requiredExtra(t, err, 4)
}

func TestBuild_Scalars(t *testing.T) {
	buf := make([]byte, 64)
	tests := []struct {
		in   any
		kind Kind
	}{
		{nil, KindNull},
		{true, KindTrue},
		{int8(-1), KindInt8},
		{int16(-1), KindInt16},
		{int32(-1), KindInt32},
		{-1, KindInt64},
		{uint8(1), KindUint8},
		{uint16(1), KindUint16},
		{uint32(1), KindUint32},
		{uint(1), KindUint64},
		{float32(1), KindFloat32},
		{1.5, KindFloat64},
		{"s", KindText},
		{[]byte{1}, KindBlob},
		{[2]byte{1, 2}, KindBlob},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), KindDateTime},
		{UserWord(9, 1), KindUserWord},
		{UserValue{Type: Type{StorageBlob, 44}, Data: []byte{1}}, KindUserBlob},
		{(*int)(nil), KindNull},
	}
	for _, tt := range tests {
		v, err := Build(buf, tt.in)
		ok(t, err)
		eq(t, v.Kind(), tt.kind)
	}

	v := must(Build(buf, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	s, _ := v.Str()
	eq(t, s, "2024-01-02T03:04:05Z")
}

func TestBuild_Containers(t *testing.T) {
	buf := make([]byte, 256)
	in := map[string]any{
		"list": []any{int64(1), "x", []byte{1}, nil, true, 1.5},
		"map":  map[int32]any{2: uint8(2), -1: "neg"},
		"obj":  map[string]string{"a": "b"},
		"ints": []int16{1, 2},
	}
	v, err := Build(buf, in)
	ok(t, err)

	deepEqual(t, v.Native(), any(map[string]any{
		"list": []any{int64(1), "x", []byte{1}, nil, true, 1.5},
		"map":  map[int32]any{2: uint8(2), -1: "neg"},
		"obj":  map[string]any{"a": "b"},
		"ints": []any{int16(1), int16(2)},
	}))

	obj, _ := v.Object()
	m, _ := must2(obj.Get("map")).Map()
	var keys []int32
	for k := range m.All() {
		keys = append(keys, k)
	}
	deepEqual(t, keys, []int32{-1, 2})
}

func TestBuild_InterfaceKeys(t *testing.T) {
	buf := make([]byte, 64)
	v, err := Build(buf, map[any]any{int8(1): "a", uint64(2): "b"})
	ok(t, err)
	eq(t, v.Kind(), KindMap)

	v, err = Build(buf, map[any]any{"a": 1})
	ok(t, err)
	eq(t, v.Kind(), KindObject)

	v, err = Build(buf, map[any]any{})
	ok(t, err)
	eq(t, v.Kind(), KindObject)

	_, err = Build(buf, map[any]any{"a": 1, 2: 3})
	isErr(t, err, ErrInvalidType)

	_, err = Build(buf, map[int64]any{1 << 40: 1})
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("err = %v, wanted *OutOfRangeError", err)
	}
}

func TestBuild_Unsupported(t *testing.T) {
	buf := make([]byte, 64)
	_, err := Build(buf, struct{ A int }{1})
	isErr(t, err, ErrInvalidType)

	_, err = Build(buf, []any{make(chan int)})
	isErr(t, err, ErrInvalidType)

	_, err = Build(buf, "\xFF")
	isErr(t, err, ErrInvalidData)
}

func TestNative_FirstDuplicateWins(t *testing.T) {
	obj := must(NewObject(make([]byte, 64)))
	must(obj.Add("a", Uint8(1)))
	must(obj.Add("a", Uint8(2)))
	deepEqual(t, obj.Value().Native(), any(map[string]any{"a": uint8(1)}))

	m := must(NewMap(make([]byte, 64)))
	must(m.Add(5, Null()))
	must(m.Add(5, Bool(true)))
	deepEqual(t, m.Value().Native(), any(map[int32]any{5: nil}))
}

func TestNative_UserValue(t *testing.T) {
	u := UserText(77, "abc").Native()
	deepEqual(t, u, any(UserValue{Type: Type{StorageString, 77}, Data: []byte("abc")}))
}

func must2[T any](v T, found bool) T {
	if !found {
		panic("not found")
	}
	return v
}

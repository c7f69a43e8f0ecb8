package binn

import (
	"testing"

	"github.com/andreyvit/binn/internal/binntest"
)

var (
	fixturePrimitives = []Value{
		Null(), Bool(true), Bool(false),
		Uint8(62), Int8(61),
		Uint16(6262), Int16(6161),
		Uint32(62626262), Int32(61616161), Float32(0.6262),
		Uint64(6262626262626262), Int64(6161616161616161), Float64(0.6161),
		Text("Text"), DateTime("DateTime"), Date("Date"), Time("Time"), DecimalStr("Decimal"),
		Blob([]byte{0x62, 0x61, 0x62, 0x61}),
	}
	fixtureUserTypes = []Value{
		UserEmpty(5), UserEmpty(20),
		UserByte(6, 62), UserByte(40, 61),
		UserWord(7, 6262), UserWord(80, 6161),
		UserDWord(8, 62626262), UserDWord(160, 61616161),
		UserQWord(9, 6262626262626262), UserQWord(320, 6161616161616161),
		UserText(10, "Text"), UserText(645, "Date"),
		UserBlob(15, []byte{0x62, 0x61, 0x62, 0x61}), UserBlob(4095, []byte{0x61, 0x62, 0x61, 0x62}),
	}
	fixtureChildren = []string{
		"[null, uint8(62), int8(61)]",
		"{-257978445: null, 257978445: uint8(62), 42: int8(61)}",
		`{"v_null": null, "n_u8": uint8(62), "n_i8": int8(61)}`,
	}

	fixtureMapPrimitiveKeys = []int32{1, 10, 20, 30, 40, 50, 100, 150, 200, 500, 1_000, 10_000, 100_000, 200_000, 5_000_000, 10_000_000, 50_000_000, 1_000_000_000, 2_000_000_000}
	fixtureMapUserKeys      = []int32{10, -10, 20, -20, 287, -287, 1234, -1234, 5654, -5654, 2756423, -2756423, 2147483647, -2147483648}
	fixtureMapChildKeys     = []int32{10, 20, 30}

	fixtureObjPrimitiveKeys = []string{"v_null", "v_true", "v_false", "n_u8", "n_i8", "n_u16", "n_i16", "n_u32", "n_i32", "n_f32", "n_u64", "n_i64", "n_f64", "s_text", "s_datetime", "s_date", "s_time", "s_decimal", "b_blob"}
	fixtureObjUserKeys      = []string{"empty1", "empty2", "byte1", "byte2", "word1", "word2", "dword1", "dword2", "qword1", "qword2", "text1", "text2", "blob1", "blob2"}
	fixtureObjChildKeys     = []string{"list", "map", "obj"}
)

// fillChildren appends a list, a map and an object through add, in that
// order, and fills each with three elements.
func fillChildren(t testing.TB, addList func() (List, error), addMap func() (Map, error), addObject func() (Object, error)) {
	t.Helper()
	l := must(addList())
	must(l.Add(Null()))
	must(l.Add(Uint8(62)))
	must(l.Add(Int8(61)))

	m := must(addMap())
	must(m.Add(-257978445, Null()))
	must(m.Add(257978445, Uint8(62)))
	must(m.Add(42, Int8(61)))

	o := must(addObject())
	must(o.Add("v_null", Null()))
	must(o.Add("n_u8", Uint8(62)))
	must(o.Add("n_i8", Int8(61)))
}

func TestFixtures_BuildList(t *testing.T) {
	for _, tt := range []struct {
		name   string
		values []Value
	}{
		{"list/primitives", fixturePrimitives},
		{"list/user_types", fixtureUserTypes},
	} {
		t.Run(tt.name, func(t *testing.T) {
			l := must(NewList(make([]byte, 512)))
			for _, v := range tt.values {
				must(l.Add(v))
			}
			eq(t, string(l.Bytes()), string(binntest.ReadEncodedFile(t, tt.name)))
		})
	}
	t.Run("list/containers", func(t *testing.T) {
		l := must(NewList(make([]byte, 512)))
		fillChildren(t, l.AddList, l.AddMap, l.AddObject)
		eq(t, string(l.Bytes()), string(binntest.ReadEncodedFile(t, "list/containers")))
	})
}

func TestFixtures_BuildMap(t *testing.T) {
	for _, tt := range []struct {
		name   string
		keys   []int32
		values []Value
	}{
		{"map/primitives", fixtureMapPrimitiveKeys, fixturePrimitives},
		{"map/user_types", fixtureMapUserKeys, fixtureUserTypes},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := must(NewMap(make([]byte, 512)))
			for i, v := range tt.values {
				must(m.Add(tt.keys[i], v))
			}
			eq(t, string(m.Bytes()), string(binntest.ReadEncodedFile(t, tt.name)))
		})
	}
	t.Run("map/containers", func(t *testing.T) {
		m := must(NewMap(make([]byte, 512)))
		k := fixtureMapChildKeys
		fillChildren(t,
			func() (List, error) { return m.AddList(k[0]) },
			func() (Map, error) { return m.AddMap(k[1]) },
			func() (Object, error) { return m.AddObject(k[2]) })
		eq(t, string(m.Bytes()), string(binntest.ReadEncodedFile(t, "map/containers")))
	})
}

func TestFixtures_BuildObject(t *testing.T) {
	for _, tt := range []struct {
		name   string
		keys   []string
		values []Value
	}{
		{"obj/primitives", fixtureObjPrimitiveKeys, fixturePrimitives},
		{"obj/user_types", fixtureObjUserKeys, fixtureUserTypes},
	} {
		t.Run(tt.name, func(t *testing.T) {
			o := must(NewObject(make([]byte, 512)))
			for i, v := range tt.values {
				must(o.Add(tt.keys[i], v))
			}
			eq(t, string(o.Bytes()), string(binntest.ReadEncodedFile(t, tt.name)))
		})
	}
	t.Run("obj/containers", func(t *testing.T) {
		o := must(NewObject(make([]byte, 512)))
		k := fixtureObjChildKeys
		fillChildren(t,
			func() (List, error) { return o.AddList(k[0]) },
			func() (Map, error) { return o.AddMap(k[1]) },
			func() (Object, error) { return o.AddObject(k[2]) })
		eq(t, string(o.Bytes()), string(binntest.ReadEncodedFile(t, "obj/containers")))
	})
}

func TestFixtures_LoadList(t *testing.T) {
	for _, tt := range []struct {
		name   string
		values []Value
	}{
		{"list/primitives", fixturePrimitives},
		{"list/user_types", fixtureUserTypes},
	} {
		t.Run(tt.name, func(t *testing.T) {
			l := must(LoadList(binntest.ReadEncodedFile(t, tt.name)))
			eq(t, l.Count(), len(tt.values))
			for i, v := range l.All() {
				if !v.Equal(tt.values[i]) {
					t.Errorf("** [%d] = %v, wanted %v", i, v, tt.values[i])
				}
			}
		})
	}
	t.Run("list/containers", func(t *testing.T) {
		l := must(LoadList(binntest.ReadEncodedFile(t, "list/containers")))
		eq(t, l.Count(), 3)
		for i, v := range l.All() {
			eq(t, Dump(v), fixtureChildren[i])
		}
	})
}

func TestFixtures_LoadMap(t *testing.T) {
	for _, tt := range []struct {
		name   string
		keys   []int32
		values []Value
	}{
		{"map/primitives", fixtureMapPrimitiveKeys, fixturePrimitives},
		{"map/user_types", fixtureMapUserKeys, fixtureUserTypes},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := must(LoadMap(binntest.ReadEncodedFile(t, tt.name)))
			eq(t, m.Count(), len(tt.values))
			for i, key := range tt.keys {
				v, found := m.Get(key)
				if !found || !v.Equal(tt.values[i]) {
					t.Errorf("** [%d] = %v (found=%v), wanted %v", key, v, found, tt.values[i])
				}
			}
		})
	}
	t.Run("map/containers", func(t *testing.T) {
		m := must(LoadMap(binntest.ReadEncodedFile(t, "map/containers")))
		for i, key := range fixtureMapChildKeys {
			eq(t, Dump(must2(m.Get(key))), fixtureChildren[i])
		}
	})
}

func TestFixtures_LoadObject(t *testing.T) {
	for _, tt := range []struct {
		name   string
		keys   []string
		values []Value
	}{
		{"obj/primitives", fixtureObjPrimitiveKeys, fixturePrimitives},
		{"obj/user_types", fixtureObjUserKeys, fixtureUserTypes},
	} {
		t.Run(tt.name, func(t *testing.T) {
			o := must(LoadObject(binntest.ReadEncodedFile(t, tt.name)))
			eq(t, o.Count(), len(tt.values))
			for i, key := range tt.keys {
				v, found := o.Get(key)
				if !found || !v.Equal(tt.values[i]) {
					t.Errorf("** [%q] = %v (found=%v), wanted %v", key, v, found, tt.values[i])
				}
			}
		})
	}
	t.Run("obj/containers", func(t *testing.T) {
		o := must(LoadObject(binntest.ReadEncodedFile(t, "obj/containers")))
		for i, key := range fixtureObjChildKeys {
			eq(t, Dump(must2(o.Get(key))), fixtureChildren[i])
		}
	})
}

func TestFixtures_GetItems(t *testing.T) {
	l := must(NewList(make([]byte, 512)))
	must(l.Add(Null()))
	must(l.Add(Uint16(6262)))
	eq(t, must2(l.Get(0)).Kind(), KindNull)
	eq(t, must2(must2(l.Get(1)).Uint16()), 6262)
	_, found := l.Get(2)
	eq(t, found, false)

	m := must(NewMap(make([]byte, 512)))
	must(m.Add(1, Null()))
	must(m.Add(50, Uint16(6262)))
	eq(t, must2(m.Get(1)).Kind(), KindNull)
	eq(t, must2(must2(m.Get(50)).Uint16()), 6262)
	_, found = m.Get(10)
	eq(t, found, false)

	o := must(NewObject(make([]byte, 512)))
	must(o.Add("v_null", Null()))
	must(o.Add("n_u16", Uint16(6262)))
	eq(t, must2(o.Get("v_null")).Kind(), KindNull)
	eq(t, must2(must2(o.Get("n_u16")).Uint16()), 6262)
	_, found = o.Get("something")
	eq(t, found, false)
}

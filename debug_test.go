package binn

import "testing"

func TestDump(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Int64(-5), "-5"},
		{Int8(-5), "int8(-5)"},
		{Uint32(7), "uint32(7)"},
		{Float32(1.5), "float(1.5)"},
		{Float64(2.25), "2.25"},
		{Text("a\"b"), `"a\"b"`},
		{Date("2024-01-01"), `date("2024-01-01")`},
		{Blob([]byte{1, 0xAB}), "blob(01ab)"},
		{UserWord(7, 0x1234), "user<word:7>(0x1234)"},
		{UserEmpty(5), "user<empty:5>"},
		{UserText(300, "t"), `user<string:300>("t")`},
		{EmptyList().Value(), "[]"},
		{must(LoadMap(x("E1 0E 02 00000001 20 05 FFFFFFFF 00"))).Value(), "{1: uint8(5), -1: null}"},
		{must(Build(make([]byte, 32), map[string]any{"key1": false, "key2": uint16(6262)})), `{"key1": false, "key2": uint16(6262)}`},
	}
	for _, tt := range tests {
		eq(t, Dump(tt.v), tt.want)
	}
}

func TestDumpWith_Indent(t *testing.T) {
	v := must(Build(make([]byte, 64), map[string]any{"a": []any{true}, "b": nil}))
	want := "{\n  \"a\": [\n    true\n  ],\n  \"b\": null\n}"
	eq(t, DumpWith(v, DumpIndent), want)
	eq(t, DumpWith(EmptyObject().Value(), DumpAll), "<3 bytes>{}")
}

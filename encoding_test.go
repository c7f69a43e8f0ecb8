package binn

import (
	"testing"
)

func TestParseEncoding(t *testing.T) {
	for _, enc := range []Encoding{Binn, MsgPack, JSON, CBOR, YAML} {
		got, err := ParseEncoding(enc.String())
		ok(t, err)
		eq(t, got, enc)
	}
	got, err := ParseEncoding("JSON")
	ok(t, err)
	eq(t, got, JSON)

	_, err = ParseEncoding("xml")
	if err == nil {
		t.Fatalf("ParseEncoding(xml) succeeded")
	}
}

func sampleDoc(t testing.TB) Value {
	return must(Build(make([]byte, 256), map[string]any{
		"n": int64(1),
		"s": "x",
		"f": 1.5,
		"b": true,
		"z": nil,
		"l": []any{"a", int64(-2)},
		"o": map[string]any{"k": "v"},
	}))
}

func TestEncoding_RoundTrip(t *testing.T) {
	for _, enc := range []Encoding{Binn, MsgPack, JSON, CBOR, YAML} {
		t.Run(enc.String(), func(t *testing.T) {
			doc := sampleDoc(t)
			data, err := enc.Marshal(doc)
			ok(t, err)

			v, err := enc.Unmarshal(data, make([]byte, 256))
			ok(t, err)
			obj, isObj := v.Object()
			eq(t, isObj, true)
			eq(t, obj.Count(), 7)

			n, _ := must2(obj.Get("n")).Int()
			eq(t, n, int64(1))
			s, _ := must2(obj.Get("s")).Str()
			eq(t, s, "x")
			f, _ := must2(obj.Get("f")).Float64()
			eq(t, f, 1.5)
			b, _ := must2(obj.Get("b")).Bool()
			eq(t, b, true)
			eq(t, must2(obj.Get("z")).IsNull(), true)

			l, _ := must2(obj.Get("l")).List()
			eq(t, l.Count(), 2)
			neg, _ := must2(l.Get(1)).Int()
			eq(t, neg, int64(-2))

			inner, _ := must2(obj.Get("o")).Object()
			k, _ := must2(inner.Get("k")).Str()
			eq(t, k, "v")
		})
	}
}

func TestEncoding_BinnIsIdentity(t *testing.T) {
	doc := sampleDoc(t)
	data := must(Binn.Marshal(doc))
	hexEq(t, data, hexstr(doc.c.Bytes()))

	v := must(Binn.Unmarshal(data, make([]byte, len(data))))
	eq(t, v.Equal(doc), true)
}

func TestEncoding_MalformedInput(t *testing.T) {
	for _, enc := range []Encoding{Binn, MsgPack, JSON, CBOR, YAML} {
		_, err := enc.Unmarshal([]byte{0xC1}, make([]byte, 64))
		isErr(t, err, ErrMalformed)
	}
}

func TestEncoding_JSONComments(t *testing.T) {
	v := must(JSON.Unmarshal([]byte(`{
		// comment
		"a": [1, 2,], /* block */
	}`), make([]byte, 64)))
	eq(t, Dump(v), `{"a": [1, 2]}`)
}

func TestEncoding_YAMLIntKeys(t *testing.T) {
	v := must(YAML.Unmarshal([]byte("1: x\n-2: true\n"), make([]byte, 64)))
	eq(t, Dump(v), `{-2: true, 1: "x"}`)
	eq(t, string(must(YAML.Marshal(v))), "-2: true\n1: x\n")
}

package binn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Encoding is a foreign serialization format that binn values can be
// transcoded to and from via their native Go form.
type Encoding int

const (
	Binn Encoding = iota
	MsgPack
	JSON
	CBOR
	YAML
)

var encodingNames = [...]string{
	Binn:    "binn",
	MsgPack: "msgpack",
	JSON:    "json",
	CBOR:    "cbor",
	YAML:    "yaml",
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	cborEncMode = must(cbor.CoreDetEncOptions().EncMode())
	cborDecMode = must(cbor.DecOptions{
		DefaultMapType: reflect.TypeFor[map[any]any](),
	}.DecMode())
}

// ParseEncoding accepts the names returned by Encoding.String, case
// insensitively.
func ParseEncoding(s string) (Encoding, error) {
	for i, name := range encodingNames {
		if strings.EqualFold(s, name) {
			return Encoding(i), nil
		}
	}
	return 0, fmt.Errorf("binn: unknown encoding %q", s)
}

func (enc Encoding) String() string {
	if enc >= 0 && int(enc) < len(encodingNames) {
		return encodingNames[enc]
	}
	return fmt.Sprintf("encoding(%d)", int(enc))
}

// Marshal serializes v. Foreign encodings go through Value.Native, so user
// kinds become UserValue structs and text subtypes become plain strings.
func (enc Encoding) Marshal(v Value) ([]byte, error) {
	switch enc {
	case Binn:
		return v.AppendEncoded(nil)
	case MsgPack:
		bb := bytesBuilder{}
		e := msgpack.GetEncoder()
		e.Reset(&bb)
		e.SetSortMapKeys(true)
		err := e.Encode(v.Native())
		msgpack.PutEncoder(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v as MsgPack: %w", v.kind, err)
		}
		return bb.Buf, nil
	case JSON:
		raw, err := json.Marshal(v.Native())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v as JSON: %w", v.kind, err)
		}
		return raw, nil
	case CBOR:
		raw, err := cborEncMode.Marshal(v.Native())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v as CBOR: %w", v.kind, err)
		}
		return raw, nil
	case YAML:
		raw, err := yaml.Marshal(v.Native())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v as YAML: %w", v.kind, err)
		}
		return raw, nil
	default:
		panic("unsupported encoding")
	}
}

// Unmarshal decodes data and writes the result into buf using Build. For
// the Binn encoding, data is validated and copied into buf. JSON input may
// contain comments and trailing commas.
func (enc Encoding) Unmarshal(data, buf []byte) (Value, error) {
	var x any
	switch enc {
	case Binn:
		v, err := Deserialize(data)
		if err != nil {
			return Value{}, err
		}
		n, err := v.Encode(buf)
		if err != nil {
			return Value{}, err
		}
		return Deserialize(buf[:n])
	case MsgPack:
		d := msgpack.GetDecoder()
		d.Reset(bytes.NewReader(data))
		d.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
			return d.DecodeUntypedMap()
		})
		var err error
		x, err = d.DecodeInterface()
		msgpack.PutDecoder(d)
		if err != nil {
			return Value{}, dataErrf(data, 0, ErrInvalidData, "failed to decode MsgPack: %v", err)
		}
	case JSON:
		d := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		d.UseNumber()
		if err := d.Decode(&x); err != nil {
			return Value{}, dataErrf(data, 0, ErrInvalidData, "failed to decode JSON: %v", err)
		}
	case CBOR:
		if err := cborDecMode.Unmarshal(data, &x); err != nil {
			return Value{}, dataErrf(data, 0, ErrInvalidData, "failed to decode CBOR: %v", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &x); err != nil {
			return Value{}, dataErrf(data, 0, ErrInvalidData, "failed to decode YAML: %v", err)
		}
	default:
		panic("unsupported encoding")
	}
	return Build(buf, x)
}

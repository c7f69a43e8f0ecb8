package binn

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

type DumpFlags uint64

const (
	// DumpIndent puts every container element on its own line.
	DumpIndent = DumpFlags(1 << iota)
	// DumpSizes annotates containers with their encoded length.
	DumpSizes

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)

	indentStep = "  "
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump formats v on a single line, e.g. {"key1": false, "key2": uint16(6262)}.
func Dump(v Value) string {
	return DumpWith(v, 0)
}

// DumpWith formats v using the given flags.
func DumpWith(v Value, f DumpFlags) string {
	var buf strings.Builder
	dumpValue(&buf, "", f, v)
	return buf.String()
}

func dumpValue(w *strings.Builder, indent string, f DumpFlags, v Value) {
	switch v.kind {
	case KindNull, KindTrue, KindFalse:
		w.WriteString(v.kind.String())
	case KindInt8, KindInt16, KindInt32:
		n, _ := v.Int()
		fmt.Fprintf(w, "%s(%d)", v.kind, n)
	case KindInt64:
		n, _ := v.Int64()
		w.WriteString(strconv.FormatInt(n, 10))
	case KindUint8, KindUint16, KindUint32, KindUint64:
		fmt.Fprintf(w, "%s(%d)", v.kind, v.bits)
	case KindFloat32:
		x, _ := v.Float32()
		fmt.Fprintf(w, "float(%s)", strconv.FormatFloat(float64(x), 'g', -1, 32))
	case KindFloat64:
		x, _ := v.Float64()
		w.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case KindText:
		w.WriteString(strconv.Quote(string(v.data)))
	case KindDateTime, KindDate, KindTime, KindDecimalStr:
		fmt.Fprintf(w, "%s(%s)", v.kind, strconv.Quote(string(v.data)))
	case KindBlob:
		fmt.Fprintf(w, "blob(%s)", hex.EncodeToString(v.data))
	case KindList, KindMap, KindObject:
		dumpContainer(w, indent, f, v.c)
	case KindUserEmpty:
		fmt.Fprintf(w, "user<%s>", v.Type())
	case KindUserText:
		fmt.Fprintf(w, "user<%s>(%s)", v.Type(), strconv.Quote(string(v.data)))
	case KindUserBlob:
		fmt.Fprintf(w, "user<%s>(%s)", v.Type(), hex.EncodeToString(v.data))
	case KindUserByte, KindUserWord, KindUserDWord, KindUserQWord:
		fmt.Fprintf(w, "user<%s>(%#x)", v.Type(), v.bits)
	default:
		w.WriteString("invalid")
	}
}

func dumpContainer(w *strings.Builder, indent string, f DumpFlags, c Container) {
	open, close := "{", "}"
	if c.keys == KeyNone {
		open, close = "[", "]"
	}
	if f.Contains(DumpSizes) {
		fmt.Fprintf(w, "<%d bytes>", len(c.Bytes()))
	}
	w.WriteString(open)
	inner := indent + indentStep
	first := true
	for k, v := range c.All() {
		if !first {
			w.WriteString(",")
			if !f.Contains(DumpIndent) {
				w.WriteString(" ")
			}
		}
		if f.Contains(DumpIndent) {
			w.WriteString("\n")
			w.WriteString(inner)
		}
		first = false
		if c.keys != KeyNone {
			w.WriteString(k.String())
			w.WriteString(": ")
		}
		dumpValue(w, inner, f, v)
	}
	if !first && f.Contains(DumpIndent) {
		w.WriteString("\n")
		w.WriteString(indent)
	}
	w.WriteString(close)
}

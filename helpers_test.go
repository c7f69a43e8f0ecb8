package binn

import (
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Fatalf("** got %v, wanted %v", a, e)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func ok(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatalf("** unexpected error: %v", err)
	}
}

func isErr(t testing.TB, err, target error) {
	if !errors.Is(err, target) {
		t.Helper()
		t.Fatalf("** got error %v, wanted %v", err, target)
	}
}

// x decodes hex, ignoring spaces.
func x(data string) []byte {
	data = strings.ReplaceAll(data, " ", "")
	return must(hex.DecodeString(data))
}

func hexEq(t testing.TB, a []byte, e string) {
	if want := x(e); !reflect.DeepEqual(a, want) && !(len(a) == 0 && len(want) == 0) {
		t.Helper()
		t.Fatalf("** got %x, wanted %x", a, want)
	}
}

func requiredExtra(t testing.TB, err error, e int) {
	n, found := RequiredExtra(err)
	if !found {
		t.Helper()
		t.Fatalf("** got error %v, wanted *SmallBufferError", err)
	}
	if n != e {
		t.Helper()
		t.Fatalf("** got %d bytes required, wanted %d", n, e)
	}
}

func hexstr(b []byte) string {
	return hex.EncodeToString(b)
}

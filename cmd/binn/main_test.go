//go:build unix

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runOK(t testing.TB, stdin string, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if err := run(args, strings.NewReader(stdin), &stdout, &stderr); err != nil {
		t.Fatalf("** binn %s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String()
}

func runErr(t testing.TB, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	if err == nil {
		t.Fatalf("** binn %s succeeded, wanted error", strings.Join(args, " "))
	}
	return stdout.String(), err
}

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Fatalf("** got %v, wanted %v", a, e)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.binn")
	runOK(t, `{"key2": 6262, "key1": false}`, "convert", "--from", "json", "--to", "binn", "-", doc)

	data, err := os.ReadFile(doc)
	if err != nil {
		t.Fatal(err)
	}
	eq(t, data[0], byte(0xE2))

	eq(t, runOK(t, "", "convert", "--from", "binn", "--to", "json", doc), `{"key1":false,"key2":6262}`)

	packed := runOK(t, "", "convert", "--from", "binn", "--to", "cbor", doc)
	eq(t, runOK(t, packed, "convert", "--from", "cbor", "--to", "json"), `{"key1":false,"key2":6262}`)

	packed = runOK(t, "", "convert", "--from", "binn", "--to", "msgpack", doc)
	eq(t, runOK(t, packed, "convert", "--from", "msgpack", "--to", "json"), `{"key1":false,"key2":6262}`)
}

func TestConvert_GrowsBuffer(t *testing.T) {
	input := "[" + strings.Repeat(`"abcdefghij",`, 99) + `"abcdefghij"]`
	out := runOK(t, input, "convert", "--size", "8", "--to", "json")
	eq(t, out, input)
}

func TestNewAddDump(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "doc.binn")
	runOK(t, "", "new", "--kind", "object", "--capacity", "256", doc)
	runOK(t, "false", "add", doc, "key1")
	runOK(t, "[1, 2]", "add", doc, "key2")

	eq(t, runOK(t, "", "dump", doc), "{\n  \"key1\": false,\n  \"key2\": [\n    1,\n    2\n  ]\n}\n")
	eq(t, runOK(t, "", "validate", doc), doc+": ok, object, 35 bytes\n")
}

func TestAdd_Map(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "doc.binn")
	runOK(t, "", "new", "--kind", "map", doc)
	runOK(t, `"x"`, "add", doc, "--", "-7")
	eq(t, runOK(t, "", "convert", "--from", "binn", "--to", "json", doc), `{"-7":"x"}`)

	_, err := runErr(t, "1", "add", doc, "seven")
	eq(t, errors.Is(err, errUsage), true)
}

func TestAdd_Full(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "doc.binn")
	runOK(t, "", "new", "--kind", "list", "--capacity", "3", doc)
	_, err := runErr(t, `"hello"`, "add", "--capacity", "3", doc)
	if !strings.Contains(err.Error(), "is full") {
		t.Fatalf("** got %v, wanted a full document error", err)
	}
	eq(t, runOK(t, "", "dump", doc), "[]\n")
}

func TestValidate_Invalid(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.binn")
	bad := filepath.Join(dir, "bad.binn")
	runOK(t, "", "new", "--kind", "list", good)
	if err := os.WriteFile(bad, []byte{0xE2, 0x05, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runErr(t, "", "validate", good, bad)
	eq(t, err.Error(), "1 of 2 files are invalid")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	eq(t, len(lines), 2)
	eq(t, lines[0], good+": ok, list, 3 bytes")
	eq(t, strings.HasPrefix(lines[1], bad+": "), true)
	eq(t, strings.HasSuffix(lines[1], "(3) e20501"), true)
}

func TestStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")
	runOK(t, `{"x": 1}`, "store", "--db", db, "put", "docs", "a")
	runOK(t, `[true]`, "store", "--db", db, "put", "docs", "b")

	eq(t, runOK(t, "", "store", "--db", db, "get", "--to", "json", "docs", "a"), `{"x":1}`)
	eq(t, runOK(t, "", "store", "--db", db, "ls", "docs"), "a\t{\"x\": 1}\nb\t[true]\n")
	eq(t, runOK(t, "", "store", "--db", db, "ls", "--from", "b", "docs"), "b\t[true]\n")
	eq(t, runOK(t, "", "store", "--db", db, "buckets"), "docs\t2\n")

	runOK(t, "", "store", "--db", db, "rm", "docs", "a")
	_, err := runErr(t, "", "store", "--db", db, "get", "docs", "a")
	eq(t, err.Error(), "docs/a not found")

	runOK(t, "", "store", "--db", db, "rm", "docs")
	eq(t, runOK(t, "", "store", "--db", db, "buckets"), "")
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"frobnicate"},
		{"dump"},
		{"convert", "--to", "xml"},
		{"new", "--kind", "tree", "x.binn"},
		{"store", "--db", filepath.Join(t.TempDir(), "u.db"), "frobnicate"},
	} {
		_, err := runErr(t, "", args...)
		if !errors.Is(err, errUsage) {
			t.Errorf("** binn %v: got %v, wanted usage error", args, err)
		}
	}
}

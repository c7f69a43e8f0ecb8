// Package binntest reads annotated binn test fixtures.
//
// A fixture is text where \xNN stands for one byte, any other character
// stands for itself, everything after // is a comment, and whitespace at
// either end of a line is ignored.
package binntest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// ReadEncoded decodes fixture text into bytes.
func ReadEncoded(text string) ([]byte, error) {
	var out []byte
	for i, line := range strings.Split(text, "\n") {
		if pos := strings.Index(line, "//"); pos >= 0 {
			line = line[:pos]
		}
		line = strings.TrimSpace(line)
		for line != "" {
			if !strings.HasPrefix(line, `\x`) {
				out = append(out, line[0])
				line = line[1:]
				continue
			}
			if len(line) < 4 {
				return nil, fmt.Errorf("line %d: truncated escape %q", i+1, line)
			}
			b, err := strconv.ParseUint(line[2:4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid escape %q", i+1, line[:4])
			}
			out = append(out, byte(b))
			line = line[4:]
		}
	}
	return out, nil
}

// MustReadEncoded is ReadEncoded that fails the test on error.
func MustReadEncoded(t testing.TB, text string) []byte {
	t.Helper()
	b, err := ReadEncoded(text)
	if err != nil {
		t.Fatalf("ReadEncoded: %v", err)
	}
	return b
}

// ReadEncodedFile loads testdata/<name>.binn relative to the test's package
// directory.
func ReadEncodedFile(t testing.TB, name string) []byte {
	t.Helper()
	text, err := os.ReadFile(filepath.Join("testdata", filepath.FromSlash(name)+".binn"))
	if err != nil {
		t.Fatal(err)
	}
	return MustReadEncoded(t, string(text))
}

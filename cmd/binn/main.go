// binn inspects, validates and converts binn documents, and keeps them in a
// Bolt-backed document store.
//
// Usage:
//
//	binn [-v] dump [--sizes] FILE
//	binn [-v] validate FILE...
//	binn [-v] convert [--from ENC] [--to ENC] [IN [OUT]]
//	binn [-v] new [--kind KIND] [--capacity N] FILE
//	binn [-v] add [--from ENC] [--capacity N] FILE [KEY] [IN]
//	binn [-v] store --db PATH put|get|ls|rm|buckets ...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/andreyvit/binn"
	"github.com/andreyvit/binn/binnfile"
	"github.com/andreyvit/binn/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "binn: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

type env struct {
	ctx    context.Context
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(e *env, args []string) error
}

var commands = map[string]command{
	"dump":     {"print a document in readable form", runDump},
	"validate": {"check that files hold well-formed documents", runValidate},
	"convert":  {"transcode between binn, msgpack, json, cbor and yaml", runConvert},
	"new":      {"create an empty document file", runNew},
	"add":      {"append a value to the root of a document file", runAdd},
	"store":    {"put, get and list documents in a store", runStore},
}

var commandOrder = []string{"dump", "validate", "convert", "new", "add", "store"}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var verbose bool
	flagSet := pflag.NewFlagSet("binn", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return usagef("%v", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	e := &env{
		ctx:    context.Background(),
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return usagef("missing command")
	}
	cmd, found := commands[rest[0]]
	if !found {
		return usagef("unknown command %q", rest[0])
	}
	return cmd.run(e, rest[1:])
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: binn [flags] COMMAND [args]\n\nCommands:\n")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", flagSet.FlagUsages())
}

func newFlagSet(e *env, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("binn "+name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string, minArgs, maxArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usagef("%v", err)
	}
	rest := fs.Args()
	if len(rest) < minArgs {
		return nil, usagef("%s: not enough arguments", fs.Name())
	}
	if maxArgs >= 0 && len(rest) > maxArgs {
		return nil, usagef("%s: unexpected argument %q", fs.Name(), rest[maxArgs])
	}
	return rest, nil
}

func runDump(e *env, args []string) error {
	fs := newFlagSet(e, "dump")
	sizes := fs.Bool("sizes", false, "prefix containers with their encoded size")
	rest, err := parseFlags(fs, args, 1, 1)
	if err != nil {
		return err
	}
	f, err := binnfile.Open(rest[0], binnfile.Options{Context: e.ctx, Logger: e.logger})
	if err != nil {
		return err
	}
	defer f.Close()

	flags := binn.DumpIndent
	if *sizes {
		flags |= binn.DumpSizes
	}
	_, err = fmt.Fprintln(e.stdout, binn.DumpWith(f.Value(), flags))
	return err
}

func runValidate(e *env, args []string) error {
	fs := newFlagSet(e, "validate")
	rest, err := parseFlags(fs, args, 1, -1)
	if err != nil {
		return err
	}
	var failed int
	for _, path := range rest {
		f, err := binnfile.Open(path, binnfile.Options{Context: e.ctx, Logger: e.logger})
		if err != nil {
			fmt.Fprintf(e.stdout, "%s: %v\n", path, err)
			failed++
			continue
		}
		v := f.Value()
		fmt.Fprintf(e.stdout, "%s: ok, %s, %d bytes\n", path, v.Kind(), f.Len())
		f.Close()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files are invalid", failed, len(rest))
	}
	return nil
}

func runConvert(e *env, args []string) error {
	fs := newFlagSet(e, "convert")
	from := fs.String("from", "json", "input encoding (binn, msgpack, json, cbor, yaml)")
	to := fs.String("to", "binn", "output encoding (binn, msgpack, json, cbor, yaml)")
	size := fs.Int("size", 0, "initial buffer size for the intermediate binn document")
	rest, err := parseFlags(fs, args, 0, 2)
	if err != nil {
		return err
	}
	fromEnc, err := binn.ParseEncoding(*from)
	if err != nil {
		return usagef("%v", err)
	}
	toEnc, err := binn.ParseEncoding(*to)
	if err != nil {
		return usagef("%v", err)
	}

	var in, out string
	if len(rest) > 0 {
		in = rest[0]
	}
	if len(rest) > 1 {
		out = rest[1]
	}
	data, err := readInput(e, in)
	if err != nil {
		return err
	}
	v, err := decodeValue(e, fromEnc, data, *size)
	if err != nil {
		return err
	}
	result, err := toEnc.Marshal(v)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = e.stdout.Write(result)
		return err
	}
	return os.WriteFile(out, result, 0o644)
}

func runNew(e *env, args []string) error {
	fs := newFlagSet(e, "new")
	kind := fs.String("kind", "object", "root container kind (list, map, object)")
	capacity := fs.Int("capacity", 64*1024, "bytes reserved for appends")
	rest, err := parseFlags(fs, args, 1, 1)
	if err != nil {
		return err
	}
	kk, err := parseKeyKind(*kind)
	if err != nil {
		return err
	}
	f, err := binnfile.Create(rest[0], *capacity, kk, binnfile.Options{Context: e.ctx, Logger: e.logger})
	if err != nil {
		return err
	}
	return f.Close()
}

func runAdd(e *env, args []string) error {
	fs := newFlagSet(e, "add")
	from := fs.String("from", "json", "input encoding (binn, msgpack, json, cbor, yaml)")
	capacity := fs.Int("capacity", 64*1024, "minimum mapping size")
	rest, err := parseFlags(fs, args, 1, 3)
	if err != nil {
		return err
	}
	enc, err := binn.ParseEncoding(*from)
	if err != nil {
		return usagef("%v", err)
	}
	path := rest[0]

	f, err := binnfile.OpenWritable(path, *capacity, kindOfFile(path), binnfile.Options{Context: e.ctx, Logger: e.logger})
	if err != nil {
		return err
	}
	root := f.Root()

	var key binn.Key
	var in string
	if root.KeyKind() == binn.KeyNone {
		if len(rest) > 2 {
			f.Close()
			return usagef("add: lists take no key")
		}
		if len(rest) > 1 {
			in = rest[1]
		}
	} else {
		if len(rest) < 2 {
			f.Close()
			return usagef("add: missing key")
		}
		key, err = parseKey(root.KeyKind(), rest[1])
		if err != nil {
			f.Close()
			return err
		}
		if len(rest) > 2 {
			in = rest[2]
		}
	}

	data, err := readInput(e, in)
	if err != nil {
		f.Close()
		return err
	}
	v, err := decodeValue(e, enc, data, 0)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := root.Add(key, v); err != nil {
		capacity := f.Capacity()
		f.Close()
		if n, ok := binn.RequiredExtra(err); ok {
			return fmt.Errorf("%s is full: %d more bytes needed, retry with --capacity %d", path, n, capacity+n)
		}
		return err
	}
	e.logger.LogAttrs(e.ctx, slog.LevelDebug, "added", slog.String("file", path), slog.String("key", key.String()), slog.Int("size", v.TotalSize()))
	return f.Close()
}

// kindOfFile peeks at the root tag so that OpenWritable checks against the
// right container kind.
func kindOfFile(path string) binn.KeyKind {
	f, err := os.Open(path)
	if err != nil {
		return binn.KeyString
	}
	defer f.Close()
	var tag [1]byte
	if _, err := io.ReadFull(f, tag[:]); err != nil {
		return binn.KeyString
	}
	switch tag[0] {
	case 0xE0:
		return binn.KeyNone
	case 0xE1:
		return binn.KeyInt
	default:
		return binn.KeyString
	}
}

func runStore(e *env, args []string) error {
	fs := newFlagSet(e, "store")
	fs.SetInterspersed(false)
	dbPath := fs.String("db", "binn.db", "path to the store database")
	rest, err := parseFlags(fs, args, 1, -1)
	if err != nil {
		return err
	}
	sub, args := rest[0], rest[1:]

	s, err := store.Open(*dbPath, store.Options{Context: e.ctx, Logger: e.logger, Verbose: e.logger.Enabled(e.ctx, slog.LevelDebug)})
	if err != nil {
		return err
	}
	defer s.Close()

	switch sub {
	case "put":
		fs := newFlagSet(e, "store put")
		from := fs.String("from", "json", "input encoding (binn, msgpack, json, cbor, yaml)")
		rest, err := parseFlags(fs, args, 2, 3)
		if err != nil {
			return err
		}
		enc, err := binn.ParseEncoding(*from)
		if err != nil {
			return usagef("%v", err)
		}
		var in string
		if len(rest) > 2 {
			in = rest[2]
		}
		data, err := readInput(e, in)
		if err != nil {
			return err
		}
		v, err := decodeValue(e, enc, data, 0)
		if err != nil {
			return err
		}
		return s.Update(func(tx *store.Tx) error {
			return tx.Put(rest[0], rest[1], v)
		})

	case "get":
		fs := newFlagSet(e, "store get")
		to := fs.String("to", "", "output encoding (binn, msgpack, json, cbor, yaml); readable dump if empty")
		rest, err := parseFlags(fs, args, 2, 2)
		if err != nil {
			return err
		}
		return s.View(func(tx *store.Tx) error {
			v, found, err := tx.Get(rest[0], rest[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s/%s not found", rest[0], rest[1])
			}
			return writeValue(e, v, *to)
		})

	case "ls":
		fs := newFlagSet(e, "store ls")
		from := fs.String("from", "", "start at this key")
		rest, err := parseFlags(fs, args, 1, 1)
		if err != nil {
			return err
		}
		return s.View(func(tx *store.Tx) error {
			for k, v := range tx.All(rest[0], *from) {
				if _, err := fmt.Fprintf(e.stdout, "%s\t%s\n", k, binn.Dump(v)); err != nil {
					return err
				}
			}
			return nil
		})

	case "rm":
		rest, err := parseFlags(newFlagSet(e, "store rm"), args, 1, 2)
		if err != nil {
			return err
		}
		return s.Update(func(tx *store.Tx) error {
			if len(rest) == 1 {
				return tx.DeleteBucket(rest[0])
			}
			return tx.Delete(rest[0], rest[1])
		})

	case "buckets":
		if _, err := parseFlags(newFlagSet(e, "store buckets"), args, 0, 0); err != nil {
			return err
		}
		return s.View(func(tx *store.Tx) error {
			for _, name := range tx.Buckets() {
				fmt.Fprintf(e.stdout, "%s\t%d\n", name, tx.Count(name))
			}
			return nil
		})

	default:
		return usagef("store: unknown subcommand %q", sub)
	}
}

func writeValue(e *env, v binn.Value, to string) error {
	if to == "" {
		_, err := fmt.Fprintln(e.stdout, binn.DumpWith(v, binn.DumpIndent))
		return err
	}
	enc, err := binn.ParseEncoding(to)
	if err != nil {
		return usagef("%v", err)
	}
	data, err := enc.Marshal(v)
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(data)
	return err
}

func readInput(e *env, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(path)
}

// decodeValue unmarshals data into a fresh buffer, growing it until the
// document fits.
func decodeValue(e *env, enc binn.Encoding, data []byte, size int) (binn.Value, error) {
	if size <= 0 {
		size = 2*len(data) + 64
	}
	for {
		v, err := enc.Unmarshal(data, make([]byte, size))
		n, short := binn.RequiredExtra(err)
		if !short {
			return v, err
		}
		e.logger.LogAttrs(e.ctx, slog.LevelDebug, "growing buffer", slog.Int("size", size), slog.Int("required", n))
		size += max(n, size)
		if size > binn.MaxSize {
			return binn.Value{}, binn.ErrTooLarge
		}
	}
}

func parseKeyKind(s string) (binn.KeyKind, error) {
	switch strings.ToLower(s) {
	case "list":
		return binn.KeyNone, nil
	case "map":
		return binn.KeyInt, nil
	case "object", "obj":
		return binn.KeyString, nil
	default:
		return 0, usagef("unknown container kind %q", s)
	}
}

func parseKey(kk binn.KeyKind, s string) (binn.Key, error) {
	if kk == binn.KeyString {
		return binn.StringKey(s), nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return binn.Key{}, usagef("map key %q is not a 32-bit integer", s)
	}
	return binn.IntKey(int32(n)), nil
}

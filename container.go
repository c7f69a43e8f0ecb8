package binn

import (
	"bytes"
	"iter"
)

// header is the decoded container preamble: type tag, total length and
// element count.
type header struct {
	tagSize int
	length  Size
	count   Size
}

func (h header) size() int {
	return h.tagSize + h.length.Width() + h.count.Width()
}

// emptyHeader describes the 3-byte image of a new container.
var emptyHeader = header{tagSize: 1, length: makeSize(3), count: makeSize(0)}

var emptyImages = [...][]byte{
	KeyNone:   {0xE0, 0x03, 0x00},
	KeyInt:    {0xE1, 0x03, 0x00},
	KeyString: {0xE2, 0x03, 0x00},
}

// Container is a list, map or object. It is either a read-only view over
// validated bytes, or a handle into a mutable document backed by a
// caller-provided buffer.
//
// Handles of nested mutable containers become detached once an ancestor is
// appended to: appending through them fails with ErrDetached, and reading
// through them sees an empty container. The value returned by the ancestor's
// Add still reflects the state at the time it was returned.
type Container struct {
	keys KeyKind
	raw  []byte
	hdr  header

	doc   *document
	depth int
	id    uint64
}

// EmptyContainer returns a read-only empty container with the given keys.
func EmptyContainer(kk KeyKind) Container {
	return Container{keys: kk, raw: emptyImages[kk], hdr: emptyHeader}
}

// NewContainer writes an empty container into the start of buf and opens it
// for appending. The rest of buf is spare capacity.
func NewContainer(buf []byte, kk KeyKind) (Container, error) {
	img := emptyImages[kk]
	if len(buf) < len(img) {
		return Container{}, &SmallBufferError{Required: len(img) - len(buf)}
	}
	copy(buf, img)
	return OpenContainer(buf, kk)
}

// OpenContainer validates the container at the start of buf and opens it for
// appending. Bytes after the container's length are spare capacity and will
// be overwritten.
func OpenContainer(buf []byte, kk KeyKind) (Container, error) {
	c, err := parseContainer(buf, 0, kk, true)
	if err != nil {
		return Container{}, err
	}
	doc := &document{buf: buf}
	depth, id := doc.push(0, c.hdr)
	return Container{keys: kk, doc: doc, depth: depth, id: id}, nil
}

// LoadContainer validates the container at the start of data and returns a
// read-only view. Bytes after the container's length are ignored.
func LoadContainer(data []byte, kk KeyKind) (Container, error) {
	return parseContainer(data, 0, kk, true)
}

// parseContainer decodes the container header at orig[off:]. When validate
// is set, it also walks every element (recursively) and checks that the walk
// ends exactly at the declared length after the declared number of elements.
func parseContainer(orig []byte, off int, kk KeyKind, validate bool) (Container, error) {
	d := byteDecoder{Orig: orig, Buf: orig[off:]}
	t, err := d.Type()
	if err != nil {
		return Container{}, err
	}
	if want := kk.containerType(); t != want {
		return Container{}, dataErrf(orig, off, ErrInvalidType, "expected %v, got %v", want, t)
	}
	var hdr header
	hdr.tagSize = t.Size()
	if hdr.length, err = d.Size(); err != nil {
		return Container{}, err
	}
	if hdr.count, err = d.Size(); err != nil {
		return Container{}, err
	}
	n := hdr.length.Value()
	if n < hdr.size() || n > len(orig)-off {
		return Container{}, dataErrf(orig, off, ErrInvalidData, "container length %d out of bounds (header %d, available %d)", n, hdr.size(), len(orig)-off)
	}
	c := Container{keys: kk, raw: orig[off : off+n : off+n], hdr: hdr}
	if validate {
		if err := c.validate(orig[:off+n], off); err != nil {
			return Container{}, err
		}
	}
	return c, nil
}

// validate walks the elements of c, whose image ends at the end of orig and
// starts at off.
func (c Container) validate(orig []byte, off int) error {
	cur := cursor{d: byteDecoder{Orig: orig, Buf: orig[off+c.hdr.size():]}, keys: c.keys}
	want := c.hdr.count.Value()
	found := 0
	for !cur.d.Empty() {
		if found == want {
			return dataErrf(orig, cur.d.Off(), ErrInvalidData, "container declares %d elements, but has more", want)
		}
		if _, _, err := cur.next(); err != nil {
			return err
		}
		found++
	}
	if found != want {
		return dataErrf(orig, off, ErrInvalidData, "container declares %d elements, found %d", want, found)
	}
	return nil
}

// view returns the current image and header of c. Detached handles yield
// no image, and the zero Container is an empty list.
func (c Container) view() ([]byte, header, bool) {
	if c.doc == nil {
		if c.raw == nil {
			return emptyImages[c.keys], emptyHeader, true
		}
		return c.raw, c.hdr, true
	}
	f, ok := c.doc.frame(c.depth, c.id)
	if !ok {
		return nil, header{}, false
	}
	return c.doc.buf[f.off : f.off+f.length.Value() : f.off+f.length.Value()], f.header, true
}

func (c Container) KeyKind() KeyKind { return c.keys }
func (c Container) Kind() Kind       { return containerKind(c.keys) }
func (c Container) Type() Type       { return c.keys.containerType() }

// Bytes returns the encoded container. For mutable containers the result
// aliases the backing buffer and is only valid until the next append.
func (c Container) Bytes() []byte {
	data, _, _ := c.view()
	return data
}

// Count returns the number of elements.
func (c Container) Count() int {
	_, hdr, _ := c.view()
	return hdr.count.Value()
}

// IsMutable reports whether Add can succeed on c.
func (c Container) IsMutable() bool {
	if c.doc == nil {
		return false
	}
	_, ok := c.doc.frame(c.depth, c.id)
	return ok
}

// Detached reports whether c is a mutable handle that has been invalidated
// by an append to one of its ancestors.
func (c Container) Detached() bool {
	return c.doc != nil && !c.IsMutable()
}

// ReadOnly returns a read-only view of the current contents. The view
// aliases the backing buffer of mutable containers.
func (c Container) ReadOnly() Container {
	data, hdr, _ := c.view()
	if data == nil {
		return EmptyContainer(c.keys)
	}
	return Container{keys: c.keys, raw: data, hdr: hdr}
}

// Value wraps c as a Value of the matching container kind.
func (c Container) Value() Value {
	return Value{kind: c.Kind(), c: c}
}

// Add appends an element with the given key. The key kind must match the
// container (NoKey for lists). On success it returns the appended value as
// stored; appending a container yields a new mutable handle to the copy.
//
// On failure nothing is modified. A *SmallBufferError reports how many more
// bytes the backing buffer needs.
func (c Container) Add(key Key, v Value) (Value, error) {
	if c.doc == nil {
		return Value{}, ErrReadOnly
	}
	return c.doc.add(c.depth, c.id, c.keys, key, v)
}

// Get returns the first element with the given key. Lists accept NoKey only
// and return their first element; use GetAt for positional access.
func (c Container) Get(key Key) (Value, bool) {
	if key.kind != c.keys {
		return Value{}, false
	}
	cur := c.cursor()
	for {
		k, v, err := cur.next()
		if err != nil {
			return Value{}, false
		}
		if k.matches(key) {
			return v, true
		}
	}
}

// GetAt returns the element at position pos.
func (c Container) GetAt(pos int) (Key, Value, bool) {
	if pos < 0 {
		return Key{}, Value{}, false
	}
	cur := c.cursor()
	for i := 0; ; i++ {
		k, v, err := cur.next()
		if err != nil {
			return Key{}, Value{}, false
		}
		if i == pos {
			return k.key(c.keys), v, true
		}
	}
}

// All iterates over elements in storage order. Duplicate keys are yielded
// as stored.
func (c Container) All() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		cur := c.cursor()
		for {
			k, v, err := cur.next()
			if err != nil || !yield(k.key(c.keys), v) {
				return
			}
		}
	}
}

// Values iterates over element values in storage order.
func (c Container) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		cur := c.cursor()
		for {
			_, v, err := cur.next()
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Equal reports whether both containers have the same kind, element count
// and bytes.
func (c Container) Equal(o Container) bool {
	da, ha, _ := c.view()
	db, hb, _ := o.view()
	return c.keys == o.keys && ha.count.Value() == hb.count.Value() && bytes.Equal(da, db)
}

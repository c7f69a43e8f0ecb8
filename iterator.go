package binn

import "io"

// cursor walks the elements of a container image in storage order.
type cursor struct {
	d    byteDecoder
	keys KeyKind
}

func (c Container) cursor() cursor {
	data, hdr, ok := c.view()
	if !ok {
		return cursor{keys: c.keys}
	}
	return cursor{d: byteDecoder{Orig: data, Buf: data[hdr.size():], Trusted: true}, keys: c.keys}
}

// next decodes the next element. It returns io.EOF at the declared end of
// the container.
func (cur *cursor) next() (rawKey, Value, error) {
	if cur.d.Empty() {
		return rawKey{}, Value{}, io.EOF
	}
	k, err := cur.d.Key(cur.keys)
	if err != nil {
		return rawKey{}, Value{}, err
	}
	v, err := cur.d.Value()
	if err != nil {
		return rawKey{}, Value{}, err
	}
	return k, v, nil
}

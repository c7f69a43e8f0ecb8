package binn

import (
	"fmt"
	"unicode/utf8"
)

// document is the mutable state shared by all handles into one buffer.
//
// frames is the chain of open containers from the root (index 0) down to the
// most recently appended nested container. Every open frame ends at the end
// of the root's image, so appending to the frame at depth k writes at the
// root's end and only has to fix up the headers of frames 0..k. Frames deeper
// than k stop being tail containers at that point and are dropped; their
// handles become detached.
type document struct {
	buf    []byte
	frames []frame
	lastID uint64

	plan []growth
}

type frame struct {
	off int
	header
	id uint64
}

// growth is the new header of one frame during an append. shift is the number
// of bytes the header widens by.
type growth struct {
	length Size
	count  Size
	shift  int
}

func (doc *document) push(off int, hdr header) (int, uint64) {
	doc.lastID++
	doc.frames = append(doc.frames, frame{off: off, header: hdr, id: doc.lastID})
	return len(doc.frames) - 1, doc.lastID
}

func (doc *document) frame(depth int, id uint64) (*frame, bool) {
	if depth >= len(doc.frames) || doc.frames[depth].id != id {
		return nil, false
	}
	return &doc.frames[depth], true
}

// end returns the offset just past the root container.
func (doc *document) end() int {
	root := &doc.frames[0]
	return root.off + root.length.Value()
}

func (doc *document) add(depth int, id uint64, kk KeyKind, key Key, v Value) (Value, error) {
	if _, ok := doc.frame(depth, id); !ok {
		return Value{}, ErrDetached
	}
	if key.kind != kk {
		return Value{}, ErrKeyKind
	}
	if key.kind == KeyString && len(key.str) > MaxKeyLen {
		return Value{}, ErrLongKey
	}
	if key.kind == KeyString && !utf8.ValidString(key.str) {
		return Value{}, fmt.Errorf("%w: invalid UTF-8 key", ErrInvalidData)
	}
	if err := v.checkEncodable(); err != nil {
		return Value{}, err
	}

	// The source image is captured before any frames are dropped, since v may
	// be a handle to one of the frames this append detaches.
	var image []byte
	var imageHdr header
	if v.kind.IsContainer() {
		image, imageHdr, _ = v.c.view()
	}
	valSize := v.TotalSize()

	// Plan the header updates from the target up to the root. Each level
	// grows by the growth of its child plus its own header widening.
	if cap(doc.plan) < depth+1 {
		doc.plan = make([]growth, depth+1)
	}
	plan := doc.plan[:depth+1]
	delta := key.EncodedSize() + valSize
	for i := depth; i >= 0; i-- {
		f := &doc.frames[i]
		g := growth{count: f.count}
		if i == depth {
			n := f.count.Value() + 1
			if n > MaxSize {
				return Value{}, ErrTooLarge
			}
			g.count = f.count.withValue(n)
			g.shift = g.count.Width() - f.count.Width()
		}
		n := f.length.Value() + delta + g.shift
		if f.length.promotes(n) {
			g.shift += promotionShift
			n += promotionShift
		}
		if n > MaxSize {
			return Value{}, ErrTooLarge
		}
		g.length = f.length.withValue(n)
		plan[i] = g
		delta = n - f.length.Value()
	}

	end := doc.end()
	if free := len(doc.buf) - end; delta > free {
		return Value{}, &SmallBufferError{Required: delta - free}
	}

	doc.frames = doc.frames[:depth+1]

	b := byteBuf{Buf: doc.buf, Off: end}
	b.Off += key.put(doc.buf[b.Off:])
	b.Off += v.put(doc.buf[b.Off:], image)
	end = b.Off

	for i := depth; i >= 0; i-- {
		f := &doc.frames[i]
		g := plan[i]
		if g.shift > 0 {
			body := f.off + f.size()
			copy(doc.buf[body+g.shift:end+g.shift], doc.buf[body:end])
			end += g.shift
			for j := i + 1; j <= depth; j++ {
				doc.frames[j].off += g.shift
			}
		}
		f.length, f.count = g.length, g.count
		hb := byteBuf{Buf: doc.buf, Off: f.off + f.tagSize}
		hb.AppendSize(f.length)
		hb.AppendSize(f.count)
	}

	start := end - valSize
	if v.kind.IsContainer() {
		d, id := doc.push(start, imageHdr)
		return Value{kind: v.kind, c: Container{keys: v.c.keys, doc: doc, depth: d, id: id}}, nil
	}
	dec := byteDecoder{Orig: doc.buf[:end], Buf: doc.buf[start:end], Trusted: true}
	return dec.Value()
}

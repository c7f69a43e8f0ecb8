/*
Package binn reads and writes the binn binary format in place.

A binn value is a type tag followed by its payload. Containers (lists, maps
and objects) hold a length, an element count and the elements themselves,
so any container can be walked without decoding its siblings.

We implement:

1. Read-only views. LoadList, LoadMap, LoadObject and Deserialize validate
the input once and then hand out values that reference the input bytes
without copying.

2. In-place construction. NewList, NewMap and NewObject write an empty
container into a caller-provided buffer; Add appends to it without
allocating. When the buffer runs out, Add fails with a *SmallBufferError
telling how many bytes are missing, and the document is left untouched.

3. Conversion from and to plain Go data (Value.Native, Build), and
transcoding to MessagePack, JSON, CBOR and YAML (Encoding).

# Technical Details

**Type tags.**
The top 3 bits of the first byte are the storage class, which determines
how the payload is sized. The low 4 bits are the subtype; bit 4 extends the
subtype to 12 bits using a second byte.

**Sizes.**
Lengths and counts take 1 byte up to 127 and 4 bytes (top bit set) above.
Appending can push a compact length or count over 127; the field then
widens by 3 bytes and everything after it moves forward. The same may
happen to every enclosing container, up to the root.

**Open containers.**
A mutable document tracks the chain of containers that end at the end of
the document: the root, the last container appended to it, and so on.
Only those can grow. Appending to one of them closes all containers nested
deeper, and handles to closed containers become detached.

**Keys.**
Maps use 4-byte big-endian signed keys; objects use a 1-byte length
followed by up to 255 bytes of UTF-8. Keys are not deduplicated; lookups
return the first match.
*/
package binn

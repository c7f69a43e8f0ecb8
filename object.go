package binn

import "iter"

// Object is a container with string keys of up to MaxKeyLen bytes.
type Object struct {
	c Container
}

// EmptyObject returns a read-only empty object.
func EmptyObject() Object { return Object{EmptyContainer(KeyString)} }

// NewObject writes an empty object into buf and opens it for appending.
func NewObject(buf []byte) (Object, error) {
	c, err := NewContainer(buf, KeyString)
	return Object{c}, err
}

// OpenObject validates the object at the start of buf and opens it for
// appending.
func OpenObject(buf []byte) (Object, error) {
	c, err := OpenContainer(buf, KeyString)
	return Object{c}, err
}

// LoadObject validates the object at the start of data and returns a
// read-only view.
func LoadObject(data []byte) (Object, error) {
	c, err := LoadContainer(data, KeyString)
	return Object{c}, err
}

func (o Object) container() Container {
	if o.c.doc == nil && o.c.raw == nil {
		return EmptyContainer(KeyString)
	}
	return o.c
}

func (o Object) Container() Container { return o.container() }
func (o Object) Value() Value         { return o.container().Value() }
func (o Object) Bytes() []byte        { return o.container().Bytes() }
func (o Object) Count() int           { return o.container().Count() }
func (o Object) IsMutable() bool      { return o.c.IsMutable() }

// Add appends v under key. Keys are not deduplicated.
func (o Object) Add(key string, v Value) (Value, error) {
	return o.container().Add(StringKey(key), v)
}

func (o Object) AddList(key string) (List, error) {
	v, err := o.Add(key, EmptyList().Value())
	return List{v.c}, err
}

func (o Object) AddMap(key string) (Map, error) {
	v, err := o.Add(key, EmptyMap().Value())
	return Map{v.c}, err
}

func (o Object) AddObject(key string) (Object, error) {
	v, err := o.Add(key, EmptyObject().Value())
	return Object{v.c}, err
}

// Get returns the first value stored under key.
func (o Object) Get(key string) (Value, bool) {
	return o.container().Get(StringKey(key))
}

// All iterates over keys and values in storage order.
func (o Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		cur := o.container().cursor()
		for {
			k, v, err := cur.next()
			if err != nil || !yield(string(k.str), v) {
				return
			}
		}
	}
}

func (o Object) String() string { return Dump(o.Value()) }
